package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/taurusgroup/ct-bulletproofs/pkg/generators"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pool"
)

var (
	ErrBits     = errors.New("config: bits must be positive")
	ErrValues   = errors.New("config: values must be positive")
	ErrSize     = errors.New("config: bits⋅values must be a power of two")
	ErrWorkers  = errors.New("config: workers must not be negative")
	ErrLogLevel = errors.New("config: unknown log level")
)

// Config holds the settings shared by every command.
type Config struct {
	Curve string
	// Bits is the width of a single committed value.
	Bits int
	// Values is the number of values proven together.
	Values int
	// ParamsPath points to generators in JSON (.json) or CBOR form. When empty
	// they are derived from the curve and Bits⋅Values.
	ParamsPath string
	LogLevel   string
	JSONLog    bool
	// Workers is the size of the worker pool, 0 uses all CPUs.
	Workers int
}

// Default returns the configuration used by the token contract.
func Default() Config {
	return Config{
		Curve:    params.CurveBN256,
		Bits:     params.BitsPerValue,
		Values:   params.AggregatedValues,
		LogLevel: zerolog.LevelInfoValue,
	}
}

func (c *Config) Validate() error {
	if _, err := curve.FromName(c.Curve); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Bits <= 0 {
		return ErrBits
	}
	if c.Values <= 0 {
		return ErrValues
	}
	if !arith.IsPowerOfTwo(c.Size()) {
		return fmt.Errorf("%w: %d⋅%d", ErrSize, c.Bits, c.Values)
	}
	if c.Workers < 0 {
		return ErrWorkers
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

// Size is the number of generators in Gs and Hs.
func (c *Config) Size() int {
	return c.Bits * c.Values
}

func (c *Config) level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrLogLevel, c.LogLevel)
	}
	return lvl, nil
}

// Logger returns a logger writing to w, human readable unless JSONLog is set.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	lvl, err := c.level()
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if !c.JSONLog {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Pool returns a worker pool of the configured size. The caller must call TearDown.
func (c *Config) Pool() *pool.Pool {
	return pool.NewPool(c.Workers)
}

// LoadParams reads the generators from ParamsPath, or generates them.
// Loaded generators must be on the configured curve and of the configured size.
func (c *Config) LoadParams(pl *pool.Pool, log zerolog.Logger) (*generators.Params, error) {
	group, err := curve.FromName(c.Curve)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	start := time.Now()
	if c.ParamsPath == "" {
		p := generators.GenerateWithPool(pl, group, c.Size())
		log.Debug().Int("n", p.Len()).Dur("t", time.Since(start)).Msg("generated parameters")
		return p, nil
	}

	data, err := os.ReadFile(c.ParamsPath)
	if err != nil {
		return nil, fmt.Errorf("config: read parameters: %w", err)
	}
	p := generators.EmptyParams(group)
	if strings.EqualFold(filepath.Ext(c.ParamsPath), ".json") {
		err = p.UnmarshalJSON(data)
	} else {
		err = p.UnmarshalBinary(data)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", c.ParamsPath, err)
	}
	if p.Len() != c.Size() {
		return nil, fmt.Errorf("config: %s holds %d generators, expected %d", c.ParamsPath, p.Len(), c.Size())
	}
	log.Debug().Str("path", c.ParamsPath).Int("n", p.Len()).Dur("t", time.Since(start)).Msg("loaded parameters")
	return p, nil
}
