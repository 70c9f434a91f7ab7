package hash

import (
	"bytes"
	"encoding/binary"
	"io"
)

// WriterToWithDomain is implemented by values that can be fingerprinted.
type WriterToWithDomain interface {
	io.WriterTo

	// Domain names the kind of data written, distinct for every implementation.
	Domain() string
}

// Labeled attaches a domain to raw bytes.
type Labeled struct {
	Label string
	Data  []byte
}

// WriteTo implements io.WriterTo.
func (l Labeled) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(l.Data)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (l Labeled) Domain() string {
	return l.Label
}

// writeFramed writes len(domain) ∥ domain ∥ len(data) ∥ data, lengths as 8 byte big-endian integers.
// Distinct sequences of objects therefore never produce the same stream.
func writeFramed(w io.Writer, object WriterToWithDomain) error {
	var data bytes.Buffer
	if _, err := object.WriteTo(&data); err != nil {
		return err
	}
	domain := object.Domain()
	frame := make([]byte, 0, 16+len(domain)+data.Len())
	frame = binary.BigEndian.AppendUint64(frame, uint64(len(domain)))
	frame = append(frame, domain...)
	frame = binary.BigEndian.AppendUint64(frame, uint64(data.Len()))
	frame = append(frame, data.Bytes()...)
	_, err := w.Write(frame)
	return err
}
