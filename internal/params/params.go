package params

const (
	SecParam  = 256
	SecBytes  = SecParam / 8 // = 32
	WordBytes = 32

	// BytesScalar is the size of a big-endian scalar in transcripts and calldata.
	BytesScalar = SecBytes
	// BytesCoordinate is the size of a single big-endian affine coordinate.
	BytesCoordinate = WordBytes
	// BytesPoint is the size of a point serialized as x‖y.
	BytesPoint = 2 * BytesCoordinate // = 64
	// BytesCompressedPoint is the size of a SEC1 compressed point.
	BytesCompressedPoint = BytesCoordinate + 1 // = 33

	// BitsPerValue is the bit width of a committed amount used by the token contract.
	BitsPerValue = 64
	// AggregatedValues is the number of outputs proven together in a transfer (amount and change).
	AggregatedValues = 2

	// BytesIV is the AES-CBC initialization vector size.
	BytesIV = 16
	// BytesEnvelope is the size of an encrypted (value, blinding) pair.
	BytesEnvelope = 2 * BytesScalar // = 64

	// MetaFieldBits is the width of each field in the packed calldata metadata word.
	MetaFieldBits = 64

	// CurveBN256 and CurveSecp256k1 are the names under which parameters are persisted.
	CurveBN256     = "bn256"
	CurveSecp256k1 = "secp256k1"
)
