package persistence

import "errors"

const (
	// MagicNumber identifies pointgrid snapshot files (ASCII: "PGR1").
	MagicNumber = 0x50475231
	// Version is the current snapshot format version.
	Version = 0x00010000
)

// Compression selects the body codec of a snapshot.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// String returns the string representation of the Compression codec.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidMagic       = errors.New("persistence: invalid magic number")
	ErrInvalidVersion     = errors.New("persistence: unsupported version")
	ErrInvalidCompression = errors.New("persistence: unknown compression codec")
	ErrChecksumMismatch   = errors.New("persistence: checksum mismatch")
)

// fileHeader is the fixed 32-byte uncompressed prefix of every snapshot.
// The body that follows (descriptor + leaves + CRC32) may be compressed.
type fileHeader struct {
	Magic     uint32
	Version   uint32
	Codec     uint8
	_         [3]byte
	LeafCount uint32
	Reserved  [16]byte
}
