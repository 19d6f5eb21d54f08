package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
)

// Compressor defines the interface for compression algorithms.
type Compressor interface {
	// Name returns the name of the compression algorithm.
	Name() string

	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// ErrCorruptBlob is returned when a stored blob cannot be decoded
var ErrCorruptBlob = errors.New("corrupt blob")

// NoCompressor implements a pass-through compressor.
type NoCompressor struct{}

func (NoCompressor) Name() string { return "none" }

func (NoCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (NoCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// LZ4Compressor implements LZ4 block compression. Output starts with the
// uvarint length of the input and a flag byte telling whether the block
// that follows is compressed or stored as is.
type LZ4Compressor struct{}

const (
	blockStored     byte = 0
	blockCompressed byte = 1
)

// maxBlobSize bounds the decompressed size accepted from a blob header.
const maxBlobSize = 64 << 20

func (LZ4Compressor) Name() string { return "lz4" }

// Compress compresses data using LZ4.
func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	header := make([]byte, binary.MaxVarintLen64+1)
	n := binary.PutUvarint(header, uint64(len(data)))
	if len(data) == 0 {
		header[n] = blockStored
		return header[:n+1], nil
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	size, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	// lz4 reports incompressible input with a zero size
	if size == 0 || size >= len(data) {
		header[n] = blockStored
		return append(header[:n+1], data...), nil
	}
	header[n] = blockCompressed
	return append(header[:n+1], compressed[:size]...), nil
}

// Decompress decompresses data produced by Compress.
func (LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	length, n := binary.Uvarint(data)
	if n <= 0 || n >= len(data) || length > maxBlobSize {
		return nil, fmt.Errorf("lz4 header: %w", ErrCorruptBlob)
	}
	flag, body := data[n], data[n+1:]

	switch flag {
	case blockStored:
		if uint64(len(body)) != length {
			return nil, fmt.Errorf("stored block length: %w", ErrCorruptBlob)
		}
		return append([]byte(nil), body...), nil
	case blockCompressed:
		out := make([]byte, length)
		size, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(size) != length {
			return nil, fmt.Errorf("lz4 block length: %w", ErrCorruptBlob)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown block flag %d: %w", flag, ErrCorruptBlob)
	}
}

// CompressorFor returns the compressor registered under name.
func CompressorFor(name string) (Compressor, error) {
	switch name {
	case "lz4", "":
		return LZ4Compressor{}, nil
	case "none":
		return NoCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compressor: %s", name)
	}
}
