package report

import (
	"fmt"

	"github.com/golang/snappy"
)

// CompressedExt is appended to object names of snappy-compressed exports.
const CompressedExt = ".snappy"

// Compress snappy-encodes an export payload.
func Compress(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress export: %w", err)
	}
	return out, nil
}
