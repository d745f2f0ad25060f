// ABOUTME: Binary encoding for embedding vectors
// ABOUTME: Little-endian float64 layout shared by SQLite BLOBs and the bbolt embedding cache
package util

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVector converts a float64 slice to a binary blob
func EncodeVector(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// DecodeVector converts a binary blob back to a float64 slice
func DecodeVector(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 8", len(blob))
	}
	vector := make([]float64, len(blob)/8)
	for i := range vector {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector, nil
}
