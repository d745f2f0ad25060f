// ABOUTME: Tests for vector blob encoding
// ABOUTME: Verifies exact round trips and rejection of truncated blobs
package util

import (
	"math"
	"testing"
)

func TestVectorEncoding(t *testing.T) {
	in := []float64{0, -1.5, math.Pi, 1e-300}

	out, err := DecodeVector(EncodeVector(in))
	if err != nil {
		t.Fatalf("DecodeVector() error = %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestDecodeVector_Empty(t *testing.T) {
	out, err := DecodeVector(nil)
	if err != nil {
		t.Fatalf("DecodeVector(nil) error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}

func TestDecodeVector_BadLength(t *testing.T) {
	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}
