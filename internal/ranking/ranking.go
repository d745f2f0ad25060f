// ABOUTME: Cosine-similarity ranking of candidate vectors against a query vector
// ABOUTME: Threshold filter, stable descending sort, and top-K truncation with skip counting
package ranking

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidInput is returned when the query vector (or threshold) cannot be ranked against.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDimensionMismatch is returned when two vectors differ in length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Vector is an embedding. Its length is fixed per call, not globally.
type Vector []float64

// Candidate is an item to rank. Metadata is carried through untouched.
type Candidate[T any] struct {
	ID       string
	Vector   Vector
	Metadata T
}

// Match is a candidate that cleared the threshold, with its score.
type Match[T any] struct {
	ID       string
	Score    float64
	Metadata T
}

// Result holds the ranked matches plus the number of candidates that were
// skipped because their vector could not be compared with the query or
// produced a non-finite score.
type Result[T any] struct {
	Matches []Match[T]
	Skipped int
}

// Rank scores every candidate against query, drops anything scoring below
// threshold, and returns at most topK matches ordered by descending score.
// Equal scores keep their input order. A topK of zero or less is treated as 1.
func Rank[T any](query Vector, candidates []Candidate[T], topK int, threshold float64) (Result[T], error) {
	if len(query) == 0 {
		return Result[T]{}, fmt.Errorf("%w: query vector is empty", ErrInvalidInput)
	}
	if !finite(query) {
		return Result[T]{}, fmt.Errorf("%w: query vector contains NaN or Inf", ErrInvalidInput)
	}
	if math.IsNaN(threshold) {
		return Result[T]{}, fmt.Errorf("%w: threshold is NaN", ErrInvalidInput)
	}
	if topK <= 0 {
		topK = 1
	}

	result := Result[T]{Matches: make([]Match[T], 0, min(topK, len(candidates)))}

	scored := make([]Match[T], 0, len(candidates))
	for _, c := range candidates {
		if len(c.Vector) != len(query) || !finite(c.Vector) {
			result.Skipped++
			continue
		}

		score := cosine(query, c.Vector)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			result.Skipped++
			continue
		}
		if score < threshold {
			continue
		}
		scored = append(scored, Match[T]{ID: c.ID, Score: score, Metadata: c.Metadata})
	}

	slices.SortStableFunc(scored, func(a, b Match[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	result.Matches = append(result.Matches, scored...)

	return result, nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// A zero-norm vector scores 0 against anything.
func CosineSimilarity(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return cosine(a, b), nil
}

// cosine divides each vector by its largest absolute component before
// accumulating, so squared norms neither overflow nor underflow.
func cosine(a, b Vector) float64 {
	scaleA, scaleB := maxAbs(a), maxAbs(b)
	if scaleA == 0 || scaleB == 0 {
		return 0
	}

	var dot, sumA, sumB float64
	for i := range a {
		x, y := a[i]/scaleA, b[i]/scaleB
		dot += x * y
		sumA += x * x
		sumB += y * y
	}
	score := dot / (math.Sqrt(sumA) * math.Sqrt(sumB))
	return max(-1, min(1, score))
}

func maxAbs(v Vector) float64 {
	var m float64
	for _, x := range v {
		m = max(m, math.Abs(x))
	}
	return m
}

func finite(v Vector) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
