// ABOUTME: Tests for cosine similarity ranking
// ABOUTME: Covers threshold filtering, top-K truncation, stability, and skipped candidates
package ranking

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func sampleCandidates() []Candidate[string] {
	return []Candidate[string]{
		{ID: "A", Vector: Vector{1, 0}, Metadata: "project A"},
		{ID: "B", Vector: Vector{0, 1}, Metadata: "project B"},
		{ID: "C", Vector: Vector{0.9, 0.1}, Metadata: "project C"},
	}
}

func TestRank_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		topK      int
		threshold float64
		wantIDs   []string
	}{
		{"top two above 0.5", 2, 0.5, []string{"A", "C"}},
		{"strict threshold", 2, 0.95, []string{"A", "C"}},
		{"stricter threshold", 2, 0.995, []string{"A"}},
		{"zero topK means one", 0, 0.5, []string{"A"}},
		{"negative topK means one", -3, 0.5, []string{"A"}},
		{"everything passes", 10, -1, []string{"A", "C", "B"}},
		{"nothing passes", 3, 1.5, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Rank(Vector{1, 0}, sampleCandidates(), tt.topK, tt.threshold)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if len(result.Matches) != len(tt.wantIDs) {
				t.Fatalf("len(Matches) = %d, want %d", len(result.Matches), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if result.Matches[i].ID != id {
					t.Errorf("Matches[%d].ID = %s, want %s", i, result.Matches[i].ID, id)
				}
			}
			if result.Skipped != 0 {
				t.Errorf("Skipped = %d, want 0", result.Skipped)
			}
		})
	}
}

func TestRank_Scores(t *testing.T) {
	result, err := Rank(Vector{1, 0}, sampleCandidates(), 2, 0.5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if result.Matches[0].Score != 1.0 {
		t.Errorf("A score = %v, want 1.0", result.Matches[0].Score)
	}
	if math.Abs(result.Matches[1].Score-0.9939) > 1e-4 {
		t.Errorf("C score = %v, want ~0.9939", result.Matches[1].Score)
	}
	if result.Matches[1].Metadata != "project C" {
		t.Errorf("C metadata = %q, want passthrough", result.Matches[1].Metadata)
	}
}

func TestRank_EmptyCandidates(t *testing.T) {
	result, err := Rank[string](Vector{1, 0}, nil, 3, 0.6)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if result.Matches == nil {
		t.Error("Matches should be an empty slice, not nil")
	}
	if len(result.Matches) != 0 {
		t.Errorf("len(Matches) = %d, want 0", len(result.Matches))
	}
}

func TestRank_InvalidQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     Vector
		threshold float64
	}{
		{"nil query", nil, 0.5},
		{"empty query", Vector{}, 0.5},
		{"NaN in query", Vector{1, math.NaN()}, 0.5},
		{"Inf in query", Vector{math.Inf(1), 0}, 0.5},
		{"NaN threshold", Vector{1, 0}, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rank(tt.query, sampleCandidates(), 2, tt.threshold)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Rank() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRank_SkipsMismatchedCandidates(t *testing.T) {
	candidates := []Candidate[string]{
		{ID: "short", Vector: Vector{1}},
		{ID: "ok", Vector: Vector{1, 0}},
		{ID: "long", Vector: Vector{1, 0, 0}},
		{ID: "nan", Vector: Vector{math.NaN(), 1}},
	}

	result, err := Rank(Vector{1, 0}, candidates, 5, 0)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if result.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", result.Skipped)
	}
	if len(result.Matches) != 1 || result.Matches[0].ID != "ok" {
		t.Errorf("Matches = %+v, want only ok", result.Matches)
	}
}

func TestRank_ZeroVectorScoresZero(t *testing.T) {
	candidates := []Candidate[string]{{ID: "zero", Vector: Vector{0, 0}}}

	result, err := Rank(Vector{1, 0}, candidates, 1, 0)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("len(Matches) = %d, want 1", len(result.Matches))
	}
	if result.Matches[0].Score != 0 {
		t.Errorf("Score = %v, want 0", result.Matches[0].Score)
	}

	result, err = Rank(Vector{0, 0}, sampleCandidates(), 3, 0)
	if err != nil {
		t.Fatalf("Rank() zero query error = %v", err)
	}
	for _, m := range result.Matches {
		if m.Score != 0 || math.IsNaN(m.Score) {
			t.Errorf("zero query score for %s = %v, want 0", m.ID, m.Score)
		}
	}
}

func TestRank_ExtremeMagnitudes(t *testing.T) {
	tests := []struct {
		name  string
		query Vector
		cands []Candidate[string]
		want  []string
	}{
		{
			name:  "huge components",
			query: Vector{1e200, 1e200},
			cands: []Candidate[string]{
				{ID: "big", Vector: Vector{1e200, 1e200}},
				{ID: "ok", Vector: Vector{1, 1}},
			},
			want: []string{"big", "ok"},
		},
		{
			name:  "tiny components",
			query: Vector{1e-200, 1e-200},
			cands: []Candidate[string]{
				{ID: "tiny", Vector: Vector{1e-200, 1e-200}},
				{ID: "off", Vector: Vector{1e-200, -1e-200}},
			},
			want: []string{"tiny"},
		},
		{
			name:  "mixed scales",
			query: Vector{1, 1},
			cands: []Candidate[string]{
				{ID: "max", Vector: Vector{math.MaxFloat64, math.MaxFloat64}},
				{ID: "min", Vector: Vector{math.SmallestNonzeroFloat64, math.SmallestNonzeroFloat64}},
			},
			want: []string{"max", "min"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Rank(tt.query, tt.cands, 2, 0.6)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if result.Skipped != 0 {
				t.Errorf("Skipped = %d, want 0", result.Skipped)
			}
			if len(result.Matches) != len(tt.want) {
				t.Fatalf("Matches = %+v, want %v", result.Matches, tt.want)
			}
			for i, id := range tt.want {
				m := result.Matches[i]
				if m.ID != id {
					t.Errorf("Matches[%d].ID = %s, want %s", i, m.ID, id)
				}
				if math.IsNaN(m.Score) || math.Abs(m.Score-1) > 1e-12 {
					t.Errorf("%s score = %v, want 1", m.ID, m.Score)
				}
			}
		})
	}
}

func TestCosineSimilarity_ExtremeMagnitudes(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{"tiny self", Vector{1e-200, 1e-200}, Vector{1e-200, 1e-200}, 1},
		{"huge self", Vector{1e200, -1e200}, Vector{1e200, -1e200}, 1},
		{"huge opposite", Vector{1e300, 0}, Vector{-1e300, 0}, -1},
		{"huge orthogonal", Vector{1e300, 0}, Vector{0, 1e300}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("CosineSimilarity() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRank_StableOnTies(t *testing.T) {
	candidates := []Candidate[string]{
		{ID: "first", Vector: Vector{2, 0}},
		{ID: "second", Vector: Vector{1, 0}},
		{ID: "third", Vector: Vector{5, 0}},
	}

	result, err := Rank(Vector{1, 0}, candidates, 3, 0)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if result.Matches[i].ID != id {
			t.Errorf("Matches[%d].ID = %s, want %s", i, result.Matches[i].ID, id)
		}
	}
}

func TestRank_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))

	for iter := 0; iter < 200; iter++ {
		dim := 1 + r.IntN(8)
		query := randomVector(r, dim)

		candidates := make([]Candidate[int], r.IntN(20))
		for i := range candidates {
			candidates[i] = Candidate[int]{Vector: randomVector(r, dim), Metadata: i}
		}
		topK := r.IntN(6) - 1
		threshold := r.Float64()*2 - 1

		result, err := Rank(query, candidates, topK, threshold)
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}

		limit := max(topK, 1)
		if len(result.Matches) > limit {
			t.Fatalf("len(Matches) = %d exceeds topK %d", len(result.Matches), limit)
		}
		for i, m := range result.Matches {
			if math.IsNaN(m.Score) || m.Score < threshold || m.Score > 1 {
				t.Fatalf("score %v outside [%v, 1]", m.Score, threshold)
			}
			if i > 0 && m.Score > result.Matches[i-1].Score {
				t.Fatalf("matches not sorted: %v after %v", m.Score, result.Matches[i-1].Score)
			}
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := Vector{0.3, -1.2, 4.5}
	b := Vector{2.0, 0.1, -0.7}

	self, err := CosineSimilarity(a, a)
	if err != nil {
		t.Fatalf("CosineSimilarity() error = %v", err)
	}
	if math.Abs(self-1.0) > 1e-12 {
		t.Errorf("self similarity = %v, want 1.0", self)
	}

	ab, _ := CosineSimilarity(a, b)
	ba, _ := CosineSimilarity(b, a)
	if ab != ba {
		t.Errorf("similarity not symmetric: %v != %v", ab, ba)
	}

	if _, err := CosineSimilarity(a, Vector{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("CosineSimilarity() error = %v, want ErrDimensionMismatch", err)
	}

	zero, err := CosineSimilarity(Vector{0, 0}, Vector{1, 1})
	if err != nil {
		t.Fatalf("CosineSimilarity() error = %v", err)
	}
	if zero != 0 {
		t.Errorf("zero vector similarity = %v, want 0", zero)
	}
}

func randomVector(r *rand.Rand, dim int) Vector {
	scale := math.Pow(10, float64(r.IntN(601)-300))
	v := make(Vector, dim)
	for i := range v {
		v[i] = (r.Float64()*2 - 1) * scale
	}
	return v
}
