// ABOUTME: Retrieval metrics for portfolio matching benchmarks
// ABOUTME: Precision@k, recall@k, and reciprocal rank over ranked project IDs

package matching

// PrecisionAtK is the share of the top k ranked IDs that are relevant.
// Fewer than k results still divide by k.
func PrecisionAtK(ranked, relevant []string, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hits(ranked, relevant, k)) / float64(k)
}

// RecallAtK is the share of relevant IDs found in the top k
func RecallAtK(ranked, relevant []string, k int) float64 {
	if len(relevant) == 0 {
		return 1
	}
	return float64(hits(ranked, relevant, k)) / float64(len(relevant))
}

// ReciprocalRank is 1/position of the first relevant ID, or 0 if none appears
func ReciprocalRank(ranked, relevant []string) float64 {
	want := toSet(relevant)
	for i, id := range ranked {
		if want[id] {
			return 1 / float64(i+1)
		}
	}
	return 0
}

func hits(ranked, relevant []string, k int) int {
	want := toSet(relevant)
	n := 0
	for i, id := range ranked {
		if i >= k {
			break
		}
		if want[id] {
			n++
		}
	}
	return n
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
