// ABOUTME: Small rune-aware string helpers shared across packages
// ABOUTME: Used for previews in API responses, prompts, and CLI tables
package util

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Preview cuts s to n runes and appends "..." when anything was removed
func Preview(s string, n int) string {
	cut := Truncate(s, n)
	if cut == s {
		return s
	}
	return cut + "..."
}

// RuneLen returns the number of runes in s
func RuneLen(s string) int {
	return len([]rune(s))
}
