// ABOUTME: Heuristic extraction of title, budget, and duration from job description text
// ABOUTME: Line-based keyword scan; no LLM call
package core

import (
	"strings"

	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/util"
)

const (
	titleScanLines = 5
	titleMinRunes  = 10
	titleMaxRunes  = 100
	metaMaxRunes   = 100
)

var (
	budgetKeywords   = []string{"$", "budget", "pay", "rate", "price", "cost"}
	durationKeywords = []string{"week", "month", "day", "hour", "duration", "timeline", "deadline"}
)

// ExtractJobMetadata pulls a title, budget line, and duration line from a job description
func ExtractJobMetadata(description string) models.JobMetadata {
	lines := strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n")
	meta := models.JobMetadata{Title: models.DefaultJobTitle}

	for i, line := range lines {
		if i >= titleScanLines {
			break
		}
		line = strings.TrimSpace(line)
		if n := util.RuneLen(line); n > titleMinRunes && n < titleMaxRunes {
			meta.Title = line
			break
		}
	}

	budgetLine := -1
	for i, line := range lines {
		if containsAny(line, budgetKeywords) {
			meta.BudgetRange = util.Truncate(strings.TrimSpace(line), metaMaxRunes)
			budgetLine = i
			break
		}
	}

	// A rate like "$40/hour" is a budget, not a duration
	for i, line := range lines {
		if i == budgetLine {
			continue
		}
		if containsAny(line, durationKeywords) {
			meta.ProjectDuration = util.Truncate(strings.TrimSpace(line), metaMaxRunes)
			break
		}
	}

	return meta
}

func containsAny(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
