// ABOUTME: Proposal represents a generated freelance proposal and its job context
// ABOUTME: Includes the portfolio projects cited in the proposal and aggregate stats
package models

import "time"

// DefaultJobTitle is used when no title line can be found in a job description
const DefaultJobTitle = "Freelance Project"

// Proposal is a generated response to a job posting
type Proposal struct {
	ID                string            `json:"id" yaml:"id"`
	UserID            string            `json:"user_id" yaml:"user_id"`
	JobTitle          string            `json:"job_title" yaml:"job_title"`
	JobDescription    string            `json:"job_description" yaml:"job_description"`
	GeneratedProposal string            `json:"generated_proposal" yaml:"generated_proposal"`
	BudgetRange       string            `json:"budget_range,omitempty" yaml:"budget_range,omitempty"`
	ProjectDuration   string            `json:"project_duration,omitempty" yaml:"project_duration,omitempty"`
	IncludedProjects  []IncludedProject `json:"included_projects,omitempty" yaml:"included_projects,omitempty"`
	CreatedAt         time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" yaml:"updated_at"`
}

// IncludedProject records a portfolio project cited in a proposal
type IncludedProject struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

// JobMetadata holds fields heuristically pulled from a job description
type JobMetadata struct {
	Title           string `json:"title"`
	BudgetRange     string `json:"budget_range,omitempty"`
	ProjectDuration string `json:"project_duration,omitempty"`
}

// ProposalStats summarizes a user's proposal history
type ProposalStats struct {
	Total      int        `json:"total_proposals"`
	Last30Days int        `json:"recent_proposals"`
	LatestAt   *time.Time `json:"latest_proposal_date,omitempty"`
}
