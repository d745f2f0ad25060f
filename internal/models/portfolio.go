// ABOUTME: PortfolioProject represents a past project used to back up proposals
// ABOUTME: Carries AI-derived metadata and the embedding used for job matching
package models

import (
	"slices"
	"time"
)

// ProjectType classifies a portfolio project
type ProjectType string

// Supported project types
const (
	ProjectWebApp          ProjectType = "web_app"
	ProjectMobileApp       ProjectType = "mobile_app"
	ProjectAPI             ProjectType = "api"
	ProjectDataScience     ProjectType = "data_science"
	ProjectMachineLearning ProjectType = "machine_learning"
	ProjectDesktopApp      ProjectType = "desktop_app"
	ProjectGame            ProjectType = "game"
	ProjectBlockchain      ProjectType = "blockchain"
	ProjectOther           ProjectType = "other"
)

// ProjectTypes lists every valid project type
var ProjectTypes = []ProjectType{
	ProjectWebApp, ProjectMobileApp, ProjectAPI, ProjectDataScience,
	ProjectMachineLearning, ProjectDesktopApp, ProjectGame, ProjectBlockchain, ProjectOther,
}

// ComplexityLevel grades how demanding a project was
type ComplexityLevel string

// Supported complexity levels
const (
	ComplexityBeginner     ComplexityLevel = "beginner"
	ComplexityIntermediate ComplexityLevel = "intermediate"
	ComplexityAdvanced     ComplexityLevel = "advanced"
	ComplexityExpert       ComplexityLevel = "expert"
)

// ComplexityLevels lists every valid complexity level
var ComplexityLevels = []ComplexityLevel{
	ComplexityBeginner, ComplexityIntermediate, ComplexityAdvanced, ComplexityExpert,
}

// NormalizeProjectType maps unknown values to ProjectOther
func NormalizeProjectType(s string) ProjectType {
	if slices.Contains(ProjectTypes, ProjectType(s)) {
		return ProjectType(s)
	}
	return ProjectOther
}

// NormalizeComplexity maps unknown values to ComplexityIntermediate
func NormalizeComplexity(s string) ComplexityLevel {
	if slices.Contains(ComplexityLevels, ComplexityLevel(s)) {
		return ComplexityLevel(s)
	}
	return ComplexityIntermediate
}

// PortfolioProject is a past project owned by a user
type PortfolioProject struct {
	ID              string          `json:"id" yaml:"id"`
	UserID          string          `json:"user_id" yaml:"user_id"`
	Name            string          `json:"name" yaml:"name"`
	Description     string          `json:"description" yaml:"description"`
	Tags            []string        `json:"tags" yaml:"tags"`
	AISummary       string          `json:"ai_summary,omitempty" yaml:"ai_summary,omitempty"`
	Technologies    []string        `json:"technologies" yaml:"technologies"`
	ProjectType     ProjectType     `json:"project_type" yaml:"project_type"`
	ComplexityLevel ComplexityLevel `json:"complexity_level" yaml:"complexity_level"`
	Embedding       []float64       `json:"-" yaml:"-"`
	GithubURL       string          `json:"github_url,omitempty" yaml:"github_url,omitempty"`
	LiveURL         string          `json:"live_url,omitempty" yaml:"live_url,omitempty"`
	AppStoreURL     string          `json:"app_store_url,omitempty" yaml:"app_store_url,omitempty"`
	Images          []string        `json:"images,omitempty" yaml:"images,omitempty"`
	IsFeatured      bool            `json:"is_featured" yaml:"is_featured"`
	CreatedAt       time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" yaml:"updated_at"`
}

// PrimaryURL returns the first available link, preferring GitHub, then live, then app store
func (p *PortfolioProject) PrimaryURL() string {
	switch {
	case p.GithubURL != "":
		return p.GithubURL
	case p.LiveURL != "":
		return p.LiveURL
	default:
		return p.AppStoreURL
	}
}

// URLs returns all non-empty links in preference order
func (p *PortfolioProject) URLs() []string {
	var urls []string
	for _, u := range []string{p.GithubURL, p.LiveURL, p.AppStoreURL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// HasEmbedding reports whether the project can take part in matching
func (p *PortfolioProject) HasEmbedding() bool {
	return len(p.Embedding) > 0
}

// ApplyAnalysis copies AI-derived fields onto the project
func (p *PortfolioProject) ApplyAnalysis(a *ProjectAnalysis) {
	if a == nil {
		return
	}
	p.Tags = a.Tags
	p.Technologies = a.Technologies
	p.ProjectType = a.ProjectType
	p.ComplexityLevel = a.ComplexityLevel
	p.AISummary = a.Summary
	p.Embedding = a.Embedding
}

// ProjectAnalysis is the output of analyzing a project description
type ProjectAnalysis struct {
	Tags            []string        `json:"tags"`
	Technologies    []string        `json:"technologies"`
	ProjectType     ProjectType     `json:"project_type"`
	ComplexityLevel ComplexityLevel `json:"complexity_level"`
	Summary         string          `json:"summary"`
	Embedding       []float64       `json:"-"`
}

// DefaultAnalysis is used when metadata extraction returns something unparseable
func DefaultAnalysis() *ProjectAnalysis {
	return &ProjectAnalysis{
		Tags:            []string{},
		Technologies:    []string{},
		ProjectType:     ProjectOther,
		ComplexityLevel: ComplexityIntermediate,
	}
}

// SimilarProject pairs a project with its similarity to a job description
type SimilarProject struct {
	Project *PortfolioProject `json:"project"`
	Score   float64           `json:"similarity_score"`
}

// ProjectFilter narrows portfolio listings
type ProjectFilter struct {
	ProjectType ProjectType
	Featured    *bool
}
