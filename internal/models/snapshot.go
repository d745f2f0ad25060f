// ABOUTME: Snapshot is the complete dataset used for export, import, and cloud backup
// ABOUTME: Embeddings travel alongside projects so restores do not need re-analysis
package models

// Snapshot holds every record in the store
type Snapshot struct {
	Version    string              `json:"version" yaml:"version"`
	ExportedAt string              `json:"exported_at" yaml:"exported_at"`
	Tool       string              `json:"tool" yaml:"tool"`
	Profile    *FreelancerProfile  `json:"profile,omitempty" yaml:"profile,omitempty"`
	Proposals  []*Proposal         `json:"proposals" yaml:"proposals"`
	Projects   []*ProjectRecord    `json:"projects" yaml:"projects"`
	Tracking   []*ProposalTracking `json:"tracking" yaml:"tracking"`
	Documents  []*DocumentRecord   `json:"documents,omitempty" yaml:"documents,omitempty"`
}

// ProjectRecord is a portfolio project with its embedding made serializable
type ProjectRecord struct {
	PortfolioProject `yaml:",inline"`
	Embedding        []float64 `json:"embedding,omitempty" yaml:"embedding,omitempty,flow"`
}

// NewProjectRecord wraps a project for serialization
func NewProjectRecord(p *PortfolioProject) *ProjectRecord {
	return &ProjectRecord{PortfolioProject: *p, Embedding: p.Embedding}
}

// Project unwraps the record, restoring the embedding
func (r *ProjectRecord) Project() *PortfolioProject {
	p := r.PortfolioProject
	p.Embedding = r.Embedding
	return &p
}

// DocumentRecord is a document with its embedding made serializable
type DocumentRecord struct {
	Document  `yaml:",inline"`
	Embedding []float64 `json:"embedding,omitempty" yaml:"embedding,omitempty,flow"`
}

// NewDocumentRecord wraps a document for serialization
func NewDocumentRecord(d *Document) *DocumentRecord {
	return &DocumentRecord{Document: *d, Embedding: d.Embedding}
}

// Doc unwraps the record, restoring the embedding
func (r *DocumentRecord) Doc() *Document {
	d := r.Document
	d.Embedding = r.Embedding
	return &d
}

// Counts returns the number of records per kind
func (s *Snapshot) Counts() (proposals, projects, tracking int) {
	return len(s.Proposals), len(s.Projects), len(s.Tracking)
}
