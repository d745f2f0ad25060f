// ABOUTME: Export and import of the complete proposal dataset
// ABOUTME: Supports YAML and JSON files plus snapshot upserts used by cloud restore
package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/proposal-forge/internal/models"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion identifies the export layout
const SnapshotVersion = "1.0"

// Export collects every record into a snapshot
func (s *Storage) Export() (*models.Snapshot, error) {
	snap := &models.Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tool:       "proposals",
		Proposals:  []*models.Proposal{},
		Projects:   []*models.ProjectRecord{},
		Tracking:   []*models.ProposalTracking{},
	}

	profile, err := s.profile.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	snap.Profile = profile

	proposals, err := s.proposals.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	if proposals != nil {
		snap.Proposals = proposals
	}

	projects, err := s.portfolio.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		snap.Projects = append(snap.Projects, models.NewProjectRecord(p))
	}

	tracking, err := s.tracking.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking records: %w", err)
	}
	if tracking != nil {
		snap.Tracking = tracking
	}

	documents, err := s.documents.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	for _, d := range documents {
		snap.Documents = append(snap.Documents, models.NewDocumentRecord(d))
	}

	return snap, nil
}

// Import upserts every record in the snapshot. Proposals go first so
// tracking rows always find their parent.
func (s *Storage) Import(snap *models.Snapshot) error {
	if snap == nil {
		return nil
	}
	if snap.Profile != nil {
		if err := s.profile.Save(snap.Profile); err != nil {
			return err
		}
	}
	for _, p := range snap.Proposals {
		if err := s.proposals.Save(p); err != nil {
			return fmt.Errorf("proposal %s: %w", p.ID, err)
		}
	}
	for _, r := range snap.Projects {
		if err := s.portfolio.Save(r.Project()); err != nil {
			return fmt.Errorf("project %s: %w", r.ID, err)
		}
	}
	for _, t := range snap.Tracking {
		if err := s.tracking.Save(t); err != nil {
			return fmt.Errorf("tracking %s: %w", t.ID, err)
		}
	}
	for _, r := range snap.Documents {
		if err := s.documents.Save(r.Doc()); err != nil {
			return fmt.Errorf("document %s: %w", r.ID, err)
		}
	}
	return nil
}

// ExportToYAML exports data to a YAML file
func (s *Storage) ExportToYAML(outputPath string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// ExportToJSON exports data to a JSON file
func (s *Storage) ExportToJSON(outputPath string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ImportFromFile loads a YAML or JSON export and upserts it
func (s *Storage) ImportFromFile(path string) (*models.Snapshot, error) {
	raw, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var snap models.Snapshot
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &snap)
	} else {
		err = yaml.Unmarshal(raw, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	if err := s.Import(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func createOutput(outputPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}
