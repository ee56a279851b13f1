package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/foldeval/refold/pkg/config"
)

// runsDirName is where run records live, under the output directory.
const runsDirName = ".refold/runs"

// RunRecord is the audit trail for one dispatched pipeline run. It is
// written after the run finishes and never read back by the dispatcher.
type RunRecord struct {
	ID         string            `yaml:"id"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	Command    string            `yaml:"command"`
	Success    bool              `yaml:"success"`
	Error      string            `yaml:"error,omitempty"`
	Config     *config.RunConfig `yaml:"config"`
}

// NewRunRecord stamps a record with a fresh ID and start time.
func NewRunRecord(cfg *config.RunConfig) *RunRecord {
	return &RunRecord{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Config:    cfg,
	}
}

// Finish fills in the outcome fields.
func (r *RunRecord) Finish(runErr error) {
	r.FinishedAt = time.Now().UTC()
	r.Success = runErr == nil
	if runErr != nil {
		r.Error = runErr.Error()
	}
}

// Save writes the record under outputDir/.refold/runs.
func (r *RunRecord) Save(outputDir string) (string, error) {
	dir := filepath.Join(outputDir, runsDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create runs directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal run record: %w", err)
	}

	path := filepath.Join(dir, r.StartedAt.Format("20060102-150405")+"-"+r.ID+".yml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write run record: %w", err)
	}
	return path, nil
}

// LoadRecords reads all run records under outputDir, oldest first.
func LoadRecords(outputDir string) ([]*RunRecord, error) {
	dir := filepath.Join(outputDir, runsDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read runs directory: %w", err)
	}

	var records []*RunRecord
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read run record %s: %w", entry.Name(), err)
		}
		var rec RunRecord
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse run record %s: %w", entry.Name(), err)
		}
		records = append(records, &rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}
