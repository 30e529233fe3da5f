package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/questfoundry/qf/internal/progress"
)

// RunRecord is the per-run metadata stored in runs/<id>/run.yaml.
type RunRecord struct {
	ID         string    `yaml:"id"`
	Loop       string    `yaml:"loop"`
	LoopName   string    `yaml:"loop_name"`
	StartedAt  time.Time `yaml:"started_at"`
	Reason     string    `yaml:"reason"`
	Stabilized bool      `yaml:"stabilized"`
	Iterations int       `yaml:"iterations"`
}

// Store handles run-record storage under <root>/.questfoundry/runs.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the project directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Init creates the workspace directory layout.
func (s *Store) Init() error {
	for _, dir := range []string{
		filepath.Join(s.root, Dir),
		s.runsDir(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (s *Store) runsDir() string {
	return filepath.Join(s.root, Dir, "runs")
}

func (s *Store) runDir(id string) string {
	return filepath.Join(s.runsDir(), id)
}

// NewRunID builds a sortable run identifier from the start time and loop id.
func NewRunID(startedAt time.Time, loop string) string {
	return startedAt.UTC().Format("20060102T150405Z") + "-" + loop
}

// SaveRun persists a run record and its summary.
func (s *Store) SaveRun(rec *RunRecord, summary progress.Summary) error {
	dir := s.runDir(rec.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	recData, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "run.yaml"), recData, 0o644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}

	sumData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "summary.json"), sumData, 0o644); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}

// LoadRun reads the run record for id.
func (s *Store) LoadRun(id string) (*RunRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(id), "run.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}
	var rec RunRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse run record: %w", err)
	}
	return &rec, nil
}

// LoadSummary reads the persisted summary for a run.
func (s *Store) LoadSummary(id string) (progress.Summary, error) {
	var sum progress.Summary
	data, err := os.ReadFile(filepath.Join(s.runDir(id), "summary.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return sum, fmt.Errorf("summary not found for run: %s", id)
		}
		return sum, fmt.Errorf("failed to read run summary: %w", err)
	}
	if err := json.Unmarshal(data, &sum); err != nil {
		return sum, fmt.Errorf("failed to parse run summary: %w", err)
	}
	return sum, nil
}

// ListRuns enumerates all run records, newest first. Directories without a
// readable run.yaml are skipped.
func (s *Store) ListRuns() ([]*RunRecord, error) {
	entries, err := os.ReadDir(s.runsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*RunRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var runs []*RunRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.LoadRun(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, rec)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	return runs, nil
}
