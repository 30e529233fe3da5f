// Package workspace manages the on-disk project layout: the .qfproj project
// file, the .questfoundry directory, and the persisted records of past loop
// runs. Runs persist only their computed summary; all creative artifacts
// live with the external engine.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Dir is the workspace directory name created by `qf init`.
const Dir = ".questfoundry"

// SeedFile is the optional story seed file inside the workspace directory.
const SeedFile = "seed.txt"

// ErrNoWorkspace is returned when no .questfoundry directory is found in the
// current directory or any parent.
var ErrNoWorkspace = errors.New("no questfoundry workspace found")

// ErrNoProject is returned when a workspace root has no .qfproj file.
var ErrNoProject = errors.New("no project file found")

// Project is the metadata stored in the <name>.qfproj file.
type Project struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks project invariants, including that Version parses as
// semantic versioning.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("project name must not be empty")
	}
	if _, err := semver.NewVersion(p.Version); err != nil {
		return fmt.Errorf("invalid project version %q: %w", p.Version, err)
	}
	return nil
}

// FindRoot walks upward from start until it finds a directory containing
// .questfoundry, and returns that directory.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	for {
		info, err := os.Stat(filepath.Join(dir, Dir))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoWorkspace
		}
		dir = parent
	}
}

// FindProjectFile returns the path of the first .qfproj file in root.
func FindProjectFile(root string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*.qfproj"))
	if err != nil {
		return "", fmt.Errorf("failed to scan for project file: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNoProject
	}
	return matches[0], nil
}

// LoadProject reads and validates a .qfproj file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProject writes the project file as <slug>.qfproj in root and returns
// its path.
func SaveProject(root string, p *Project) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal project: %w", err)
	}
	path := filepath.Join(root, Slug(p.Name)+".qfproj")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write project file: %w", err)
	}
	return path, nil
}

// Slug converts a project or loop name to a filesystem-safe kebab-case
// identifier.
func Slug(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// ReadSeed returns the story seed from .questfoundry/seed.txt, or "" if the
// file does not exist.
func ReadSeed(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, Dir, SeedFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read seed file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
