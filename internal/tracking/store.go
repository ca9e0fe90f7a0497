// Package tracking is a local experiment-tracking store: logged runs plus
// named, versioned data artifacts resolvable by "name:alias" references.
package tracking

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/utils"
)

const (
	artifactFileName = "artifact.yaml"
	// AliasLatest is maintained automatically on every logged version.
	AliasLatest = "latest"
)

// Store is a filesystem-backed tracking backend rooted at a single directory:
//
//	<root>/artifacts/<name>/v<N>/<file> + artifact.yaml
//	<root>/runs/<id>/run.yaml
type Store struct {
	root string
}

// NewStore opens (creating if needed) a store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("tracking store root not set")
	}
	for _, sub := range []string{"artifacts", "runs"} {
		if err := utils.EnsureDir(filepath.Join(dir, sub)); err != nil {
			return nil, fmt.Errorf("ensure store dir: %w", err)
		}
	}
	return &Store{root: dir}, nil
}

// Root returns the on-disk store directory.
func (s *Store) Root() string { return s.root }

// Version is one logged revision of a named artifact.
type Version struct {
	Version     int       `yaml:"version"`
	File        string    `yaml:"file"`
	Type        string    `yaml:"type"`
	Description string    `yaml:"description"`
	LoggedBy    string    `yaml:"logged_by"`
	CreatedAt   time.Time `yaml:"created_at"`
}

// Artifact is the persisted metadata of a named artifact: its version
// history and the alias map (alias -> version number).
type Artifact struct {
	Name     string         `yaml:"name"`
	Versions []Version      `yaml:"versions"`
	Aliases  map[string]int `yaml:"aliases"`
}

func (s *Store) artifactDir(name string) string {
	return filepath.Join(s.root, "artifacts", name)
}

func (s *Store) loadArtifact(name string) (*Artifact, error) {
	b, err := os.ReadFile(filepath.Join(s.artifactDir(name), artifactFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact %q not found", name)
		}
		return nil, fmt.Errorf("read artifact metadata: %w", err)
	}
	var a Artifact
	if err := yaml.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("parse artifact metadata: %w", err)
	}
	return &a, nil
}

func (s *Store) saveArtifact(a *Artifact) error {
	b, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artifact metadata: %w", err)
	}
	return utils.SafeWriteFile(filepath.Join(s.artifactDir(a.Name), artifactFileName), b)
}

// LogArtifact copies srcPath into the store as a new version of name and
// moves the "latest" alias to it. runID records provenance and may be empty.
func (s *Store) LogArtifact(name, srcPath, atype, description, runID string) (Version, error) {
	a, err := s.loadArtifact(name)
	if err != nil {
		// First version of a new artifact.
		a = &Artifact{Name: name, Aliases: map[string]int{}}
	}
	ver := Version{
		Version:     len(a.Versions) + 1,
		File:        filepath.Base(srcPath),
		Type:        atype,
		Description: description,
		LoggedBy:    runID,
		CreatedAt:   time.Now(),
	}
	dir := filepath.Join(s.artifactDir(name), fmt.Sprintf("v%d", ver.Version))
	if err := utils.EnsureDir(dir); err != nil {
		return Version{}, fmt.Errorf("ensure version dir: %w", err)
	}
	if err := utils.CopyFile(srcPath, filepath.Join(dir, ver.File)); err != nil {
		return Version{}, fmt.Errorf("store artifact file: %w", err)
	}
	a.Versions = append(a.Versions, ver)
	if a.Aliases == nil {
		a.Aliases = map[string]int{}
	}
	a.Aliases[AliasLatest] = ver.Version
	if err := s.saveArtifact(a); err != nil {
		return Version{}, err
	}
	return ver, nil
}

// ResolveArtifact resolves a "name:alias" reference (alias defaults to
// "latest") to the local path of the stored file.
func (s *Store) ResolveArtifact(ref string) (string, error) {
	name, alias := splitRef(ref)
	a, err := s.loadArtifact(name)
	if err != nil {
		return "", err
	}
	vn, ok := a.Aliases[alias]
	if !ok {
		return "", fmt.Errorf("artifact %q has no alias %q", name, alias)
	}
	for _, v := range a.Versions {
		if v.Version == vn {
			path := filepath.Join(s.artifactDir(name), fmt.Sprintf("v%d", vn), v.File)
			if _, err := os.Stat(path); err != nil {
				return "", fmt.Errorf("artifact %s:%s is stale: %w", name, alias, err)
			}
			return path, nil
		}
	}
	return "", fmt.Errorf("artifact %q alias %q points at missing version %d", name, alias, vn)
}

// SetAlias points alias at an existing version of name.
func (s *Store) SetAlias(name, alias string, version int) error {
	a, err := s.loadArtifact(name)
	if err != nil {
		return err
	}
	if version < 1 || version > len(a.Versions) {
		return fmt.Errorf("artifact %q has no version %d", name, version)
	}
	a.Aliases[alias] = version
	return s.saveArtifact(a)
}

// Artifacts lists all artifacts in the store, sorted by name.
func (s *Store) Artifacts() ([]*Artifact, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "artifacts"))
	if err != nil {
		return nil, fmt.Errorf("read artifacts dir: %w", err)
	}
	var out []*Artifact
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		a, err := s.loadArtifact(e.Name())
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func splitRef(ref string) (name, alias string) {
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, AliasLatest
}
