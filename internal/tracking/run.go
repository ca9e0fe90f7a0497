package tracking

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/utils"
)

const runFileName = "run.yaml"

// Run statuses recorded in run.yaml.
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusFailed   = "failed"
)

// Run is a logged, time-bounded unit of work. It records parameters, the
// artifacts it consumed and produced, and its completion status.
type Run struct {
	ID         string         `yaml:"id"`
	Project    string         `yaml:"project"`
	Group      string         `yaml:"group"`
	JobType    string         `yaml:"job_type"`
	Status     string         `yaml:"status"`
	StartedAt  time.Time      `yaml:"started_at"`
	FinishedAt time.Time      `yaml:"finished_at,omitempty"`
	Params     map[string]any `yaml:"params,omitempty"`
	Inputs     []string       `yaml:"inputs,omitempty"`
	Outputs    []string       `yaml:"outputs,omitempty"`
	Error      string         `yaml:"error,omitempty"`

	// Not serialized: owning store and on-disk location.
	store *Store
	dir   string
}

// OpenRun starts a new run scoped to (project, group, jobType) and persists
// it immediately with status running.
func (s *Store) OpenRun(project, group, jobType string) (*Run, error) {
	r := &Run{
		ID:        uuid.NewString(),
		Project:   project,
		Group:     group,
		JobType:   jobType,
		Status:    StatusRunning,
		StartedAt: time.Now(),
		Params:    map[string]any{},
		store:     s,
	}
	r.dir = filepath.Join(s.root, "runs", r.ID)
	if err := utils.EnsureDir(r.dir); err != nil {
		return nil, fmt.Errorf("ensure run dir: %w", err)
	}
	if err := r.save(); err != nil {
		return nil, err
	}
	slog.Debug("run opened", "id", r.ID, "project", project, "group", group, "job_type", jobType)
	return r, nil
}

// Dir returns the run's on-disk directory, usable as scratch space for
// report files belonging to this run.
func (r *Run) Dir() string { return r.dir }

// LogParams merges p into the run's recorded parameters.
func (r *Run) LogParams(p map[string]any) error {
	for k, v := range p {
		r.Params[k] = v
	}
	return r.save()
}

// UseArtifact resolves a "name:alias" reference through the store and
// records it as a run input.
func (r *Run) UseArtifact(ref string) (string, error) {
	path, err := r.store.ResolveArtifact(ref)
	if err != nil {
		return "", err
	}
	r.Inputs = append(r.Inputs, ref)
	if err := r.save(); err != nil {
		return "", err
	}
	return path, nil
}

// LogArtifact stores srcPath as a new version of name and records it as a
// run output.
func (r *Run) LogArtifact(name, srcPath, atype, description string) (Version, error) {
	v, err := r.store.LogArtifact(name, srcPath, atype, description, r.ID)
	if err != nil {
		return Version{}, err
	}
	r.Outputs = append(r.Outputs, fmt.Sprintf("%s:v%d", name, v.Version))
	if err := r.save(); err != nil {
		return Version{}, err
	}
	return v, nil
}

// Finish closes the run, recording failed status when runErr is non-nil.
// Finishing an already finished run is a no-op.
func (r *Run) Finish(runErr error) error {
	if r.Status != StatusRunning {
		return nil
	}
	r.FinishedAt = time.Now()
	if runErr != nil {
		r.Status = StatusFailed
		r.Error = runErr.Error()
	} else {
		r.Status = StatusFinished
	}
	slog.Debug("run finished", "id", r.ID, "status", r.Status)
	return r.save()
}

func (r *Run) save() error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	return utils.SafeWriteFile(filepath.Join(r.dir, runFileName), b)
}

// LoadRun reads a persisted run.yaml from dir.
func LoadRun(dir string) (*Run, error) {
	b, err := os.ReadFile(filepath.Join(dir, runFileName))
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	var r Run
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse run: %w", err)
	}
	r.dir = dir
	return &r, nil
}

// WithRun opens a run and guarantees it is finished on every exit path,
// including error returns and panics. The run's final status reflects the
// error returned by fn.
func WithRun(s *Store, project, group, jobType string, fn func(*Run) error) (err error) {
	run, err := s.OpenRun(project, group, jobType)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = run.Finish(fmt.Errorf("panic: %v", p))
			panic(p)
		}
		if ferr := run.Finish(err); ferr != nil && err == nil {
			err = ferr
		}
	}()
	err = fn(run)
	return err
}
