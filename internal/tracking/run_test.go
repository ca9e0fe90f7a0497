package tracking_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/tracking"
)

func TestWithRun_FinishesOnSuccess(t *testing.T) {
	s := newStore(t)
	var dir string
	err := tracking.WithRun(s, "nyc_airbnb", "dev", "eda", func(run *tracking.Run) error {
		dir = run.Dir()
		return run.LogParams(map[string]any{"min_price": 10})
	})
	if err != nil {
		t.Fatalf("with run: %v", err)
	}
	r, err := tracking.LoadRun(dir)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if r.Status != tracking.StatusFinished {
		t.Errorf("status = %q, want finished", r.Status)
	}
	if r.Project != "nyc_airbnb" || r.Group != "dev" || r.JobType != "eda" {
		t.Errorf("run identity = %s/%s/%s", r.Project, r.Group, r.JobType)
	}
	if r.FinishedAt.IsZero() {
		t.Error("finished run has zero FinishedAt")
	}
}

func TestWithRun_FinishesOnError(t *testing.T) {
	s := newStore(t)
	var dir string
	boom := errors.New("artifact is stale")
	err := tracking.WithRun(s, "nyc_airbnb", "dev", "data_clean", func(run *tracking.Run) error {
		dir = run.Dir()
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped run error, got %v", err)
	}
	r, err := tracking.LoadRun(dir)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if r.Status != tracking.StatusFailed {
		t.Errorf("status = %q, want failed", r.Status)
	}
	if r.Error == "" {
		t.Error("failed run should record the error message")
	}
}

func TestWithRun_FinishesOnPanic(t *testing.T) {
	s := newStore(t)
	var dir string
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the panic to propagate")
			}
		}()
		_ = tracking.WithRun(s, "nyc_airbnb", "dev", "eda", func(run *tracking.Run) error {
			dir = run.Dir()
			panic("nil dataframe")
		})
	}()
	r, err := tracking.LoadRun(dir)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if r.Status != tracking.StatusFailed {
		t.Errorf("status after panic = %q, want failed", r.Status)
	}
}

func TestRun_UseAndLogArtifact(t *testing.T) {
	s := newStore(t)
	src := filepath.Join(t.TempDir(), "raw.csv")
	if err := os.WriteFile(src, []byte("a\n1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var dir string
	err := tracking.WithRun(s, "p", "g", "data_get", func(run *tracking.Run) error {
		dir = run.Dir()
		if _, err := run.LogArtifact("raw_data.csv", src, "raw_data", "input"); err != nil {
			return err
		}
		if _, err := run.UseArtifact("raw_data.csv:latest"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with run: %v", err)
	}
	r, err := tracking.LoadRun(dir)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if len(r.Outputs) != 1 || r.Outputs[0] != "raw_data.csv:v1" {
		t.Errorf("outputs = %v", r.Outputs)
	}
	if len(r.Inputs) != 1 || r.Inputs[0] != "raw_data.csv:latest" {
		t.Errorf("inputs = %v", r.Inputs)
	}
}
