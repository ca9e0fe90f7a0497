package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/config"
)

const sample = `main:
  project_name: nyc_airbnb
  experiment_name: dev
  random_state: 42
data:
  test_size: 0.2
  stratify: neighbourhood_group
etl:
  min_price: 10
  max_price: 350
data_check:
  kl_threshold: 0.2
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Main.ProjectName != "nyc_airbnb" || c.Main.ExperimentName != "dev" {
		t.Errorf("main = %+v", c.Main)
	}
	if c.ETL.MinPrice != 10 || c.ETL.MaxPrice != 350 {
		t.Errorf("etl = %+v", c.ETL)
	}
	if c.Data.TestSize != 0.2 || c.Data.Stratify != "neighbourhood_group" {
		t.Errorf("data = %+v", c.Data)
	}
	if c.DataCheck.KLThreshold != 0.2 {
		t.Errorf("data_check = %+v", c.DataCheck)
	}
	if c.Tracking.Root == "" {
		t.Error("tracking root default not resolved")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("main: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := &config.Pipeline{}
	c.Main.ProjectName = "nyc_airbnb"
	c.ETL.MinPrice = 10
	c.ETL.MaxPrice = 350
	if err := config.Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Main.ProjectName != "nyc_airbnb" || back.ETL.MaxPrice != 350 {
		t.Errorf("round trip lost fields: %+v", back)
	}
}
