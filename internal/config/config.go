package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Pipeline configuration structure. The section layout mirrors config.yaml:
// project identity under main, split parameters under data, price bounds
// under etl and the distribution-check threshold under data_check.
type Pipeline struct {
	Main      Main      `mapstructure:"main" yaml:"main"`
	Data      Data      `mapstructure:"data" yaml:"data"`
	ETL       ETL       `mapstructure:"etl" yaml:"etl"`
	DataCheck DataCheck `mapstructure:"data_check" yaml:"data_check"`
	Tracking  Tracking  `mapstructure:"tracking" yaml:"tracking"`
}

// Main identifies the tracking project and experiment group.
type Main struct {
	ProjectName    string `mapstructure:"project_name" yaml:"project_name"`
	ExperimentName string `mapstructure:"experiment_name" yaml:"experiment_name"`
	RandomState    int64  `mapstructure:"random_state" yaml:"random_state"`
}

// Data holds the train/test split parameters.
type Data struct {
	TestSize float64 `mapstructure:"test_size" yaml:"test_size"`
	Stratify string  `mapstructure:"stratify" yaml:"stratify"`
}

// ETL holds the price bounds used for outlier truncation.
type ETL struct {
	MinPrice float64 `mapstructure:"min_price" yaml:"min_price"`
	MaxPrice float64 `mapstructure:"max_price" yaml:"max_price"`
}

// DataCheck holds thresholds for the dataset validation step.
type DataCheck struct {
	KLThreshold float64 `mapstructure:"kl_threshold" yaml:"kl_threshold"`
}

// Tracking locates the local run/artifact store.
type Tracking struct {
	Root string `mapstructure:"root" yaml:"root"`
}

// Save writes the given configuration to path as YAML.
func Save(c *Pipeline, path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing or malformed config
// file is an error: every pipeline step needs the project identity.
func Load(cfgFile string) (*Pipeline, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTALDATA")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("main.project_name", "nyc_airbnb")
	v.SetDefault("main.experiment_name", "dev")
	v.SetDefault("main.random_state", 42)
	v.SetDefault("data.test_size", 0.2)
	v.SetDefault("data.stratify", "neighbourhood_group")
	v.SetDefault("etl.min_price", 10)
	v.SetDefault("etl.max_price", 350)
	v.SetDefault("data_check.kl_threshold", 0.2)
	v.SetDefault("tracking.root", "")

	if cfgFile == "" {
		cfgFile = "config.yaml"
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
	}

	var c Pipeline
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve tracking root default: .rentaldata next to the config file.
	if c.Tracking.Root == "" {
		c.Tracking.Root = filepath.Join(filepath.Dir(cfgFile), ".rentaldata")
	}
	return &c, nil
}
