package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/config"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/logging"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/tracking"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration, cached across one invocation
	cfg *cfgpkg.Pipeline
)

var rootCmd = &cobra.Command{
	Use:   "rentaldata",
	Short: "rentaldata: EDA and data preparation for NYC short-term rental prices",
	Long: `rentaldata profiles the NYC Airbnb listings dataset and runs the
data-preparation steps of the rental-price pipeline (import, clean, check,
split) over a local store of versioned artifacts and logged runs.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(func() { logging.Setup(debug) })
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

// pipelineConfig loads config.yaml once. A missing or malformed file is a
// hard error: every step needs the project identity and thresholds.
func pipelineConfig() (*cfgpkg.Pipeline, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// openStore loads config and opens the tracking store it points at.
func openStore() (*cfgpkg.Pipeline, *tracking.Store, error) {
	c, err := pipelineConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := tracking.NewStore(c.Tracking.Root)
	if err != nil {
		return nil, nil, err
	}
	return c, store, nil
}
