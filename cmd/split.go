package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/split"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/tracking"
)

var splitInput string

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split the clean dataset into trainval and test artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openStore()
		if err != nil {
			return err
		}
		return tracking.WithRun(store, c.Main.ProjectName, c.Main.ExperimentName, "data_split", func(run *tracking.Run) error {
			if err := run.LogParams(map[string]any{
				"input":        splitInput,
				"test_size":    c.Data.TestSize,
				"random_state": c.Main.RandomState,
				"stratify":     c.Data.Stratify,
			}); err != nil {
				return err
			}
			path, err := run.UseArtifact(splitInput)
			if err != nil {
				return err
			}
			t, err := dataset.Load(path)
			if err != nil {
				return err
			}
			trainval, test, err := split.Stratified(t, c.Data.TestSize, c.Main.RandomState, c.Data.Stratify)
			if err != nil {
				return err
			}

			outputs := []struct {
				name  string
				table *dataset.Table
				desc  string
			}{
				{"trainval_data.csv", trainval, "Train and validation split of the clean dataset"},
				{"test_data.csv", test, "Held-out test split of the clean dataset"},
			}
			for _, o := range outputs {
				out := filepath.Join(run.Dir(), o.name)
				if err := o.table.WriteCSV(out); err != nil {
					return err
				}
				v, err := run.LogArtifact(o.name, out, "split_data", o.desc)
				if err != nil {
					return err
				}
				fmt.Printf("Logged %s:v%d (%d rows)\n", o.name, v.Version, o.table.Nrow())
			}
			return nil
		})
	},
}

func init() {
	splitCmd.Flags().StringVar(&splitInput, "input", "clean_data.csv:latest", "input artifact reference")
	rootCmd.AddCommand(splitCmd)
}
