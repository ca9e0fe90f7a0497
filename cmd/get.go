package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/tracking"
)

var getCmd = &cobra.Command{
	Use:   "get <csv>",
	Short: "Import a listings CSV as the raw_data.csv artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c, store, err := openStore()
		if err != nil {
			return err
		}
		return tracking.WithRun(store, c.Main.ProjectName, c.Main.ExperimentName, "data_get", func(run *tracking.Run) error {
			// Reject files that don't carry the expected schema before
			// they become a pinned version.
			if _, err := dataset.Load(path); err != nil {
				return err
			}
			v, err := run.LogArtifact("raw_data.csv", path, "raw_data", "Input raw dataset from csv file")
			if err != nil {
				return err
			}
			fmt.Printf("Logged raw_data.csv:v%d (latest) from %s\n", v.Version, path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
