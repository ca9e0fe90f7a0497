package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/clean"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/tracking"
)

var cleanInput string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop price outliers and bad geocodes, producing clean_data.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openStore()
		if err != nil {
			return err
		}
		return tracking.WithRun(store, c.Main.ProjectName, c.Main.ExperimentName, "data_clean", func(run *tracking.Run) error {
			if err := run.LogParams(map[string]any{
				"input":     cleanInput,
				"min_price": c.ETL.MinPrice,
				"max_price": c.ETL.MaxPrice,
			}); err != nil {
				return err
			}
			path, err := run.UseArtifact(cleanInput)
			if err != nil {
				return err
			}
			t, err := dataset.Load(path)
			if err != nil {
				return err
			}
			res := clean.Apply(t, c.ETL.MinPrice, c.ETL.MaxPrice)
			if res.Table.Nrow() == 0 {
				return fmt.Errorf("cleaning dropped every row; check etl.min_price/etl.max_price")
			}
			out := filepath.Join(run.Dir(), "clean_data.csv")
			if err := res.Table.WriteCSV(out); err != nil {
				return err
			}
			v, err := run.LogArtifact("clean_data.csv", out, "clean_data", "Clean dataset with outliers removed")
			if err != nil {
				return err
			}
			fmt.Printf("Logged clean_data.csv:v%d (latest): %d rows (dropped %d price, %d geo)\n",
				v.Version, res.Table.Nrow(), res.DroppedPrice, res.DroppedGeo)
			return nil
		})
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanInput, "input", "raw_data.csv:latest", "input artifact reference")
	rootCmd.AddCommand(cleanCmd)
}
