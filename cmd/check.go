package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/check"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/tracking"
)

var (
	checkCSV     string
	checkRef     string
	checkMinRows int
	checkMaxRows int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the clean dataset against thresholds and a reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openStore()
		if err != nil {
			return err
		}
		return tracking.WithRun(store, c.Main.ProjectName, c.Main.ExperimentName, "data_check", func(run *tracking.Run) error {
			if err := run.LogParams(map[string]any{
				"csv":          checkCSV,
				"ref":          checkRef,
				"kl_threshold": c.DataCheck.KLThreshold,
			}); err != nil {
				return err
			}
			curPath, err := run.UseArtifact(checkCSV)
			if err != nil {
				return err
			}
			cur, err := dataset.Load(curPath)
			if err != nil {
				return err
			}
			var ref *dataset.Table
			if checkRef != "" {
				refPath, err := run.UseArtifact(checkRef)
				if err != nil {
					return err
				}
				if ref, err = dataset.Load(refPath); err != nil {
					return err
				}
			}

			opt := check.DefaultOptions()
			opt.MinPrice = c.ETL.MinPrice
			opt.MaxPrice = c.ETL.MaxPrice
			opt.KLThreshold = c.DataCheck.KLThreshold
			if checkMinRows >= 0 {
				opt.MinRows = checkMinRows
			}
			if checkMaxRows > 0 {
				opt.MaxRows = checkMaxRows
			}

			fails := check.Run(cur, ref, opt)
			for _, f := range fails {
				fmt.Printf("✗ %s\n", f)
			}
			if len(fails) > 0 {
				return fmt.Errorf("data checks failed: %d failing", len(fails))
			}
			fmt.Printf("All data checks passed (%d rows)\n", cur.Nrow())
			return nil
		})
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkCSV, "csv", "clean_data.csv:latest", "dataset artifact to validate")
	checkCmd.Flags().StringVar(&checkRef, "ref", "clean_data.csv:reference", "reference artifact for the distribution check (empty to skip)")
	checkCmd.Flags().IntVar(&checkMinRows, "min-rows", -1, "minimum accepted row count (overrides default)")
	checkCmd.Flags().IntVar(&checkMaxRows, "max-rows", 0, "maximum accepted row count (overrides default)")
	rootCmd.AddCommand(checkCmd)
}
