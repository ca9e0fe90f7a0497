package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/plots"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/profile"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/tracking"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/utils"
)

var (
	edaArtifact   string
	edaOutDir     string
	edaSampleRows int
)

var edaCmd = &cobra.Command{
	Use:   "eda",
	Short: "Profile the raw dataset and render the exploratory report",
	Long: `Runs the exploratory analysis over the raw dataset artifact: automated
profiling report, box plots for the numeric columns, pairwise scatter
matrix, missing-value inspection, and the before/after price box plots for
the configured outlier bound. The bound is visualized only; applying it is
the clean step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openStore()
		if err != nil {
			return err
		}
		return tracking.WithRun(store, c.Main.ProjectName, c.Main.ExperimentName, "eda", func(run *tracking.Run) error {
			if err := run.LogParams(map[string]any{
				"artifact":  edaArtifact,
				"min_price": c.ETL.MinPrice,
				"max_price": c.ETL.MaxPrice,
			}); err != nil {
				return err
			}

			path, err := run.UseArtifact(edaArtifact)
			if err != nil {
				return err
			}
			t, err := dataset.Load(path)
			if err != nil {
				return err
			}
			slog.Info("dataset loaded", "artifact", edaArtifact, "rows", t.Nrow(), "columns", t.Ncol())

			outDir := edaOutDir
			if outDir == "" {
				outDir = run.Dir()
			}
			if err := utils.EnsureDir(outDir); err != nil {
				return fmt.Errorf("ensure output dir: %w", err)
			}

			opt := profile.DefaultOptions()
			if edaSampleRows > 0 {
				opt.SampleRows = edaSampleRows
			}
			rep := profile.Generate(t, edaArtifact, opt)
			md := rep.Markdown()
			fmt.Println(md)
			if err := utils.SafeWriteFile(filepath.Join(outDir, "profile.md"), []byte(md)); err != nil {
				return err
			}
			if err := rep.WriteXLSX(filepath.Join(outDir, "profile.xlsx")); err != nil {
				return err
			}

			cs := plots.NumericBoxPlots(t)
			cs = append(cs, plots.ScatterMatrix(t)...)
			cs = append(cs, plots.PriceTruncation(t, c.ETL.MinPrice, c.ETL.MaxPrice))
			chartsPath := filepath.Join(outDir, "charts.html")
			if err := plots.WritePage(chartsPath, cs...); err != nil {
				return err
			}
			slog.Info("reports written", "dir", outDir)

			// Rows with missing values, narrowed to the suspicious ones that
			// still have reviews on record.
			missing := t.MissingRows()
			reviewed := missing.NonZeroReviews()
			fmt.Printf("Rows with missing values: %d (of %d)\n", missing.Nrow(), t.Nrow())
			fmt.Printf("  ... with number_of_reviews > 0: %d\n", reviewed.Nrow())
			for _, row := range reviewed.Head(5)[1:] {
				fmt.Printf("  %v\n", row)
			}

			// Candidate price outlier bound, visualized only.
			trunc := t.PriceBetween(c.ETL.MinPrice, c.ETL.MaxPrice)
			fmt.Printf("\nPrice in [%g, %g]: %d of %d rows retained (see %s)\n\n",
				c.ETL.MinPrice, c.ETL.MaxPrice, trunc.Nrow(), t.Nrow(), chartsPath)

			fmt.Println(t.Info())
			fmt.Println(t.Describe())
			return nil
		})
	},
}

func init() {
	edaCmd.Flags().StringVar(&edaArtifact, "artifact", "raw_data.csv:latest", "dataset artifact reference")
	edaCmd.Flags().StringVar(&edaOutDir, "out", "", "report output directory (default: the run directory)")
	edaCmd.Flags().IntVar(&edaSampleRows, "sample-rows", 0, "sample rows to include in the profile")
	rootCmd.AddCommand(edaCmd)
}
