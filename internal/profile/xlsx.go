package profile

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Profile"

// WriteXLSX exports the per-column summary as a spreadsheet, one row per
// column of the dataset.
func (r *Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []any{"column", "kind", "non_null", "missing", "unique", "min", "max", "mean", "std", "outliers"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, c := range r.Cols {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := []any{c.Name, c.Kind, c.NonNull, c.Missing, c.Unique}
		if c.Kind == "numeric" {
			row = append(row, c.Min, c.Max, c.Mean, c.Std, c.OutliersCount)
		} else if c.Kind == "datetime" && !c.MinTime.IsZero() {
			row = append(row, c.MinTime.Format("2006-01-02"), c.MaxTime.Format("2006-01-02"))
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
