// Package dataset wraps the NYC short-term rental listings CSV in a typed
// in-memory table with the row filters the analysis steps need.
package dataset

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NumericColumns are the eight numeric columns profiled and plotted.
var NumericColumns = []string{
	"latitude",
	"longitude",
	"price",
	"minimum_nights",
	"number_of_reviews",
	"reviews_per_month",
	"calculated_host_listings_count",
	"availability_365",
}

// DateColumn is parsed into time.Time values at load.
const DateColumn = "last_review"

// dateLayouts accepted for last_review values.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006/01/02"}

// Table is the process-local view of the listings dataset: a gota dataframe
// plus the last_review column coerced to timestamps (zero time = missing).
// Tables are never mutated; every filter returns a new Table.
type Table struct {
	df         dataframe.DataFrame
	lastReview []time.Time
}

// Load reads a listings CSV from path. The nine required columns must be
// present; numeric columns are coerced to floats with empty cells as NaN.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	types := map[string]series.Type{DateColumn: series.String}
	for _, c := range NumericColumns {
		types[c] = series.Float
	}
	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, df.Err)
	}
	return New(df)
}

// New validates the required columns and parses the date column.
func New(df dataframe.DataFrame) (*Table, error) {
	have := map[string]bool{}
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, c := range append([]string{DateColumn}, NumericColumns...) {
		if !have[c] {
			return nil, fmt.Errorf("dataset is missing required column %q", c)
		}
	}

	raw := df.Col(DateColumn).Records()
	parsed := make([]time.Time, len(raw))
	for i, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" || v == "NaN" || v == "NA" {
			continue // zero time marks a missing review date
		}
		t, err := parseDate(v)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s %q: %w", i+1, DateColumn, v, err)
		}
		parsed[i] = t
	}
	return &Table{df: df, lastReview: parsed}, nil
}

func parseDate(v string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Nrow returns the number of data rows.
func (t *Table) Nrow() int { return t.df.Nrow() }

// Ncol returns the number of columns.
func (t *Table) Ncol() int { return t.df.Ncol() }

// Names returns the column names in file order.
func (t *Table) Names() []string { return t.df.Names() }

// DataFrame exposes the underlying gota dataframe for read-only use.
func (t *Table) DataFrame() dataframe.DataFrame { return t.df }

// LastReview returns the parsed review timestamps, one per row.
func (t *Table) LastReview() []time.Time { return t.lastReview }

// Column returns a column as a gota series.
func (t *Table) Column(name string) series.Series { return t.df.Col(name) }

// Floats returns a numeric column as float64s with NaN for missing cells.
func (t *Table) Floats(name string) []float64 { return t.df.Col(name).Float() }

// Strings returns a column's raw string records.
func (t *Table) Strings(name string) []string { return t.df.Col(name).Records() }

// Subset builds a new Table from the given row indices, keeping the parsed
// date column aligned.
func (t *Table) Subset(idx []int) *Table {
	lr := make([]time.Time, len(idx))
	for i, j := range idx {
		lr[i] = t.lastReview[j]
	}
	return &Table{df: t.df.Subset(idx), lastReview: lr}
}

// MissingRows returns the rows that have at least one missing value in any
// column. Applying it twice yields the same rows.
func (t *Table) MissingRows() *Table {
	recs := t.df.Records()
	var idx []int
	for i, row := range recs[1:] {
		for _, cell := range row {
			if isMissing(cell) {
				idx = append(idx, i)
				break
			}
		}
	}
	return t.Subset(idx)
}

// NonZeroReviews returns the rows with number_of_reviews > 0.
func (t *Table) NonZeroReviews() *Table {
	vals := t.Floats("number_of_reviews")
	var idx []int
	for i, v := range vals {
		if v > 0 {
			idx = append(idx, i)
		}
	}
	return t.Subset(idx)
}

// PriceBetween returns the rows with min <= price <= max. Rows with a
// missing price are dropped.
func (t *Table) PriceBetween(min, max float64) *Table {
	vals := t.Floats("price")
	var idx []int
	for i, v := range vals {
		if v >= min && v <= max {
			idx = append(idx, i)
		}
	}
	return t.Subset(idx)
}

// GeoWithin returns the rows inside the given longitude/latitude box.
func (t *Table) GeoWithin(minLon, maxLon, minLat, maxLat float64) *Table {
	lons := t.Floats("longitude")
	lats := t.Floats("latitude")
	var idx []int
	for i := range lons {
		if lons[i] >= minLon && lons[i] <= maxLon && lats[i] >= minLat && lats[i] <= maxLat {
			idx = append(idx, i)
		}
	}
	return t.Subset(idx)
}

// Head returns up to n leading rows as string records, header included.
func (t *Table) Head(n int) [][]string {
	recs := t.df.Records()
	if len(recs) > n+1 {
		recs = recs[:n+1]
	}
	return recs
}

// Info renders a column/type/non-null summary of the table.
func (t *Table) Info() string {
	names := t.df.Names()
	types := t.df.Types()
	recs := t.df.Records()
	nonNull := make([]int, len(names))
	for _, row := range recs[1:] {
		for j, cell := range row {
			if !isMissing(cell) {
				nonNull[j]++
			}
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Table: %d rows x %d columns\n", t.Nrow(), t.Ncol())
	for j, n := range names {
		dtype := string(types[j])
		if n == DateColumn {
			dtype = "datetime"
		}
		fmt.Fprintf(&b, "  %-32s %8d non-null  %s\n", n, nonNull[j], dtype)
	}
	return b.String()
}

// Describe returns gota's summary statistics over all columns.
func (t *Table) Describe() dataframe.DataFrame { return t.df.Describe() }

// WriteCSV persists the table (header included) to path.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := t.df.WriteCSV(f, dataframe.WriteHeader(true)); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}

func isMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NaN", "NA", "<nil>":
		return true
	}
	return false
}
