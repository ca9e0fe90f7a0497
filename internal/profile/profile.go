// Package profile generates an automated summary report over a listings
// table: per-column types and statistics, missing-value counts, outlier
// counts and a Pearson correlation matrix across the numeric columns.
package profile

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
)

// Options controls profiling behavior.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// OutlierThreshold is the robust |z| cutoff (MAD-based). <=0 uses 3.5.
	OutlierThreshold float64
	// TopValues limits the per-column categorical frequency list.
	TopValues int
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{SampleRows: 5, OutlierThreshold: 3.5, TopValues: 8}
}

// Report is the profiling result for one table.
type Report struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Corr    *CorrMatrix
	Samples [][]string
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutlierThreshold float64
	// Datetime range
	MinTime time.Time
	MaxTime time.Time
	// Categorical top values
	TopValues []CategoryCount
}

// CategoryCount is one value of a categorical column with its frequency.
type CategoryCount struct {
	Value string
	Count int
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric
// columns, computed over pairwise complete rows.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Generate profiles the full table.
func Generate(t *dataset.Table, name string, opt Options) *Report {
	rep := &Report{Name: name, Rows: t.Nrow()}
	thr := opt.OutlierThreshold
	if thr <= 0 {
		thr = 3.5
	}
	topN := opt.TopValues
	if topN <= 0 {
		topN = 8
	}

	numeric := map[string]bool{}
	for _, c := range dataset.NumericColumns {
		numeric[c] = true
	}

	names := t.Names()
	numVals := map[string][]float64{} // per numeric column, NaN kept for row alignment
	for _, n := range names {
		switch {
		case numeric[n]:
			vals := t.Floats(n)
			numVals[n] = vals
			rep.Cols = append(rep.Cols, summarizeNumeric(n, vals, thr))
		case n == dataset.DateColumn:
			rep.Cols = append(rep.Cols, summarizeDatetime(n, t.LastReview()))
		default:
			rep.Cols = append(rep.Cols, summarizeCategorical(n, t.Strings(n), topN))
		}
	}

	rep.Corr = correlations(dataset.NumericColumns, numVals)

	if opt.SampleRows > 0 {
		head := t.Head(opt.SampleRows)
		if len(head) > 1 {
			rep.Samples = head[1:]
		}
	}
	return rep
}

func summarizeNumeric(name string, vals []float64, thr float64) ColumnSummary {
	s := ColumnSummary{Name: name, Kind: "numeric", OutlierThreshold: thr}
	s.Min = math.Inf(1)
	s.Max = math.Inf(-1)
	var clean []float64
	// Welford running mean/variance over non-missing values.
	var n int
	var mean, m2 float64
	uniq := map[float64]struct{}{}
	for _, v := range vals {
		if math.IsNaN(v) {
			s.Missing++
			continue
		}
		s.NonNull++
		clean = append(clean, v)
		uniq[v] = struct{}{}
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		n++
		delta := v - mean
		mean += delta / float64(n)
		m2 += delta * (v - mean)
	}
	s.Unique = len(uniq)
	if n == 0 {
		s.Min, s.Max = 0, 0
		return s
	}
	s.Mean = mean
	if n > 1 {
		s.Std = math.Sqrt(m2 / float64(n-1))
	}
	if len(clean) >= 8 {
		median, mad := medianMAD(clean)
		if mad > 0 {
			for _, v := range clean {
				if math.Abs(0.6745*(v-median)/mad) > thr {
					s.OutliersCount++
				}
			}
		}
	}
	return s
}

func summarizeDatetime(name string, vals []time.Time) ColumnSummary {
	s := ColumnSummary{Name: name, Kind: "datetime"}
	for _, v := range vals {
		if v.IsZero() {
			s.Missing++
			continue
		}
		s.NonNull++
		if s.MinTime.IsZero() || v.Before(s.MinTime) {
			s.MinTime = v
		}
		if s.MaxTime.IsZero() || v.After(s.MaxTime) {
			s.MaxTime = v
		}
	}
	return s
}

func summarizeCategorical(name string, vals []string, topN int) ColumnSummary {
	s := ColumnSummary{Name: name}
	counts := map[string]int{}
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || v == "NaN" || v == "NA" {
			s.Missing++
			continue
		}
		s.NonNull++
		counts[v]++
	}
	s.Unique = len(counts)
	// High-cardinality string columns (names, hosts) are text, not categories.
	if s.NonNull > 0 && (s.Unique <= 30 || float64(s.Unique) < 0.5*float64(s.NonNull)) {
		s.Kind = "categorical"
		tops := make([]CategoryCount, 0, len(counts))
		for k, v := range counts {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > topN {
			tops = tops[:topN]
		}
		s.TopValues = tops
	} else {
		s.Kind = "text"
	}
	return s
}

// correlations computes the Pearson matrix over pairwise complete rows.
func correlations(cols []string, vals map[string][]float64) *CorrMatrix {
	var present []string
	for _, c := range cols {
		if len(vals[c]) > 0 {
			present = append(present, c)
		}
	}
	if len(present) < 2 {
		return nil
	}
	n := len(present)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			r := pearson(vals[present[i]], vals[present[j]])
			mat[i][j] = r
			mat[j][i] = r
		}
	}
	return &CorrMatrix{Columns: present, Values: mat}
}

func pearson(xs, ys []float64) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		n++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}
	if n < 2 {
		return 0
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func medianMAD(vals []float64) (median, mad float64) {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	median = quantileSorted(sorted, 0.5)
	devs := make([]float64, len(sorted))
	for i, v := range sorted {
		devs[i] = math.Abs(v - median)
	}
	sort.Float64s(devs)
	mad = quantileSorted(devs, 0.5)
	return median, mad
}

// Quartiles returns min, q1, median, q3, max over the non-NaN values,
// in the shape box plots consume.
func Quartiles(vals []float64) ([5]float64, bool) {
	var clean []float64
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return [5]float64{}, false
	}
	sort.Float64s(clean)
	return [5]float64{
		clean[0],
		quantileSorted(clean, 0.25),
		quantileSorted(clean, 0.5),
		quantileSorted(clean, 0.75),
		clean[len(clean)-1],
	}, true
}

// quantileSorted interpolates the q-quantile of an ascending slice.
func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
