// Package plots renders the EDA charts (box plots, scatter matrix, price
// truncation comparison) to a single standalone HTML page.
package plots

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/profile"
)

// maxScatterPoints caps the points per scatter panel so the page stays
// loadable for the full dataset.
const maxScatterPoints = 1000

// NumericBoxPlots builds one box plot per numeric column, each on its own
// chart so the differing scales stay readable.
func NumericBoxPlots(t *dataset.Table) []components.Charter {
	var out []components.Charter
	for _, col := range dataset.NumericColumns {
		q, ok := profile.Quartiles(t.Floats(col))
		if !ok {
			continue
		}
		box := charts.NewBoxPlot()
		box.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: col}))
		box.SetXAxis([]string{col})
		box.AddSeries(col, []opts.BoxPlotData{{Value: q[:]}})
		out = append(out, box)
	}
	return out
}

// ScatterMatrix builds the pairwise scatter panels over the numeric columns.
func ScatterMatrix(t *dataset.Table) []components.Charter {
	cols := dataset.NumericColumns
	var out []components.Charter
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			out = append(out, scatterPair(t, cols[i], cols[j]))
		}
	}
	return out
}

func scatterPair(t *dataset.Table, xcol, ycol string) *charts.Scatter {
	xs := t.Floats(xcol)
	ys := t.Floats(ycol)
	stride := 1
	if len(xs) > maxScatterPoints {
		stride = len(xs) / maxScatterPoints
	}
	var data []opts.ScatterData
	for i := 0; i < len(xs); i += stride {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		data = append(data, opts.ScatterData{Value: []interface{}{xs[i], ys[i]}, SymbolSize: 4})
	}
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s vs %s", ycol, xcol)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xcol, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: ycol, Type: "value"}),
	)
	sc.AddSeries(ycol, data)
	return sc
}

// PriceTruncation builds the before/after box plots justifying the price
// outlier bound: the full price distribution next to the one truncated to
// [min, max].
func PriceTruncation(t *dataset.Table, min, max float64) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
		Title:    "price outlier bound",
		Subtitle: fmt.Sprintf("all rows vs price in [%g, %g]", min, max),
	}))
	box.SetXAxis([]string{"price (all)", fmt.Sprintf("price [%g-%g]", min, max)})
	var data []opts.BoxPlotData
	if q, ok := profile.Quartiles(t.Floats("price")); ok {
		data = append(data, opts.BoxPlotData{Value: q[:]})
	}
	if q, ok := profile.Quartiles(t.PriceBetween(min, max).Floats("price")); ok {
		data = append(data, opts.BoxPlotData{Value: q[:]})
	}
	box.AddSeries("price", data)
	return box
}

// WritePage renders all charts into one HTML file at path.
func WritePage(path string, cs ...components.Charter) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(cs...)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create charts page: %w", err)
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render charts page: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close charts page: %w", err)
	}
	return nil
}
