// Package clean produces the cleaned dataset: price outliers outside the
// configured bounds and rows outside the NYC bounding box are dropped.
package clean

import (
	"log/slog"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
)

// NYC bounding box; listings geocoded outside it are bad records.
const (
	MinLongitude = -74.25
	MaxLongitude = -73.50
	MinLatitude  = 40.5
	MaxLatitude  = 41.2
)

// Result is the cleaned table plus the per-filter drop counts.
type Result struct {
	Table        *dataset.Table
	DroppedPrice int
	DroppedGeo   int
}

// Apply drops rows with price outside [minPrice, maxPrice] and rows outside
// the NYC bounding box. The input table is not modified.
func Apply(t *dataset.Table, minPrice, maxPrice float64) Result {
	inPrice := t.PriceBetween(minPrice, maxPrice)
	inGeo := inPrice.GeoWithin(MinLongitude, MaxLongitude, MinLatitude, MaxLatitude)
	res := Result{
		Table:        inGeo,
		DroppedPrice: t.Nrow() - inPrice.Nrow(),
		DroppedGeo:   inPrice.Nrow() - inGeo.Nrow(),
	}
	slog.Info("cleaned dataset",
		"rows_in", t.Nrow(),
		"rows_out", res.Table.Nrow(),
		"dropped_price", res.DroppedPrice,
		"dropped_geo", res.DroppedGeo,
	)
	return res
}
