// Package check validates a cleaned dataset before it feeds downstream
// steps: schema, value domains, geo boundaries, price bounds, and drift of
// the neighbourhood distribution against a reference artifact.
package check

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/clean"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
)

// ExpectedColumns is the exact column order of the listings CSV.
var ExpectedColumns = []string{
	"id",
	"name",
	"host_id",
	"host_name",
	"neighbourhood_group",
	"neighbourhood",
	"latitude",
	"longitude",
	"room_type",
	"price",
	"minimum_nights",
	"number_of_reviews",
	"last_review",
	"reviews_per_month",
	"calculated_host_listings_count",
	"availability_365",
}

// KnownNeighbourhoodGroups are the five NYC boroughs.
var KnownNeighbourhoodGroups = []string{
	"Bronx", "Brooklyn", "Manhattan", "Queens", "Staten Island",
}

// Options holds the thresholds for one validation pass.
type Options struct {
	MinPrice    float64
	MaxPrice    float64
	KLThreshold float64
	MinRows     int
	MaxRows     int
}

// DefaultOptions sizes the row-count window for the full dataset.
func DefaultOptions() Options {
	return Options{MinPrice: 10, MaxPrice: 350, KLThreshold: 0.2, MinRows: 15000, MaxRows: 1000000}
}

// Failure is one failed check with a human-readable detail.
type Failure struct {
	Check  string
	Detail string
}

func (f Failure) String() string { return fmt.Sprintf("%s: %s", f.Check, f.Detail) }

// Run executes all checks on cur; ref may be nil to skip the distribution
// comparison. It returns the list of failures, empty when the data passes.
func Run(cur, ref *dataset.Table, opt Options) []Failure {
	var fails []Failure
	add := func(check, format string, args ...any) {
		fails = append(fails, Failure{Check: check, Detail: fmt.Sprintf(format, args...)})
	}

	if got := cur.Names(); !equalStrings(got, ExpectedColumns) {
		add("column_names", "columns %v do not match expected schema", got)
	}

	if unknown := unknownGroups(cur); len(unknown) > 0 {
		add("neighbourhood_groups", "unknown neighbourhood groups: %s", strings.Join(unknown, ", "))
	}

	if out := cur.Nrow() - cur.GeoWithin(clean.MinLongitude, clean.MaxLongitude, clean.MinLatitude, clean.MaxLatitude).Nrow(); out > 0 {
		add("boundaries", "%d rows outside the NYC bounding box", out)
	}

	if n := cur.Nrow(); opt.MaxRows > 0 && (n < opt.MinRows || n > opt.MaxRows) {
		add("row_count", "%d rows outside [%d, %d]", n, opt.MinRows, opt.MaxRows)
	}

	if out := cur.Nrow() - cur.PriceBetween(opt.MinPrice, opt.MaxPrice).Nrow(); out > 0 {
		add("price_range", "%d rows with price outside [%g, %g]", out, opt.MinPrice, opt.MaxPrice)
	}

	if ref != nil {
		kl := KLDivergence(groupCounts(cur), groupCounts(ref))
		if math.IsInf(kl, 1) || kl >= opt.KLThreshold {
			add("similar_neigh_distrib", "KL divergence %.4f >= threshold %.4f", kl, opt.KLThreshold)
		}
	}
	return fails
}

func unknownGroups(t *dataset.Table) []string {
	known := map[string]bool{}
	for _, g := range KnownNeighbourhoodGroups {
		known[g] = true
	}
	seen := map[string]bool{}
	var unknown []string
	for _, v := range t.Strings("neighbourhood_group") {
		v = strings.TrimSpace(v)
		if v == "" || known[v] || seen[v] {
			continue
		}
		seen[v] = true
		unknown = append(unknown, v)
	}
	sort.Strings(unknown)
	return unknown
}

func groupCounts(t *dataset.Table) map[string]int {
	counts := map[string]int{}
	for _, v := range t.Strings("neighbourhood_group") {
		counts[strings.TrimSpace(v)]++
	}
	return counts
}

// KLDivergence computes D(p || q) in bits over the union of keys after
// normalizing both count maps. It is 0 for identical distributions and +Inf
// when q lacks mass somewhere p has it.
func KLDivergence(p, q map[string]int) float64 {
	var pTotal, qTotal float64
	for _, c := range p {
		pTotal += float64(c)
	}
	for _, c := range q {
		qTotal += float64(c)
	}
	if pTotal == 0 || qTotal == 0 {
		return math.Inf(1)
	}
	var d float64
	for k, pc := range p {
		if pc == 0 {
			continue
		}
		pk := float64(pc) / pTotal
		qc := q[k]
		if qc == 0 {
			return math.Inf(1)
		}
		qk := float64(qc) / qTotal
		d += pk * math.Log2(pk/qk)
	}
	return d
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
