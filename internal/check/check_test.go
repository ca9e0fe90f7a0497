package check_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/check"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
)

// A clean fixture: prices within [10, 350], coordinates inside NYC, known
// boroughs only.
var cleanRows = []string{
	"id,name,host_id,host_name,neighbourhood_group,neighbourhood," +
		"latitude,longitude,room_type,price,minimum_nights,number_of_reviews," +
		"last_review,reviews_per_month,calculated_host_listings_count,availability_365",
	"1,a,11,Ann,Brooklyn,Kensington,40.64,-73.97,Private room,50,1,9,2018-10-19,0.21,6,365",
	"2,b,12,Bea,Manhattan,Midtown,40.75,-73.98,Entire home/apt,80,2,45,2019-05-21,0.38,2,355",
	"3,c,13,Cal,Manhattan,Harlem,40.80,-73.94,Private room,100,3,12,2019-07-05,0.52,1,365",
	"4,d,14,Dee,Queens,Astoria,40.76,-73.92,Private room,60,1,3,2019-06-01,0.10,1,120",
}

func loadRows(t *testing.T, rows []string) *dataset.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clean.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	tb, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return tb
}

func fixtureOptions() check.Options {
	opt := check.DefaultOptions()
	opt.MinRows = 1
	opt.MaxRows = 1000
	return opt
}

func TestRun_PassesAgainstItself(t *testing.T) {
	tb := loadRows(t, cleanRows)
	if fails := check.Run(tb, tb, fixtureOptions()); len(fails) != 0 {
		t.Fatalf("expected no failures, got %v", fails)
	}
}

func TestRun_FlagsPriceOutliers(t *testing.T) {
	rows := append(append([]string{}, cleanRows...),
		"5,e,15,Eve,Bronx,Fordham,40.86,-73.89,Private room,900,1,2,2019-01-01,0.05,1,30")
	tb := loadRows(t, rows)
	fails := check.Run(tb, nil, fixtureOptions())
	if !hasCheck(fails, "price_range") {
		t.Errorf("expected price_range failure, got %v", fails)
	}
}

func TestRun_FlagsUnknownBorough(t *testing.T) {
	rows := append(append([]string{}, cleanRows...),
		"5,e,15,Eve,Jersey City,Downtown,40.72,-74.04,Private room,90,1,2,2019-01-01,0.05,1,30")
	tb := loadRows(t, rows)
	fails := check.Run(tb, nil, fixtureOptions())
	if !hasCheck(fails, "neighbourhood_groups") {
		t.Errorf("expected neighbourhood_groups failure, got %v", fails)
	}
}

func TestRun_FlagsRowCount(t *testing.T) {
	tb := loadRows(t, cleanRows)
	opt := fixtureOptions()
	opt.MinRows = 100
	fails := check.Run(tb, nil, opt)
	if !hasCheck(fails, "row_count") {
		t.Errorf("expected row_count failure, got %v", fails)
	}
}

func TestRun_FlagsDistributionDrift(t *testing.T) {
	cur := loadRows(t, cleanRows)
	// Reference heavily skewed to the Bronx.
	refRows := []string{cleanRows[0]}
	for i := 0; i < 4; i++ {
		refRows = append(refRows,
			"9,z,19,Zed,Bronx,Fordham,40.86,-73.89,Private room,90,1,2,2019-01-01,0.05,1,30")
	}
	ref := loadRows(t, refRows)
	fails := check.Run(cur, ref, fixtureOptions())
	if !hasCheck(fails, "similar_neigh_distrib") {
		t.Errorf("expected distribution failure, got %v", fails)
	}
}

func TestKLDivergence(t *testing.T) {
	p := map[string]int{"Brooklyn": 10, "Manhattan": 20}
	if d := check.KLDivergence(p, p); d != 0 {
		t.Errorf("KL(p||p) = %g, want 0", d)
	}
	q := map[string]int{"Brooklyn": 30}
	if d := check.KLDivergence(p, q); !math.IsInf(d, 1) {
		t.Errorf("expected +Inf when q lacks mass, got %g", d)
	}
	r := map[string]int{"Brooklyn": 20, "Manhattan": 10}
	if d := check.KLDivergence(p, r); d <= 0 {
		t.Errorf("expected positive divergence, got %g", d)
	}
}

func hasCheck(fails []check.Failure, name string) bool {
	for _, f := range fails {
		if f.Check == name {
			return true
		}
	}
	return false
}
