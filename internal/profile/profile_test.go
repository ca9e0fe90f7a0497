package profile_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/profile"
)

// minimum_nights is price/5 throughout, so the pair correlates perfectly.
var fixtureRows = []string{
	"id,name,host_id,host_name,neighbourhood_group,neighbourhood," +
		"latitude,longitude,room_type,price,minimum_nights,number_of_reviews," +
		"last_review,reviews_per_month,calculated_host_listings_count,availability_365",
	"1,apt one,11,Ann,Brooklyn,Kensington,40.64,-73.97,Private room,5,1,9,2018-10-19,0.21,6,365",
	"2,apt two,12,Bea,Manhattan,Midtown,40.75,-73.98,Entire home/apt,50,10,45,2019-05-21,0.38,2,355",
	"3,apt three,13,Cal,Manhattan,Harlem,40.80,-73.94,Private room,100,20,12,2019-07-05,0.52,1,365",
	"4,apt four,14,Dee,Brooklyn,Clinton Hill,40.68,-73.95,Entire home/apt,400,80,0,,,1,194",
	"5,apt five,15,Eve,Manhattan,East Harlem,40.79,-73.94,Entire home/apt,200,40,0,,,1,0",
}

func loadFixture(t *testing.T) *dataset.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	if err := os.WriteFile(path, []byte(strings.Join(fixtureRows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	tb, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return tb
}

func colByName(t *testing.T, rep *profile.Report, name string) profile.ColumnSummary {
	t.Helper()
	for _, c := range rep.Cols {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not in report", name)
	return profile.ColumnSummary{}
}

func TestGenerate_KindsAndMissing(t *testing.T) {
	rep := profile.Generate(loadFixture(t), "raw_data.csv:latest", profile.DefaultOptions())
	if rep.Rows != 5 {
		t.Fatalf("expected 5 rows, got %d", rep.Rows)
	}

	price := colByName(t, rep, "price")
	if price.Kind != "numeric" {
		t.Errorf("price kind = %q, want numeric", price.Kind)
	}
	if price.Missing != 0 || price.NonNull != 5 {
		t.Errorf("price non-null/missing = %d/%d, want 5/0", price.NonNull, price.Missing)
	}

	rpm := colByName(t, rep, "reviews_per_month")
	if rpm.Missing != 2 || rpm.NonNull != 3 {
		t.Errorf("reviews_per_month non-null/missing = %d/%d, want 3/2", rpm.NonNull, rpm.Missing)
	}

	lr := colByName(t, rep, "last_review")
	if lr.Kind != "datetime" {
		t.Errorf("last_review kind = %q, want datetime", lr.Kind)
	}
	if got := lr.MinTime.Format("2006-01-02"); got != "2018-10-19" {
		t.Errorf("last_review min = %s, want 2018-10-19", got)
	}
	if got := lr.MaxTime.Format("2006-01-02"); got != "2019-07-05" {
		t.Errorf("last_review max = %s, want 2019-07-05", got)
	}

	ng := colByName(t, rep, "neighbourhood_group")
	if ng.Kind != "categorical" {
		t.Errorf("neighbourhood_group kind = %q, want categorical", ng.Kind)
	}
	if len(ng.TopValues) == 0 || ng.TopValues[0].Value != "Manhattan" || ng.TopValues[0].Count != 3 {
		t.Errorf("neighbourhood_group top values = %v, want Manhattan(3) first", ng.TopValues)
	}
}

func TestGenerate_NumericStats(t *testing.T) {
	rep := profile.Generate(loadFixture(t), "", profile.DefaultOptions())
	price := colByName(t, rep, "price")
	if price.Min != 5 || price.Max != 400 {
		t.Errorf("price min/max = %g/%g, want 5/400", price.Min, price.Max)
	}
	if math.Abs(price.Mean-151) > 1e-9 {
		t.Errorf("price mean = %g, want 151", price.Mean)
	}
	wantStd := math.Sqrt(98520.0 / 4.0)
	if math.Abs(price.Std-wantStd) > 1e-9 {
		t.Errorf("price std = %g, want %g", price.Std, wantStd)
	}
}

func TestGenerate_Correlations(t *testing.T) {
	rep := profile.Generate(loadFixture(t), "", profile.DefaultOptions())
	if rep.Corr == nil {
		t.Fatal("expected a correlation matrix")
	}
	idx := map[string]int{}
	for i, c := range rep.Corr.Columns {
		idx[c] = i
	}
	i, ok1 := idx["price"]
	j, ok2 := idx["minimum_nights"]
	if !ok1 || !ok2 {
		t.Fatalf("correlation columns missing price/minimum_nights: %v", rep.Corr.Columns)
	}
	if r := rep.Corr.Values[i][j]; math.Abs(r-1) > 1e-9 {
		t.Errorf("corr(price, minimum_nights) = %g, want 1", r)
	}
	if r := rep.Corr.Values[i][i]; r != 1 {
		t.Errorf("diagonal = %g, want 1", r)
	}
	if rep.Corr.Values[i][j] != rep.Corr.Values[j][i] {
		t.Error("correlation matrix is not symmetric")
	}
}

func TestQuartiles(t *testing.T) {
	q, ok := profile.Quartiles([]float64{5, 1, 3, 2, 4})
	if !ok {
		t.Fatal("expected quartiles")
	}
	want := [5]float64{1, 2, 3, 4, 5}
	if q != want {
		t.Errorf("quartiles = %v, want %v", q, want)
	}
	if _, ok := profile.Quartiles([]float64{math.NaN()}); ok {
		t.Error("expected no quartiles for all-NaN input")
	}
}

func TestMarkdown_MentionsSchemaAndCorrelations(t *testing.T) {
	rep := profile.Generate(loadFixture(t), "raw_data.csv:latest", profile.DefaultOptions())
	md := rep.Markdown()
	for _, want := range []string{"[DATASET PROFILE]", "[SCHEMA]", "[CORRELATIONS]", "price: numeric", "last_review: datetime"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	rep := profile.Generate(loadFixture(t), "", profile.DefaultOptions())
	path := filepath.Join(t.TempDir(), "profile.xlsx")
	if err := rep.WriteXLSX(path); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("xlsx file is empty")
	}
}
