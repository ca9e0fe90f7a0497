// Package split produces the seeded train/validation vs test partition of
// the cleaned dataset, stratified on a categorical column.
package split

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/internal/dataset"
)

// Stratified splits t into (rest, test) where test holds testSize of the
// rows. Rows are grouped by the stratify column so each group contributes
// proportionally; pass an empty stratify name for a plain random split.
// The same seed always yields the same partition.
func Stratified(t *dataset.Table, testSize float64, seed int64, stratify string) (*dataset.Table, *dataset.Table, error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test_size %g outside (0, 1)", testSize)
	}

	groups := map[string][]int{}
	if stratify == "" || stratify == "none" {
		idx := make([]int, t.Nrow())
		for i := range idx {
			idx[i] = i
		}
		groups[""] = idx
	} else {
		col := t.Column(stratify)
		if col.Err != nil {
			return nil, nil, fmt.Errorf("stratify column %q: %w", stratify, col.Err)
		}
		for i, v := range col.Records() {
			groups[v] = append(groups[v], i)
		}
	}

	// Deterministic group order so the shared rng stream is stable.
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rng := rand.New(rand.NewSource(seed))
	var testIdx, restIdx []int
	for _, k := range keys {
		idx := groups[k]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		n := int(math.Round(testSize * float64(len(idx))))
		testIdx = append(testIdx, idx[:n]...)
		restIdx = append(restIdx, idx[n:]...)
	}
	sort.Ints(testIdx)
	sort.Ints(restIdx)

	slog.Info("split dataset",
		"rows", t.Nrow(), "trainval", len(restIdx), "test", len(testIdx),
		"test_size", testSize, "stratify", stratify, "seed", seed,
	)
	return t.Subset(restIdx), t.Subset(testIdx), nil
}
