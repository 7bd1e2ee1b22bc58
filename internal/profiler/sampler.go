package profiler

import (
	"math/rand"
	"sort"
)

// RowPlan describes which physical data rows of a file to examine. When All
// is set the whole file is read and Indices is nil. Otherwise Indices holds
// 1-based data-row numbers (the header is row 0 and is always read), sorted
// ascending so the reader can walk the file in one pass.
type RowPlan struct {
	All     bool
	Indices []int
}

// Rows returns how many data rows the plan will examine out of total.
func (p RowPlan) Rows(total int) int {
	if p.All {
		return total
	}
	return len(p.Indices)
}

// PlanRows decides between a full read and a bounded subset. A negative
// rowBudget means no limit. With randomSample set, the subset is rowBudget
// distinct row numbers drawn uniformly without replacement from
// [1, totalDataRows]; otherwise it is simply the first rowBudget rows.
func PlanRows(totalDataRows, rowBudget int, randomSample bool, rng *rand.Rand) RowPlan {
	if rowBudget < 0 || totalDataRows <= rowBudget {
		return RowPlan{All: true}
	}
	indices := make([]int, rowBudget)
	if !randomSample {
		for i := range indices {
			indices[i] = i + 1
		}
		return RowPlan{Indices: indices}
	}
	// Partial Fisher-Yates over [1, totalDataRows]: only the first rowBudget
	// positions are materialized, so scratch stays O(totalDataRows) ints.
	pool := make([]int, totalDataRows)
	for i := range pool {
		pool[i] = i + 1
	}
	for i := 0; i < rowBudget; i++ {
		j := i + rng.Intn(totalDataRows-i)
		pool[i], pool[j] = pool[j], pool[i]
		indices[i] = pool[i]
	}
	sort.Ints(indices)
	return RowPlan{Indices: indices}
}

// sampleIndices draws up to limit elements from idx uniformly without
// replacement. When the population is no larger than the limit it is
// returned as-is.
func sampleIndices(idx []int, limit int, rng *rand.Rand) []int {
	if len(idx) <= limit {
		return idx
	}
	perm := rng.Perm(len(idx))
	out := make([]int, limit)
	for i := 0; i < limit; i++ {
		out[i] = idx[perm[i]]
	}
	return out
}
