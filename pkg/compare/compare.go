// Package compare scores and relates pairs of transition tables.
//
// Two similarity measures are provided and are NOT interchangeable:
//
//   - Similarity is directional: the fraction of a's transitions that also
//     appear in b. Similarity(a, b) and Similarity(b, a) generally differ.
//   - Jaccard is symmetric: shared transitions over the union of both
//     transition sets.
//
// Both measures consider transition presence only; counts are ignored.
package compare

import (
	"sort"
	"strings"

	"github.com/charkov/charkov/pkg/model"
)

// DefaultWindow is the pattern length used by Compare.
const DefaultWindow = 3

// Report is the ephemeral result of comparing two tables.
type Report struct {
	FromID         string
	ToID           string
	Score          float64
	SharedPatterns []string
}

// Similarity returns |T(a) ∩ T(b)| / |T(a)|: the fraction of a's distinct
// transitions that are also present in b. Zero when a is empty. This measure
// is asymmetric by contract; use Jaccard for a symmetric score.
func Similarity(a, b *model.Table) float64 {
	total := 0
	common := 0
	a.Each(func(from, to model.Symbol, _ uint32) {
		total++
		if b.Has(from, to) {
			common++
		}
	})
	if total == 0 {
		return 0
	}
	return float64(common) / float64(total)
}

// Jaccard returns |T(a) ∩ T(b)| / |T(a) ∪ T(b)|, the symmetric counterpart
// of Similarity. Zero when both tables are empty.
func Jaccard(a, b *model.Table) float64 {
	common := 0
	a.Each(func(from, to model.Symbol, _ uint32) {
		if b.Has(from, to) {
			common++
		}
	})
	union := a.TransitionCount() + b.TransitionCount() - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// SharedPatterns returns every window-length symbol chain whose consecutive
// transitions are all present in both tables, deduplicated and sorted.
//
// The walk is iterative over a fixed window (no recursion): chains are
// extended one shared transition at a time, bounding the work by the size of
// a's alphabet times the square of its average out-degree for the default
// window of 3.
func SharedPatterns(a, b *model.Table, window int) []string {
	if window < 2 {
		return nil
	}

	// Seed with single-symbol chains from a's from-symbols.
	chains := make([][]model.Symbol, 0, len(a.FromSymbols()))
	for _, from := range a.FromSymbols() {
		chains = append(chains, []model.Symbol{from})
	}

	// Extend each chain by one shared transition per round until chains hold
	// window symbols.
	for length := 1; length < window; length++ {
		next := make([][]model.Symbol, 0, len(chains))
		for _, chain := range chains {
			last := chain[len(chain)-1]
			for _, to := range a.Successors(last) {
				if !b.Has(last, to) {
					continue
				}
				extended := make([]model.Symbol, len(chain), len(chain)+1)
				copy(extended, chain)
				next = append(next, append(extended, to))
			}
		}
		chains = next
	}

	seen := make(map[string]struct{}, len(chains))
	patterns := make([]string, 0, len(chains))
	for _, chain := range chains {
		var sb strings.Builder
		for _, s := range chain {
			sb.WriteRune(rune(s))
		}
		p := sb.String()
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	return patterns
}

// Compare produces a full report for a pair of tables: the directional
// similarity score of a against b plus their shared default-window patterns.
func Compare(fromID, toID string, a, b *model.Table) *Report {
	return &Report{
		FromID:         fromID,
		ToID:           toID,
		Score:          Similarity(a, b),
		SharedPatterns: SharedPatterns(a, b, DefaultWindow),
	}
}

// FixedPoint is a transition whose normalized frequency is stable across two
// independently built tables.
type FixedPoint struct {
	From model.Symbol
	To   model.Symbol
	// FreqA and FreqB are the transition's count divided by the total
	// observations of the respective table.
	FreqA float64
	FreqB float64
}

// CrossModelFixedPoints returns the transitions present in both tables whose
// normalized frequencies differ by less than epsilon, ordered by (from, to).
func CrossModelFixedPoints(a, b *model.Table, epsilon float64) []FixedPoint {
	totalA := a.Observations()
	totalB := b.Observations()
	if totalA == 0 || totalB == 0 {
		return nil
	}

	var points []FixedPoint
	a.Each(func(from, to model.Symbol, count uint32) {
		if !b.Has(from, to) {
			return
		}
		freqA := float64(count) / float64(totalA)
		freqB := float64(b.Count(from, to)) / float64(totalB)
		diff := freqA - freqB
		if diff < 0 {
			diff = -diff
		}
		if diff < epsilon {
			points = append(points, FixedPoint{From: from, To: to, FreqA: freqA, FreqB: freqB})
		}
	})

	sort.Slice(points, func(i, j int) bool {
		if points[i].From != points[j].From {
			return points[i].From < points[j].From
		}
		return points[i].To < points[j].To
	})
	return points
}
