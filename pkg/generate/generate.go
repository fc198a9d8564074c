// Package generate derives sequences and self-referential structure from a
// single transition table.
package generate

import (
	"sort"
	"strings"

	"github.com/charkov/charkov/pkg/model"
)

// DefaultSelfLoopThreshold is the self-transition ratio above which a symbol
// counts as a fixed point.
const DefaultSelfLoopThreshold = 0.5

// DefaultDominanceThreshold is the conditional probability above which a
// transition counts as dominant for pattern extraction.
const DefaultDominanceThreshold = 0.8

// Sequence walks the table greedily from start, at each step taking the
// successor with the highest count. Ties break deterministically toward the
// lowest symbol code. The walk stops early when the current symbol has no
// outgoing transitions, otherwise at maxLen symbols including start.
//
// The result is a pure function of the table: no randomness is involved. A
// dominant self-transition or short cycle will loop until maxLen; that is
// accepted behavior.
func Sequence(t *model.Table, start model.Symbol, maxLen int) []model.Symbol {
	if maxLen <= 0 {
		return nil
	}

	seq := make([]model.Symbol, 0, maxLen)
	seq = append(seq, start)
	current := start

	for len(seq) < maxLen {
		next, ok := argmax(t, current)
		if !ok {
			break
		}
		seq = append(seq, next)
		current = next
	}
	return seq
}

// Text is Sequence rendered as a string of runes.
func Text(t *model.Table, start model.Symbol, maxLen int) string {
	var sb strings.Builder
	for _, s := range Sequence(t, start, maxLen) {
		sb.WriteRune(rune(s))
	}
	return sb.String()
}

// argmax returns the successor of current with the highest count, preferring
// the lowest symbol code on equal counts.
func argmax(t *model.Table, current model.Symbol) (model.Symbol, bool) {
	var best model.Symbol
	var bestCount uint32
	found := false
	// Successors is sorted ascending, so a strict > keeps the lowest code
	// among ties.
	for _, to := range t.Successors(current) {
		if c := t.Count(current, to); c > bestCount {
			best = to
			bestCount = c
			found = true
		}
	}
	return best, found
}

// FixedPoints returns every symbol whose self-transition count divided by its
// total outgoing count exceeds threshold, in ascending symbol order.
func FixedPoints(t *model.Table, threshold float64) []model.Symbol {
	var points []model.Symbol
	for _, from := range t.FromSymbols() {
		self := t.Count(from, from)
		if self == 0 {
			continue
		}
		total := t.OutTotal(from)
		if float64(self)/float64(total) > threshold {
			points = append(points, from)
		}
	}
	return points
}

// DominantPatterns returns every three-symbol chain whose two transitions
// each carry a conditional probability above minProb, deduplicated and
// sorted. High-probability chains approximate the near-deterministic
// substrings of the corpus.
func DominantPatterns(t *model.Table, minProb float64) []string {
	seen := make(map[string]struct{})
	var patterns []string

	for _, from := range t.FromSymbols() {
		for _, to := range t.Successors(from) {
			if t.Probability(from, to) <= minProb {
				continue
			}
			for _, next := range t.Successors(to) {
				if t.Probability(to, next) <= minProb {
					continue
				}
				p := string(rune(from)) + string(rune(to)) + string(rune(next))
				if _, dup := seen[p]; dup {
					continue
				}
				seen[p] = struct{}{}
				patterns = append(patterns, p)
			}
		}
	}

	sort.Strings(patterns)
	return patterns
}
