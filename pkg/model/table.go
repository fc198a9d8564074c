package model

import (
	"math"
	"sort"
)

// Symbol is the atomic unit of a corpus stream: a Unicode scalar value for
// text sources, or a zero-extended byte for byte-mode sources.
type Symbol int32

// Transition is an ordered (from, to) pair with its observation count.
type Transition struct {
	From  Symbol
	To    Symbol
	Count uint32
}

// Table is a transition-frequency model: for every observed source symbol it
// records how often each successor symbol followed it.
//
// Counts saturate at the uint32 maximum instead of wrapping. A Table is not
// safe for concurrent mutation; once handed to a registry it is treated as
// immutable and may be read concurrently.
type Table struct {
	transitions map[Symbol]map[Symbol]uint32
	meta        Metadata
}

// New creates an empty table.
func New() *Table {
	return &Table{
		transitions: make(map[Symbol]map[Symbol]uint32),
	}
}

// Observe records a single from→to transition.
func (t *Table) Observe(from, to Symbol) {
	row, ok := t.transitions[from]
	if !ok {
		row = make(map[Symbol]uint32)
		t.transitions[from] = row
	}
	if c := row[to]; c < math.MaxUint32 {
		row[to] = c + 1
	}
}

// add records a transition with an explicit count, saturating on overflow.
func (t *Table) add(from, to Symbol, count uint32) {
	if count == 0 {
		return
	}
	row, ok := t.transitions[from]
	if !ok {
		row = make(map[Symbol]uint32)
		t.transitions[from] = row
	}
	c := row[to]
	if count > math.MaxUint32-c {
		row[to] = math.MaxUint32
		return
	}
	row[to] = c + count
}

// IngestString observes every adjacent rune pair in s.
// The string is windowed on its own: no pair spans into a previous or
// following ingest call.
func (t *Table) IngestString(s string) {
	prev := Symbol(-1)
	first := true
	for _, r := range s {
		cur := Symbol(r)
		if !first {
			t.Observe(prev, cur)
		}
		prev = cur
		first = false
		t.meta.SymbolCount++
	}
}

// IngestBytes observes every adjacent byte pair in b, treating each raw byte
// as its own symbol (no UTF-8 decoding).
func (t *Table) IngestBytes(b []byte) {
	for i, c := range b {
		if i > 0 {
			t.Observe(Symbol(b[i-1]), Symbol(c))
		}
		t.meta.SymbolCount++
	}
}

// Merge adds every transition of other into t, pairwise. Merging never
// removes an entry; merging tables built from disjoint source sets yields the
// same record set as a single sequential build over all sources.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for from, row := range other.transitions {
		for to, count := range row {
			t.add(from, to, count)
		}
	}
	t.meta.extend(other.meta)
}

// Reversed returns a new table with every transition flipped: each
// (from, to, count) record becomes (to, from, count). Flipping the records
// of a forward build is exactly the table a reversed-pair scan of the same
// sources would produce, since both count the same adjacent pairs.
// Metadata is copied.
func (t *Table) Reversed() *Table {
	out := New()
	for from, row := range t.transitions {
		for to, count := range row {
			out.add(to, from, count)
		}
	}
	out.meta = t.meta
	out.meta.Sources = append([]string(nil), t.meta.Sources...)
	return out
}

// SetCount stores an explicit count for a from→to pair, replacing any
// existing value. Intended for decoders reconstructing a persisted table;
// records are accepted as-is.
func (t *Table) SetCount(from, to Symbol, count uint32) {
	row, ok := t.transitions[from]
	if !ok {
		row = make(map[Symbol]uint32)
		t.transitions[from] = row
	}
	row[to] = count
}

// Count returns the observation count for a from→to transition, zero when
// the pair has never been observed.
func (t *Table) Count(from, to Symbol) uint32 {
	return t.transitions[from][to]
}

// Has reports whether the from→to transition has been observed at least once.
func (t *Table) Has(from, to Symbol) bool {
	_, ok := t.transitions[from][to]
	return ok
}

// HasFrom reports whether from has any outgoing transitions.
func (t *Table) HasFrom(from Symbol) bool {
	return len(t.transitions[from]) > 0
}

// TransitionCount returns the number of distinct (from, to) pairs.
// This is the record count written to the binary wire format, not the sum of
// observation counts (see Observations).
func (t *Table) TransitionCount() int {
	n := 0
	for _, row := range t.transitions {
		n += len(row)
	}
	return n
}

// Observations returns the total number of observed transitions, counting
// multiplicity. Never written to the wire.
func (t *Table) Observations() uint64 {
	var n uint64
	for _, row := range t.transitions {
		for _, count := range row {
			n += uint64(count)
		}
	}
	return n
}

// OutDegree returns the number of distinct successors of from.
func (t *Table) OutDegree(from Symbol) int {
	return len(t.transitions[from])
}

// OutTotal returns the summed counts of all transitions leaving from.
func (t *Table) OutTotal(from Symbol) uint64 {
	var n uint64
	for _, count := range t.transitions[from] {
		n += uint64(count)
	}
	return n
}

// Probability returns count(from, to) / sum of counts leaving from, or zero
// when from has no outgoing transitions.
func (t *Table) Probability(from, to Symbol) float64 {
	total := t.OutTotal(from)
	if total == 0 {
		return 0
	}
	return float64(t.Count(from, to)) / float64(total)
}

// Successors returns the distinct successors of from in ascending symbol
// order. The slice is freshly allocated.
func (t *Table) Successors(from Symbol) []Symbol {
	row := t.transitions[from]
	out := make([]Symbol, 0, len(row))
	for to := range row {
		out = append(out, to)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Alphabet returns every symbol appearing as a from- or to-symbol, in
// ascending order.
func (t *Table) Alphabet() []Symbol {
	seen := make(map[Symbol]struct{})
	for from, row := range t.transitions {
		seen[from] = struct{}{}
		for to := range row {
			seen[to] = struct{}{}
		}
	}
	out := make([]Symbol, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FromSymbols returns every symbol with at least one outgoing transition, in
// ascending order.
func (t *Table) FromSymbols() []Symbol {
	out := make([]Symbol, 0, len(t.transitions))
	for from := range t.transitions {
		out = append(out, from)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Transitions returns every (from, to, count) record. Order is unspecified;
// callers needing determinism must sort (see SortedTransitions).
func (t *Table) Transitions() []Transition {
	out := make([]Transition, 0, t.TransitionCount())
	for from, row := range t.transitions {
		for to, count := range row {
			out = append(out, Transition{From: from, To: to, Count: count})
		}
	}
	return out
}

// SortedTransitions returns every record ordered by (from, to).
func (t *Table) SortedTransitions() []Transition {
	out := t.Transitions()
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Each calls fn for every (from, to, count) record in unspecified order.
func (t *Table) Each(fn func(from, to Symbol, count uint32)) {
	for from, row := range t.transitions {
		for to, count := range row {
			fn(from, to, count)
		}
	}
}

// MarginalFrequencies returns the relative frequency of each symbol over all
// observations, counting both endpoints of every transition.
func (t *Table) MarginalFrequencies() map[Symbol]float64 {
	counts := make(map[Symbol]uint64)
	var total uint64
	for from, row := range t.transitions {
		for to, count := range row {
			counts[from] += uint64(count)
			counts[to] += uint64(count)
			total += 2 * uint64(count)
		}
	}
	freqs := make(map[Symbol]float64, len(counts))
	if total == 0 {
		return freqs
	}
	for s, c := range counts {
		freqs[s] = float64(c) / float64(total)
	}
	return freqs
}

// Entropy returns the Shannon entropy (bits) of the marginal symbol
// frequency distribution.
func (t *Table) Entropy() float64 {
	entropy := 0.0
	for _, p := range t.MarginalFrequencies() {
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// Equal reports whether two tables hold the same (from, to, count) record
// set. Metadata is not compared.
func (t *Table) Equal(other *Table) bool {
	if other == nil {
		return false
	}
	if t.TransitionCount() != other.TransitionCount() {
		return false
	}
	for from, row := range t.transitions {
		for to, count := range row {
			if other.transitions[from][to] != count {
				return false
			}
		}
	}
	return true
}

// Metadata returns the table's build metadata.
func (t *Table) Metadata() Metadata {
	return t.meta
}

// RecordSource appends a source descriptor to the table's metadata.
func (t *Table) RecordSource(name string) {
	t.meta.Sources = append(t.meta.Sources, name)
}

// AddSymbolCount adds externally counted symbols to the metadata total.
// Used by scanners that observe transitions directly instead of going
// through IngestString or IngestBytes.
func (t *Table) AddSymbolCount(n uint64) {
	t.meta.SymbolCount += n
}

// SetCreatedNow stamps the metadata creation time if unset.
func (t *Table) SetCreatedNow() {
	t.meta.stampCreated()
}
