package model

import "time"

// Metadata describes how a table was built. It is attached at build time and
// extended, never replaced, on merge.
type Metadata struct {
	// CreatedAt is the build timestamp of the oldest contributing table.
	CreatedAt time.Time
	// Sources lists the descriptors (paths, buffer labels) that fed the table.
	Sources []string
	// SymbolCount is the total number of symbols consumed across all sources.
	SymbolCount uint64
}

func (m *Metadata) stampCreated() {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
}

// extend folds another table's metadata into m: sources are appended, symbol
// counts added, and the earlier creation time wins.
func (m *Metadata) extend(other Metadata) {
	m.Sources = append(m.Sources, other.Sources...)
	m.SymbolCount += other.SymbolCount
	if m.CreatedAt.IsZero() || (!other.CreatedAt.IsZero() && other.CreatedAt.Before(m.CreatedAt)) {
		m.CreatedAt = other.CreatedAt
	}
}
