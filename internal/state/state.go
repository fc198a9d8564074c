// Package state persists the model catalog using SQLite: which models have
// been discovered, their classification and summary statistics, and saved
// comparison reports. The binary model payloads themselves live on disk in
// the models directory; the catalog only references them by path.
package state

import "time"

// ModelRecord is one cataloged model.
type ModelRecord struct {
	ID          string
	Name        string
	FilePath    string
	Tag         string
	Transitions int
	Symbols     uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ComparisonRecord is one saved comparison report.
type ComparisonRecord struct {
	ID             string
	FromModel      string
	ToModel        string
	Score          float64
	Jaccard        float64
	SharedPatterns int
	CreatedAt      time.Time
}
