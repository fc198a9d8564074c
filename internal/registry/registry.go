// Package registry holds named models and classifies, clusters, and ranks
// them. Member tables are owned by the registry and treated as immutable
// once registered, so concurrent read-only operations over the same
// registry need no extra synchronization.
package registry

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/charkov/charkov/pkg/model"
)

// NamedModel is a registered table with its identifier and classification.
type NamedModel struct {
	Name  string
	Tag   string
	Table *model.Table
}

// Group is a set of models sharing a classification tag.
type Group struct {
	Tag     string
	Members []string
}

// ClusterReport partitions all registered models by tag. Groups with a
// single member are reported as singletons, not clusters.
type ClusterReport struct {
	Clusters   []Group
	Singletons []Group
}

// Ranked is one entry of a complexity ranking.
type Ranked struct {
	Name        string
	Tag         string
	Entropy     float64
	Transitions int
	Score       float64
}

// Registry stores named models. Registration is insert-only; registry
// operations never mutate member tables.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*NamedModel
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{models: make(map[string]*NamedModel)}
}

// Register adds a table under name, classifying it as a side effect.
// Registering a name twice is an error; models are immutable once held.
func (r *Registry) Register(name string, t *model.Table) error {
	if t == nil {
		return fmt.Errorf("cannot register nil table as %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[name]; exists {
		return fmt.Errorf("model %q already registered", name)
	}
	r.models[name] = &NamedModel{Name: name, Tag: Classify(name, t), Table: t}
	return nil
}

// Get returns the named model, or nil and false.
func (r *Registry) Get(name string) (*NamedModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// Names returns all registered names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Classify assigns a free-form tag from the identifier and summary
// statistics. Pure and order-independent: the same name and table always
// produce the same tag.
func Classify(name string, t *model.Table) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "rustc"),
		strings.Contains(lower, "compiler"),
		strings.Contains(lower, "hir"):
		return "compiler-derived"
	case strings.Contains(lower, "path"), strings.Contains(lower, "file"):
		return "path-derived"
	case strings.Contains(lower, "reverse"):
		return "reverse"
	case strings.Contains(lower, "forward"):
		return "forward"
	}

	switch n := t.TransitionCount(); {
	case n < 100:
		return "tiny"
	case n < 1000:
		return "small"
	default:
		return "large"
	}
}

// Cluster partitions every registered model into exactly one group by tag.
// Multi-member groups are clusters; one-member groups are singletons.
func (r *Registry) Cluster() *ClusterReport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byTag := make(map[string][]string)
	for name, m := range r.models {
		byTag[m.Tag] = append(byTag[m.Tag], name)
	}

	report := &ClusterReport{}
	for tag, members := range byTag {
		sort.Strings(members)
		group := Group{Tag: tag, Members: members}
		if len(members) > 1 {
			report.Clusters = append(report.Clusters, group)
		} else {
			report.Singletons = append(report.Singletons, group)
		}
	}
	sort.Slice(report.Clusters, func(i, j int) bool { return report.Clusters[i].Tag < report.Clusters[j].Tag })
	sort.Slice(report.Singletons, func(i, j int) bool { return report.Singletons[i].Tag < report.Singletons[j].Tag })
	return report
}

// RankByComplexity orders models by alphabet entropy weighted with record
// count, descending. Ties break by name so the ranking is deterministic.
func (r *Registry) RankByComplexity() []Ranked {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ranked := make([]Ranked, 0, len(r.models))
	for name, m := range r.models {
		entropy := m.Table.Entropy()
		transitions := m.Table.TransitionCount()
		ranked = append(ranked, Ranked{
			Name:        name,
			Tag:         m.Tag,
			Entropy:     entropy,
			Transitions: transitions,
			Score:       entropy * math.Log1p(float64(transitions)),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
