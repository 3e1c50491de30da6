// Package match resolves a face embedding to an enrolled identity using
// cosine distance. The entry with the smallest distance wins; a face whose
// best distance exceeds the tolerance stays unknown.
package match

import (
	"github.com/coder/hnsw"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"github.com/kozaktomas/attendance-kiosk/internal/roster"
)

// Result describes the outcome of matching one face embedding.
type Result struct {
	Name     string
	Index    int
	Distance float64
	Known    bool
}

// Matcher matches embeddings against a fixed roster. Immutable after
// construction and safe for concurrent use.
type Matcher struct {
	entries   []roster.Entry
	tolerance float64
	graph     *hnsw.Graph[int] // nil for small rosters; linear scan instead
}

// New builds a matcher over the roster. Rosters larger than the HNSW cutoff
// get an approximate-nearest-neighbor index; smaller rosters use a linear
// scan, which is both exact and fast enough at kiosk scale.
func New(r *roster.Roster, tolerance float64) *Matcher {
	if tolerance <= 0 {
		tolerance = constants.DefaultMatchTolerance
	}

	m := &Matcher{
		entries:   r.Entries(),
		tolerance: tolerance,
	}

	if len(m.entries) > constants.HNSWRosterCutoff {
		g := hnsw.NewGraph[int]()
		g.M = constants.HNSWMaxNeighbors
		g.Ml = 1.0 / float64(constants.HNSWMaxNeighbors) // Standard HNSW formula
		g.Distance = hnsw.CosineDistance
		for i, e := range m.entries {
			if len(e.Embedding) == 0 {
				continue
			}
			g.Add(hnsw.MakeNode(i, e.Embedding))
		}
		m.graph = g
	}

	return m
}

// Tolerance returns the configured acceptance threshold.
func (m *Matcher) Tolerance() float64 {
	return m.tolerance
}

// Match resolves an embedding to the closest roster entry. Known is false
// when the roster is empty or no entry is within tolerance; Distance is
// still reported for diagnostics.
func (m *Matcher) Match(embedding []float32) Result {
	if len(m.entries) == 0 {
		return Result{Index: -1, Distance: 2.0}
	}

	var best Result
	if m.graph != nil {
		best = m.nearestHNSW(embedding)
	} else {
		best = m.nearestLinear(embedding)
	}

	// The acceptance decision is always made on the exact distance.
	best.Known = best.Distance <= m.tolerance
	if !best.Known {
		best.Name = ""
	}
	return best
}

// nearestLinear scans every entry. Ties resolve to the lowest index.
func (m *Matcher) nearestLinear(embedding []float32) Result {
	best := Result{Index: -1, Distance: 2.0}
	for i, e := range m.entries {
		d := CosineDistance(embedding, e.Embedding)
		if best.Index == -1 || d < best.Distance {
			best = Result{Name: e.Name, Index: i, Distance: d}
		}
	}
	return best
}

// nearestHNSW asks the index for the nearest neighbor and re-checks the
// exact distance, falling back to a linear scan when the index is empty.
func (m *Matcher) nearestHNSW(embedding []float32) Result {
	neighbors := m.graph.Search(embedding, 1)
	if len(neighbors) == 0 {
		return m.nearestLinear(embedding)
	}

	idx := neighbors[0].Key
	return Result{
		Name:     m.entries[idx].Name,
		Index:    idx,
		Distance: CosineDistance(embedding, m.entries[idx].Embedding),
	}
}
