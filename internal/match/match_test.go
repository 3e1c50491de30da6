package match

import (
	"testing"

	"github.com/kozaktomas/attendance-kiosk/internal/roster"
)

func testRoster() *roster.Roster {
	return roster.FromEntries([]roster.Entry{
		{Name: "ALICE", Embedding: []float32{1, 0, 0}},
		{Name: "BOB", Embedding: []float32{0, 1, 0}},
		{Name: "CAROL", Embedding: []float32{0, 0, 1}},
	})
}

func TestMatch_ExactMatch(t *testing.T) {
	m := New(testRoster(), 0.55)

	result := m.Match([]float32{1, 0, 0})

	if !result.Known {
		t.Fatal("expected a known match")
	}

	if result.Name != "ALICE" {
		t.Errorf("expected 'ALICE', got '%s'", result.Name)
	}

	if result.Distance > 1e-6 {
		t.Errorf("expected near-zero distance, got %f", result.Distance)
	}
}

func TestMatch_SmallestDistanceWins(t *testing.T) {
	m := New(testRoster(), 0.55)

	// Closer to BOB than to anyone else.
	result := m.Match([]float32{0.2, 0.9, 0.1})

	if !result.Known {
		t.Fatal("expected a known match")
	}

	if result.Name != "BOB" {
		t.Errorf("expected 'BOB', got '%s'", result.Name)
	}
}

func TestMatch_BeyondToleranceIsUnknown(t *testing.T) {
	m := New(testRoster(), 0.1)

	// Equidistant-ish from everyone, well beyond a 0.1 tolerance.
	result := m.Match([]float32{1, 1, 1})

	if result.Known {
		t.Errorf("expected unknown, got match '%s' at distance %f", result.Name, result.Distance)
	}

	if result.Name != "" {
		t.Errorf("expected empty name for unknown face, got '%s'", result.Name)
	}
}

func TestMatch_EmptyRoster(t *testing.T) {
	m := New(roster.FromEntries(nil), 0.55)

	result := m.Match([]float32{1, 0, 0})

	if result.Known {
		t.Error("expected unknown on empty roster")
	}
}

func TestMatch_TieBreaksToLowestIndex(t *testing.T) {
	r := roster.FromEntries([]roster.Entry{
		{Name: "FIRST", Embedding: []float32{1, 0}},
		{Name: "SECOND", Embedding: []float32{1, 0}},
	})
	m := New(r, 0.55)

	result := m.Match([]float32{1, 0})

	if result.Name != "FIRST" || result.Index != 0 {
		t.Errorf("expected index-order tie-break to 'FIRST', got '%s' (index %d)", result.Name, result.Index)
	}
}

func TestNew_InvalidToleranceFallsBack(t *testing.T) {
	m := New(testRoster(), 0)

	if m.Tolerance() != 0.55 {
		t.Errorf("expected default tolerance 0.55, got %f", m.Tolerance())
	}
}

func TestMatch_LargeRosterUsesHNSW(t *testing.T) {
	entries := make([]roster.Entry, 300)
	for i := range entries {
		// Spread entries around a few directions; entry 42 is the target.
		emb := []float32{float32(i % 7), float32(i % 5), float32(i % 3), 1}
		entries[i] = roster.Entry{Name: "STUDENT", Embedding: emb}
	}
	entries[42] = roster.Entry{Name: "TARGET", Embedding: []float32{100, 0, 0, 0}}
	m := New(roster.FromEntries(entries), 0.55)

	if m.graph == nil {
		t.Fatal("expected HNSW index for a roster this large")
	}

	result := m.Match([]float32{100, 0, 0, 0})

	if !result.Known || result.Name != "TARGET" {
		t.Errorf("expected 'TARGET', got '%s' (known=%v)", result.Name, result.Known)
	}
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"length mismatch", []float32{1, 0}, []float32{1}, 2},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 2},
		{"empty", nil, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineDistance(tt.a, tt.b)
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}
