package badger

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/counselbase/core"
	"github.com/poiesic/counselbase/storage"
)

func addWithVector(t *testing.T, repo storage.TranscriptRepository, context_, response string, vector []float32) *core.TranscriptRecord {
	t.Helper()
	added, err := repo.AddTranscripts(context.Background(), &core.TranscriptRecord{
		Context:  context_,
		Response: response,
		Vector:   vector,
	})
	if err != nil {
		t.Fatalf("Failed to add transcript: %v", err)
	}
	return added[0]
}

func TestFindNearestOrdering(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	// Query points along the x axis; records at increasing angles from it
	addWithVector(t, repo, "far", "far response", []float32{0, 1, 0})
	addWithVector(t, repo, "near", "near response", []float32{1, 0.1, 0})
	addWithVector(t, repo, "exact", "exact response", []float32{1, 0, 0})
	addWithVector(t, repo, "mid", "mid response", []float32{1, 1, 0})

	results, err := backend.FindNearest(context.Background(), []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("FindNearest failed: %v", err)
	}

	want := []string{"exact", "near", "mid", "far"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, w := range want {
		if results[i].Record.Context != w {
			t.Fatalf("Expected %q at rank %d, got %q", w, i, results[i].Record.Context)
		}
	}

	// Distances must be non-decreasing
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Fatalf("Distances not ascending at rank %d", i)
		}
	}

	// Exact match has distance ~0
	if math.Abs(float64(results[0].Distance)) > 1e-6 {
		t.Fatalf("Expected near-zero distance for exact match, got %v", results[0].Distance)
	}
}

func TestFindNearestLimit(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	for i := 0; i < 7; i++ {
		addWithVector(t, repo, "context", "response", []float32{1, float32(i), 0})
	}

	results, err := backend.FindNearest(context.Background(), []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("FindNearest failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
}

func TestFindNearestEmptyCorpus(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	results, err := backend.FindNearest(context.Background(), []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("FindNearest failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected no results from empty corpus, got %d", len(results))
	}
}

func TestFindNearestTieBreak(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	// Scaled copies of the same direction have identical cosine distance
	first := addWithVector(t, repo, "first inserted", "r1", []float32{2, 0, 0})
	second := addWithVector(t, repo, "second inserted", "r2", []float32{4, 0, 0})

	results, err := backend.FindNearest(context.Background(), []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("FindNearest failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Record.Seq != first.Seq || results[1].Record.Seq != second.Seq {
		t.Fatal("Expected ties to keep insertion order")
	}
}

func TestFindNearestInvalidQuery(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	_, err = backend.FindNearest(context.Background(), []float32{1, 0, 0}, 0)
	if !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for k=0, got %v", err)
	}

	_, err = backend.FindNearest(context.Background(), nil, 5)
	if !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for empty vector, got %v", err)
	}
}

func TestFindNearestDimensionMismatch(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	addWithVector(t, repo, "context", "response", []float32{1, 0, 0})

	// A query of a different dimension must be rejected, not silently
	// compared against a prefix of the stored vector
	_, err = backend.FindNearest(context.Background(), []float32{1, 0}, 5)
	if !errors.Is(err, storage.ErrDimensionMismatch) {
		t.Fatalf("Expected ErrDimensionMismatch, got %v", err)
	}

	// Matching dimensions still rank
	results, err := backend.FindNearest(context.Background(), []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("FindNearest failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineDistance(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
