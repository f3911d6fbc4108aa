package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

func TestVectorBasics(t *testing.T) {
	entityRepo, vectorRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectorRepo.Close(); entityRepo.Close(); backend.Close() }()

	ctx := context.Background()
	id := core.IDFromContent("some entry")
	vector := []float32{0.1, 0.2, 0.3}

	if err := vectorRepo.PutVectors(ctx, map[core.ID][]float32{id: vector}); err != nil {
		t.Fatalf("Failed to put vector: %v", err)
	}

	got, err := vectorRepo.GetVector(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get vector: %v", err)
	}
	if len(got) != 3 || got[0] != 0.1 {
		t.Fatalf("Unexpected vector: %v", got)
	}
}

func TestVectorNotFound(t *testing.T) {
	entityRepo, vectorRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectorRepo.Close(); entityRepo.Close(); backend.Close() }()

	_, err = vectorRepo.GetVector(context.Background(), core.ID(42))
	if err != storage.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetVectors_MissingEntriesSkipped(t *testing.T) {
	entityRepo, vectorRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectorRepo.Close(); entityRepo.Close(); backend.Close() }()

	ctx := context.Background()
	a := core.IDFromContent("a")
	b := core.IDFromContent("b")

	if err := vectorRepo.PutVectors(ctx, map[core.ID][]float32{a: {1, 0}}); err != nil {
		t.Fatalf("Failed to put vector: %v", err)
	}

	got, err := vectorRepo.GetVectors(ctx, a, b)
	if err != nil {
		t.Fatalf("Failed to get vectors: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 vector, got %d", len(got))
	}
	if _, ok := got[a]; !ok {
		t.Fatal("Expected vector for id a")
	}
}

func TestEachVector(t *testing.T) {
	entityRepo, vectorRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectorRepo.Close(); entityRepo.Close(); backend.Close() }()

	ctx := context.Background()
	vectors := map[core.ID][]float32{
		core.IDFromContent("x"): {1, 0},
		core.IDFromContent("y"): {0, 1},
	}
	if err := vectorRepo.PutVectors(ctx, vectors); err != nil {
		t.Fatalf("Failed to put vectors: %v", err)
	}

	seen := 0
	err = vectorRepo.EachVector(ctx, func(id core.ID, vector []float32) error {
		if _, ok := vectors[id]; !ok {
			t.Fatalf("Unexpected id %d", id)
		}
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("EachVector failed: %v", err)
	}
	if seen != 2 {
		t.Fatalf("Expected 2 vectors, saw %d", seen)
	}

	// Errors from the visitor stop iteration and propagate.
	sentinel := errors.New("stop")
	err = vectorRepo.EachVector(ctx, func(id core.ID, vector []float32) error {
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("Expected sentinel error, got %v", err)
	}
}

func TestDeleteVectors(t *testing.T) {
	entityRepo, vectorRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectorRepo.Close(); entityRepo.Close(); backend.Close() }()

	ctx := context.Background()
	id := core.IDFromContent("doomed")
	if err := vectorRepo.PutVectors(ctx, map[core.ID][]float32{id: {1}}); err != nil {
		t.Fatalf("Failed to put vector: %v", err)
	}

	if err := vectorRepo.DeleteVectors(ctx, id); err != nil {
		t.Fatalf("Failed to delete vector: %v", err)
	}
	if _, err := vectorRepo.GetVector(ctx, id); err != storage.ErrNotFound {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing vector is not an error.
	if err := vectorRepo.DeleteVectors(ctx, core.ID(9999)); err != nil {
		t.Fatalf("Expected nil for missing vector, got %v", err)
	}
}
