package task

import (
	"context"
	"testing"

	"github.com/taskforge/backend/domain"
)

type fakeCountCache struct {
	data          map[string]domain.StatusCounts
	invalidations int
}

func newFakeCountCache() *fakeCountCache {
	return &fakeCountCache{data: make(map[string]domain.StatusCounts)}
}

func (c *fakeCountCache) Get(_ context.Context, userID string) (*domain.StatusCounts, error) {
	if counts, ok := c.data[userID]; ok {
		return &counts, nil
	}
	return nil, nil
}

func (c *fakeCountCache) Set(_ context.Context, userID string, counts domain.StatusCounts) error {
	c.data[userID] = counts
	return nil
}

func (c *fakeCountCache) Invalidate(_ context.Context, userID string) error {
	c.invalidations++
	delete(c.data, userID)
	return nil
}

func TestCountUsesCacheForUnfilteredQueries(t *testing.T) {
	repo := newFakeTaskRepo()
	cache := newFakeCountCache()
	uc := newTestUseCase(repo)
	uc.counts = cache
	ctx := context.Background()

	if _, err := uc.Create(ctx, owner, CreateInput{Title: "task", DueDate: "2026-09-01"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := uc.Count(ctx, CountInput{UserID: owner}); err != nil {
		t.Fatalf("count: %v", err)
	}
	callsAfterFirst := repo.calls

	result, err := uc.Count(ctx, CountInput{UserID: owner})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if repo.calls != callsAfterFirst {
		t.Fatal("second unfiltered count hit the repository instead of the cache")
	}
	if result.Counts.Pending != 1 {
		t.Fatalf("cached counts = %+v", result.Counts)
	}
}

func TestCountBypassesCacheForRangedQueries(t *testing.T) {
	repo := newFakeTaskRepo()
	cache := newFakeCountCache()
	uc := newTestUseCase(repo)
	uc.counts = cache
	ctx := context.Background()

	if _, err := uc.Count(ctx, CountInput{
		UserID: owner,
		Start:  "2026-01-01T00:00:00Z",
		End:    "2026-12-31T00:00:00Z",
	}); err != nil {
		t.Fatalf("count: %v", err)
	}
	if len(cache.data) != 0 {
		t.Fatal("ranged count populated the cache")
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	repo := newFakeTaskRepo()
	cache := newFakeCountCache()
	uc := newTestUseCase(repo)
	uc.counts = cache
	ctx := context.Background()

	created, err := uc.Create(ctx, owner, CreateInput{Title: "task", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cache.invalidations != 1 {
		t.Fatalf("invalidations after create = %d, want 1", cache.invalidations)
	}

	status := domain.StatusCompleted
	if _, err := uc.Update(ctx, created.ID, owner, UpdateInput{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := uc.Delete(ctx, created.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if cache.invalidations != 3 {
		t.Fatalf("invalidations = %d, want 3", cache.invalidations)
	}
}
