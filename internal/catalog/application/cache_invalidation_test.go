package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type fakeCache struct {
	removed   []string
	patterns  []string
	removeErr error
}

func (f *fakeCache) Get(context.Context, string) (string, error) { return "", nil }

func (f *fakeCache) GetJSON(context.Context, string, any) error { return nil }

func (f *fakeCache) Set(context.Context, string, any, time.Duration) error { return nil }

func (f *fakeCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (f *fakeCache) Remove(_ context.Context, keys ...string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, keys...)
	return nil
}

func (f *fakeCache) RemoveByPattern(_ context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

func (f *fakeCache) Exists(context.Context, string) (bool, error) { return false, nil }

func (f *fakeCache) GetOrSet(ctx context.Context, _ string, _ time.Duration, _ any, loader func(ctx context.Context) (any, error)) error {
	_, err := loader(ctx)
	return err
}

func TestInvalidateProductClearsPointAndSearchKeys(t *testing.T) {
	fc := &fakeCache{}
	svc := NewCacheInvalidationService(fc, slog.Default())

	if err := svc.InvalidateProduct(context.Background(), "PRD-1"); err != nil {
		t.Fatalf("InvalidateProduct: %v", err)
	}

	if len(fc.removed) != 1 || fc.removed[0] != productCacheKey("PRD-1") {
		t.Fatalf("removed = %v, want exact product key", fc.removed)
	}
	if len(fc.patterns) != 1 || fc.patterns[0] != searchKeyPattern {
		t.Fatalf("patterns = %v, want search key pattern", fc.patterns)
	}
}

func TestInvalidateProductPropagatesFailure(t *testing.T) {
	fc := &fakeCache{removeErr: errors.New("redis down")}
	svc := NewCacheInvalidationService(fc, slog.Default())

	if err := svc.InvalidateProduct(context.Background(), "PRD-1"); err == nil {
		t.Fatal("failure must surface so the consumer can retry")
	}
}
