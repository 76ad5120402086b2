package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/noah-isme/escuela-api/internal/repository/memory"
	"github.com/noah-isme/escuela-api/internal/store"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

func newSeededStore(t *testing.T) *store.Store {
	t.Helper()
	ds := memory.NewDataset(memory.Fixtures())
	ds.SetClock(func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) })
	return store.NewMemory(ds)
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

// fakeCacheRepo keeps JSON payloads in a map and matches prefix patterns ending in '*'.
type fakeCacheRepo struct {
	mu          sync.Mutex
	values      map[string][]byte
	gets        int
	invalidated []string
	getErr      error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string][]byte)}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.values {
		if strings.HasPrefix(key, prefix) {
			delete(f.values, key)
		}
	}
	return nil
}

func (f *fakeCacheRepo) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.values))
	for key := range f.values {
		keys = append(keys, key)
	}
	return keys
}
