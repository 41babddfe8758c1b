package memory

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"quiz-analytics/internal/app"
	"quiz-analytics/internal/domain"
)

// DatasetRepository keeps loaded datasets in process so repeated reports over
// the same source skip the workbook or database read. Callers always receive
// their own copy of the tables.
type DatasetRepository struct {
	loader app.DatasetLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu      sync.RWMutex
	entries map[string]datasetEntry
}

type datasetEntry struct {
	dataset   domain.Dataset
	loadedAt  time.Time
	expiresAt time.Time
}

func (e datasetEntry) fresh(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// NewDatasetRepository caches loader results for ttl plus up to 10% jitter.
// A non-positive ttl keeps entries until they are invalidated.
func NewDatasetRepository(loader app.DatasetLoader, ttl time.Duration) *DatasetRepository {
	return &DatasetRepository{
		loader:  loader,
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]datasetEntry),
	}
}

func (r *DatasetRepository) LoadDataset(ctx context.Context, source string) (domain.Dataset, error) {
	if ds, ok := r.lookup(source); ok {
		return ds.Clone(), nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		if ds, ok := r.lookup(source); ok {
			return ds, nil
		}
		ds, err := r.loader.LoadDataset(ctx, source)
		if err != nil {
			return domain.Dataset{}, err
		}
		r.store(source, ds)
		return ds, nil
	})
	if err != nil {
		return domain.Dataset{}, err
	}
	return result.(domain.Dataset).Clone(), nil
}

// Invalidate drops source so the next load reads it again, e.g. after an import.
func (r *DatasetRepository) Invalidate(_ context.Context, source string) error {
	r.mu.Lock()
	delete(r.entries, source)
	r.mu.Unlock()
	return nil
}

func (r *DatasetRepository) lookup(source string) (domain.Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[source]
	if !ok || !e.fresh(r.clock()) {
		return domain.Dataset{}, false
	}
	return e.dataset, true
}

func (r *DatasetRepository) store(source string, ds domain.Dataset) {
	now := r.clock()
	e := datasetEntry{dataset: ds.Clone(), loadedAt: now}
	if r.ttl > 0 {
		e.expiresAt = now.Add(r.ttl + rand.N(r.ttl/10+1))
	}
	r.mu.Lock()
	r.entries[source] = e
	r.mu.Unlock()
}

// StaticDatasetLoader serves fixed datasets from a map (tests and demos).
type StaticDatasetLoader struct {
	datasets map[string]domain.Dataset
}

func NewStaticDatasetLoader(datasets map[string]domain.Dataset) *StaticDatasetLoader {
	return &StaticDatasetLoader{datasets: datasets}
}

func (l *StaticDatasetLoader) LoadDataset(_ context.Context, source string) (domain.Dataset, error) {
	if ds, ok := l.datasets[source]; ok {
		return ds, nil
	}
	return domain.Dataset{}, domain.ErrDatasetNotFound
}
