package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"quiz-analytics/internal/app"
	"quiz-analytics/internal/domain"
)

// DatasetRepository caches datasets in Redis and falls back to a loader on cache miss.
// Each table is stored as a JSON string:
//
//	SET dataset:{source}:questions [...]
//	SET dataset:{source}:votes     [...]
//	SET dataset:{source}:answers   [...]
type DatasetRepository struct {
	client *redis.Client
	loader app.DatasetLoader
	ttl    time.Duration
	sf     singleflight.Group
}

func NewDatasetRepository(client *redis.Client, loader app.DatasetLoader, ttl time.Duration) *DatasetRepository {
	return &DatasetRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

func (r *DatasetRepository) LoadDataset(ctx context.Context, source string) (domain.Dataset, error) {
	if ds, ok := r.fromCache(ctx, source); ok {
		return ds, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if ds, ok := r.fromCache(ctx, source); ok {
			return ds, nil
		}

		ds, err := r.loader.LoadDataset(ctx, source)
		if err != nil {
			return domain.Dataset{}, err
		}

		questions, err := json.Marshal(ds.Questions)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("encode questions: %w", err)
		}
		votes, err := json.Marshal(ds.Votes)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("encode votes: %w", err)
		}
		answers, err := json.Marshal(ds.AnswerKey)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("encode answers: %w", err)
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.TxPipeline()
		pipe.Set(ctx, r.key(source, "questions"), questions, ttl)
		pipe.Set(ctx, r.key(source, "votes"), votes, ttl)
		pipe.Set(ctx, r.key(source, "answers"), answers, ttl)
		_, _ = pipe.Exec(ctx)

		return ds, nil
	})
	if err != nil {
		return domain.Dataset{}, err
	}
	return result.(domain.Dataset), nil
}

func (r *DatasetRepository) fromCache(ctx context.Context, source string) (domain.Dataset, bool) {
	vals, err := r.client.MGet(ctx,
		r.key(source, "questions"),
		r.key(source, "votes"),
		r.key(source, "answers"),
	).Result()
	if err != nil || len(vals) != 3 {
		return domain.Dataset{}, false
	}
	var ds domain.Dataset
	targets := []any{&ds.Questions, &ds.Votes, &ds.AnswerKey}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			return domain.Dataset{}, false
		}
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return domain.Dataset{}, false
		}
	}
	return ds, true
}

// Invalidate deletes the cached tables for source so every process sharing
// this Redis reloads it.
func (r *DatasetRepository) Invalidate(ctx context.Context, source string) error {
	return r.client.Del(ctx,
		r.key(source, "questions"),
		r.key(source, "votes"),
		r.key(source, "answers"),
	).Err()
}

func (r *DatasetRepository) key(source, table string) string {
	return "dataset:" + source + ":" + table
}

func (r *DatasetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	return r.ttl + rand.N(r.ttl/10+1)
}
