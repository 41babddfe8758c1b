package cli

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"quiz-analytics/internal/app"
	"quiz-analytics/internal/config"
	"quiz-analytics/internal/infra/memory"
	pgstore "quiz-analytics/internal/infra/postgres"
	rediscache "quiz-analytics/internal/infra/redis"
	"quiz-analytics/internal/infra/sheet"
)

// deps holds the infrastructure a command needs; close releases it.
type deps struct {
	service *app.ReportService
	close   func()
}

func wireService(ctx context.Context, cfg config.Config) (*deps, error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var loader app.DatasetLoader = sheet.NewLoader(cfg.Data.Dir)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, pool.Close)
		loader = pgstore.NewDatasetLoader(pool)
	}

	var datasets app.DatasetLoader
	var reports app.ReportCache
	if redisClient != nil {
		// redis.ttl overrides the dataset TTL for keys held in Redis.
		datasets = rediscache.NewDatasetRepository(redisClient, loader, config.TTLDuration(cfg.Redis.TTL, cfg.DatasetTTL()))
		reports = rediscache.NewReportCache(redisClient, cfg.ReportTTL())
	} else {
		datasets = memory.NewDatasetRepository(loader, cfg.DatasetTTL())
		reports = memory.NewReportCache(cfg.ReportTTL())
	}

	return &deps{
		service: app.NewReportService(datasets, reports, nil),
		close:   closeAll,
	}, nil
}
