package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"quiz-analytics/internal/analytics"
	"quiz-analytics/internal/domain"
)

// DatasetLoader supplies the three input tables for a named source.
type DatasetLoader interface {
	LoadDataset(ctx context.Context, source string) (domain.Dataset, error)
}

// ReportCache memoizes finished reports by key (in-memory, Redis, etc).
type ReportCache interface {
	Get(ctx context.Context, key string) (domain.Report, bool, error)
	Set(ctx context.Context, key string, report domain.Report) error
}

// DatasetInvalidator is implemented by dataset caches that can drop a source.
type DatasetInvalidator interface {
	Invalidate(ctx context.Context, source string) error
}

// ReportService builds analytics reports over loaded datasets.
type ReportService struct {
	datasets DatasetLoader
	cache    ReportCache
	now      func() time.Time
	logger   *slog.Logger
	sf       singleflight.Group
}

// NewReportService wires a service. cache may be nil to disable memoization.
func NewReportService(datasets DatasetLoader, cache ReportCache, logger *slog.Logger) *ReportService {
	return NewReportServiceWithClock(datasets, cache, logger, time.Now)
}

// NewReportServiceWithClock is test-only for deterministic inactivity figures.
func NewReportServiceWithClock(datasets DatasetLoader, cache ReportCache, logger *slog.Logger, now func() time.Time) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{datasets: datasets, cache: cache, now: now, logger: logger}
}

// Build loads source, validates it and returns the report for the top n rows
// of every ranking. Reports are memoized by dataset content and n, so the
// inactivity section is only as fresh as the cache TTL.
func (s *ReportService) Build(ctx context.Context, source string, n int) (domain.Report, error) {
	if n < 1 {
		return domain.Report{}, fmt.Errorf("%w: %d", domain.ErrInvalidTopN, n)
	}

	ds, err := s.datasets.LoadDataset(ctx, source)
	if err != nil {
		return domain.Report{}, err
	}
	if err := analytics.Validate(ds); err != nil {
		return domain.Report{}, err
	}

	key, err := cacheKey(ds, n)
	if err != nil {
		return domain.Report{}, err
	}
	if s.cache != nil {
		report, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("report cache read failed", "source", source, "error", err)
		} else if ok {
			report.Source = source
			return report, nil
		}
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		report, err := s.compute(ctx, ds, n)
		if err != nil {
			return domain.Report{}, err
		}
		s.logDiagnostics(source, report.Diagnostics)

		if s.cache != nil {
			if err := s.cache.Set(ctx, key, report); err != nil {
				s.logger.Warn("report cache write failed", "source", source, "error", err)
			}
		}
		return report, nil
	})
	if err != nil {
		return domain.Report{}, err
	}
	// Sources with identical content share one memoized report.
	report := result.(domain.Report)
	report.Source = source
	return report, nil
}

// Invalidate drops any cached copy of source so the next Build reloads it.
// Memoized reports need no eviction since they are keyed by content.
func (s *ReportService) Invalidate(ctx context.Context, source string) error {
	inv, ok := s.datasets.(DatasetInvalidator)
	if !ok {
		return nil
	}
	if err := inv.Invalidate(ctx, source); err != nil {
		return fmt.Errorf("invalidate dataset %s: %w", source, err)
	}
	return nil
}

// Compute runs every aggregation over ds without loading or caching.
func (s *ReportService) Compute(ctx context.Context, ds domain.Dataset, n int) (domain.Report, error) {
	if n < 1 {
		return domain.Report{}, fmt.Errorf("%w: %d", domain.ErrInvalidTopN, n)
	}
	if err := analytics.Validate(ds); err != nil {
		return domain.Report{}, err
	}
	report, err := s.compute(ctx, ds, n)
	if err != nil {
		return domain.Report{}, err
	}
	s.logDiagnostics("", report.Diagnostics)
	return report, nil
}

func (s *ReportService) compute(ctx context.Context, ds domain.Dataset, n int) (domain.Report, error) {
	now := s.now()
	report := domain.Report{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		TopN:        n,
	}

	g, gctx := errgroup.WithContext(ctx)
	section := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	section(func() { report.MostActive = analytics.MostActive(ds.Votes, n) })
	section(func() { report.LeastActive = analytics.LeastActive(ds.Votes, n) })
	section(func() { report.Inactive = analytics.InactiveSince(ds.Votes, n, now) })
	section(func() { report.EarlyBirds = analytics.EarlyBirds(ds.Votes, n) })
	section(func() { report.DifficultQuestions = analytics.DifficultQuestions(ds.Votes, n) })
	// One correctness join feeds every correctness-based section.
	section(func() {
		c := analytics.Evaluate(ds.Votes, ds.AnswerKey)
		report.IncorrectQuestions = analytics.IncorrectQuestions(c, n)
		report.EasyQuestions = analytics.EasyQuestions(c, n)
		report.GoodPerformers = analytics.GoodPerformers(c, n)
		report.Summary = analytics.Summarize(ds.Votes, c)
		report.Diagnostics.UnkeyedResponses = c.Unkeyed
	})
	section(func() {
		l := analytics.ResponseTimes(ds.Votes, ds.Questions)
		report.FastResponded = analytics.FastResponded(l, n)
		report.SlowResponded = analytics.SlowResponded(l, n)
		report.Diagnostics.OrphanVotes = l.OrphanVotes
		report.Diagnostics.AnomalousLatencies = l.Anomalies()
	})
	section(func() {
		report.Hourly = analytics.HourlyActivity(ds.Votes)
		report.Weekday = analytics.WeekdayActivity(ds.Votes)
		report.Daily = analytics.DailyActivity(ds.Votes)
	})

	if err := g.Wait(); err != nil {
		return domain.Report{}, err
	}
	return report, nil
}

func (s *ReportService) logDiagnostics(source string, d domain.Diagnostics) {
	if d.OrphanVotes > 0 {
		s.logger.Warn("votes reference unknown questions; excluded from response times",
			"source", source, "dropped", d.OrphanVotes)
	}
	if d.UnkeyedResponses > 0 {
		s.logger.Warn("responses have no answer key; excluded from correctness",
			"source", source, "dropped", d.UnkeyedResponses)
	}
	if d.AnomalousLatencies > 0 {
		s.logger.Info("questions answered before creation",
			"source", source, "count", d.AnomalousLatencies)
	}
}

// Fingerprint identifies a dataset by content.
func Fingerprint(ds domain.Dataset) (string, error) {
	raw, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("fingerprint dataset: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}

func cacheKey(ds domain.Dataset, n int) (string, error) {
	fp, err := Fingerprint(ds)
	if err != nil {
		return "", err
	}
	return fp + ":" + strconv.Itoa(n), nil
}
