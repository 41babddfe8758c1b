package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"quiz-analytics/internal/app"
	"quiz-analytics/internal/domain"
	pgstore "quiz-analytics/internal/infra/postgres"
	infraredis "quiz-analytics/internal/infra/redis"
)

func TestReportEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedDataset(t, ctx, pgURL, "weekly", sampleDataset())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewDatasetLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	datasets := infraredis.NewDatasetRepository(redisClient, loader, 5*time.Minute)
	reports := infraredis.NewReportCache(redisClient, 5*time.Minute)
	service := app.NewReportService(datasets, reports, nil)

	report, err := service.Build(ctx, "weekly", 10)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(report.IncorrectQuestions) != 2 || report.IncorrectQuestions[0].QuestionText != "Q1" {
		t.Fatalf("expected Q1 most incorrect, got %+v", report.IncorrectQuestions)
	}
	if report.FastResponded[0].QuestionText != "Q2" || report.FastResponded[0].LatencyMinutes != 2 {
		t.Fatalf("expected Q2 fastest at 2 minutes, got %+v", report.FastResponded)
	}
	if report.Diagnostics.OrphanVotes != 1 {
		t.Fatalf("expected orphan vote counted, got %+v", report.Diagnostics)
	}

	cached, err := service.Build(ctx, "weekly", 10)
	if err != nil {
		t.Fatalf("build cached: %v", err)
	}
	if cached.ID != report.ID {
		t.Fatalf("expected report served from redis, got %s and %s", report.ID, cached.ID)
	}

	if _, err := service.Build(ctx, "unknown", 10); err == nil {
		t.Fatalf("expected unknown dataset to fail")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedDataset(t *testing.T, ctx context.Context, dsn, source string, ds domain.Dataset) {
	t.Helper()
	db := pgstore.OpenDB(dsn)
	defer db.Close()

	if err := pgstore.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := pgstore.NewDatasetImporter(db).Import(ctx, source, ds); err != nil {
		t.Fatalf("import: %v", err)
	}
}

func sampleDataset() domain.Dataset {
	created := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	return domain.Dataset{
		Questions: []domain.Question{
			{Text: "Q1", CreatedAt: created},
			{Text: "Q2", CreatedAt: created.Add(time.Hour)},
		},
		Votes: []domain.Vote{
			{QuestionText: "Q1", VoterName: "Alice", Choice: "A", VotingTime: created.Add(5 * time.Minute)},
			{QuestionText: "Q1", VoterName: "Bob", Choice: "B", VotingTime: created.Add(10 * time.Minute)},
			{QuestionText: "Q2", VoterName: "Bob", Choice: "C", VotingTime: created.Add(62 * time.Minute)},
			{QuestionText: "Q-retired", VoterName: "Carol", Choice: "A", VotingTime: created},
		},
		AnswerKey: []domain.CorrectAnswer{
			{QuestionText: "Q1", AnswerText: "A"},
			{QuestionText: "Q2", AnswerText: "C"},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
