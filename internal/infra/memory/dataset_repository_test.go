package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-analytics/internal/app"
	"quiz-analytics/internal/domain"
)

func TestDatasetRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		DatasetLoader: NewStaticDatasetLoader(map[string]domain.Dataset{
			"weekly": sampleDataset(),
		}),
	}
	repo := NewDatasetRepository(loader, time.Minute)

	if _, err := repo.LoadDataset(context.Background(), "weekly"); err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.LoadDataset(context.Background(), "weekly"); err != nil {
		t.Fatalf("load dataset 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestDatasetRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		DatasetLoader: NewStaticDatasetLoader(map[string]domain.Dataset{
			"weekly": sampleDataset(),
		}),
	}
	repo := NewDatasetRepository(loader, time.Minute)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.LoadDataset(context.Background(), "weekly")
	now = now.Add(2 * time.Minute)
	_, _ = repo.LoadDataset(context.Background(), "weekly")
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}

	if err := repo.Invalidate(context.Background(), "weekly"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.LoadDataset(context.Background(), "weekly")
	if loader.calls != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestDatasetRepositoryHandsOutCopies(t *testing.T) {
	repo := NewDatasetRepository(NewStaticDatasetLoader(map[string]domain.Dataset{
		"weekly": sampleDataset(),
	}), time.Minute)

	first, err := repo.LoadDataset(context.Background(), "weekly")
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	first.Votes[0].Choice = "5"
	first.Votes = append(first.Votes, domain.Vote{QuestionText: "What is 2 + 2?", VoterName: "Bob"})

	second, err := repo.LoadDataset(context.Background(), "weekly")
	if err != nil {
		t.Fatalf("load dataset 2: %v", err)
	}
	if len(second.Votes) != 1 || second.Votes[0].Choice != "4" {
		t.Fatalf("cached dataset was mutated: %+v", second.Votes)
	}
}

func TestDatasetRepositoryWithoutTTLKeepsEntries(t *testing.T) {
	loader := &countingLoader{
		DatasetLoader: NewStaticDatasetLoader(map[string]domain.Dataset{
			"weekly": sampleDataset(),
		}),
	}
	repo := NewDatasetRepository(loader, 0)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.LoadDataset(context.Background(), "weekly")
	now = now.Add(24 * time.Hour)
	_, _ = repo.LoadDataset(context.Background(), "weekly")
	if loader.calls != 1 {
		t.Fatalf("expected entry kept without ttl, loader calls %d", loader.calls)
	}
}

func TestDatasetRepositoryUnknownSource(t *testing.T) {
	repo := NewDatasetRepository(NewStaticDatasetLoader(nil), time.Minute)
	if _, err := repo.LoadDataset(context.Background(), "missing"); !errors.Is(err, domain.ErrDatasetNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	app.DatasetLoader
	calls int
}

func (l *countingLoader) LoadDataset(ctx context.Context, source string) (domain.Dataset, error) {
	l.calls++
	return l.DatasetLoader.LoadDataset(ctx, source)
}

func sampleDataset() domain.Dataset {
	created := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	return domain.Dataset{
		Questions: []domain.Question{{Text: "What is 2 + 2?", CreatedAt: created}},
		Votes: []domain.Vote{
			{QuestionText: "What is 2 + 2?", VoterName: "Alice", Choice: "4", VotingTime: created.Add(time.Minute)},
		},
		AnswerKey: []domain.CorrectAnswer{{QuestionText: "What is 2 + 2?", AnswerText: "4"}},
	}
}
