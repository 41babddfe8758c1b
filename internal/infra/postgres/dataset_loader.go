package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-analytics/internal/domain"
)

// DatasetLoader reads the three quiz tables for one dataset from Postgres.
type DatasetLoader struct {
	pool *pgxpool.Pool
}

func NewDatasetLoader(pool *pgxpool.Pool) *DatasetLoader {
	return &DatasetLoader{pool: pool}
}

func (l *DatasetLoader) LoadDataset(ctx context.Context, source string) (domain.Dataset, error) {
	var ds domain.Dataset

	rows, err := l.pool.Query(ctx, `SELECT que_text, que_created_at FROM questions WHERE dataset=$1 ORDER BY id`, source)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load questions: %w", err)
	}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.Text, &q.CreatedAt); err != nil {
			rows.Close()
			return domain.Dataset{}, fmt.Errorf("scan question: %w", err)
		}
		ds.Questions = append(ds.Questions, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("load questions: %w", err)
	}

	rows, err = l.pool.Query(ctx, `SELECT question_text, voter_name, choice, voting_time FROM votes WHERE dataset=$1 ORDER BY id`, source)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load votes: %w", err)
	}
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.QuestionText, &v.VoterName, &v.Choice, &v.VotingTime); err != nil {
			rows.Close()
			return domain.Dataset{}, fmt.Errorf("scan vote: %w", err)
		}
		ds.Votes = append(ds.Votes, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("load votes: %w", err)
	}

	rows, err = l.pool.Query(ctx, `SELECT que_text, ans_text FROM answer_keys WHERE dataset=$1 ORDER BY id`, source)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load answer key: %w", err)
	}
	for rows.Next() {
		var a domain.CorrectAnswer
		if err := rows.Scan(&a.QuestionText, &a.AnswerText); err != nil {
			rows.Close()
			return domain.Dataset{}, fmt.Errorf("scan answer: %w", err)
		}
		ds.AnswerKey = append(ds.AnswerKey, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("load answer key: %w", err)
	}

	if len(ds.Questions) == 0 && len(ds.Votes) == 0 {
		return domain.Dataset{}, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, source)
	}
	return ds, nil
}
