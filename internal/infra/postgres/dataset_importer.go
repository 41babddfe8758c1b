package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"quiz-analytics/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Dataset   string    `bun:"dataset"`
	Text      string    `bun:"que_text"`
	CreatedAt time.Time `bun:"que_created_at"`
}

type voteRow struct {
	bun.BaseModel `bun:"table:votes"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Dataset      string    `bun:"dataset"`
	QuestionText string    `bun:"question_text"`
	VoterName    string    `bun:"voter_name"`
	Choice       string    `bun:"choice"`
	VotingTime   time.Time `bun:"voting_time"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:answer_keys"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Dataset      string `bun:"dataset"`
	QuestionText string `bun:"que_text"`
	AnswerText   string `bun:"ans_text"`
}

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// DatasetImporter replaces the stored rows of a dataset.
type DatasetImporter struct {
	db *bun.DB
}

func NewDatasetImporter(db *bun.DB) *DatasetImporter {
	return &DatasetImporter{db: db}
}

// Import writes ds under source in one transaction, dropping any rows
// previously stored for that source.
func (i *DatasetImporter) Import(ctx context.Context, source string, ds domain.Dataset) error {
	questions := make([]questionRow, 0, len(ds.Questions))
	for _, q := range ds.Questions {
		questions = append(questions, questionRow{Dataset: source, Text: q.Text, CreatedAt: q.CreatedAt})
	}
	votes := make([]voteRow, 0, len(ds.Votes))
	for _, v := range ds.Votes {
		votes = append(votes, voteRow{
			Dataset:      source,
			QuestionText: v.QuestionText,
			VoterName:    v.VoterName,
			Choice:       v.Choice,
			VotingTime:   v.VotingTime,
		})
	}
	answers := make([]answerRow, 0, len(ds.AnswerKey))
	for _, a := range ds.AnswerKey {
		answers = append(answers, answerRow{Dataset: source, QuestionText: a.QuestionText, AnswerText: a.AnswerText})
	}

	return i.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{(*questionRow)(nil), (*voteRow)(nil), (*answerRow)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("dataset = ?", source).Exec(ctx); err != nil {
				return fmt.Errorf("clear dataset: %w", err)
			}
		}
		if len(questions) > 0 {
			if _, err := tx.NewInsert().Model(&questions).Exec(ctx); err != nil {
				return fmt.Errorf("insert questions: %w", err)
			}
		}
		if len(votes) > 0 {
			if _, err := tx.NewInsert().Model(&votes).Exec(ctx); err != nil {
				return fmt.Errorf("insert votes: %w", err)
			}
		}
		if len(answers) > 0 {
			if _, err := tx.NewInsert().Model(&answers).Exec(ctx); err != nil {
				return fmt.Errorf("insert answer key: %w", err)
			}
		}
		return nil
	})
}
