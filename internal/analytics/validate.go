package analytics

import "quiz-analytics/internal/domain"

// Validate checks that every row carries the fields the engine reads. It
// stops at the first failure and returns a *domain.SchemaError wrapping
// domain.ErrSchema, or domain.ErrUnparsedTimestamp for zero timestamps.
func Validate(ds domain.Dataset) error {
	for i, q := range ds.Questions {
		if q.Text == "" {
			return schemaErr("questions", i, "que_text", domain.ErrSchema)
		}
		if q.CreatedAt.IsZero() {
			return schemaErr("questions", i, "que_created_at", domain.ErrUnparsedTimestamp)
		}
	}
	for i, v := range ds.Votes {
		switch {
		case v.QuestionText == "":
			return schemaErr("votes", i, "question_text", domain.ErrSchema)
		case v.VoterName == "":
			return schemaErr("votes", i, "voter_name", domain.ErrSchema)
		case v.Choice == "":
			return schemaErr("votes", i, "choice", domain.ErrSchema)
		case v.VotingTime.IsZero():
			return schemaErr("votes", i, "voting_time", domain.ErrUnparsedTimestamp)
		}
	}
	for i, a := range ds.AnswerKey {
		if a.QuestionText == "" {
			return schemaErr("answer_key", i, "que_text", domain.ErrSchema)
		}
		if a.AnswerText == "" {
			return schemaErr("answer_key", i, "ans_text", domain.ErrSchema)
		}
	}
	return nil
}

func schemaErr(table string, row int, field string, err error) error {
	return &domain.SchemaError{Table: table, Row: row, Field: field, Err: err}
}
