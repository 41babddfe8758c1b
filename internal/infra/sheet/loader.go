// Package sheet loads quiz datasets from the exported workbooks:
// Que_Ans (questions), Voter (votes) and Correct_Answers (answer key).
// Each workbook may be an .xlsx file or a .csv file with the same header row.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"quiz-analytics/internal/domain"
)

// TimeLayout is the export format of every timestamp, e.g. "04/03/2024 09:15 PM".
const TimeLayout = "2/1/2006 3:04 PM"

var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

const (
	questionsBook = "Que_Ans"
	votesBook     = "Voter"
	answersBook   = "Correct_Answers"
)

// Loader reads datasets from directories below root. A source names a
// subdirectory; the empty source reads root itself.
type Loader struct {
	root string
}

func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

func (l *Loader) LoadDataset(ctx context.Context, source string) (domain.Dataset, error) {
	dir := filepath.Join(l.root, filepath.Clean("/" + source))
	var ds domain.Dataset

	rows, err := readBook(dir, questionsBook)
	if err != nil {
		return domain.Dataset{}, err
	}
	t, err := newTable("questions", rows, "que_text", "que_created_at")
	if err != nil {
		return domain.Dataset{}, err
	}
	for i := range t.rows {
		created, err := t.timestamp(i, "que_created_at")
		if err != nil {
			return domain.Dataset{}, err
		}
		ds.Questions = append(ds.Questions, domain.Question{Text: t.cell(i, "que_text"), CreatedAt: created})
	}

	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	rows, err = readBook(dir, votesBook)
	if err != nil {
		return domain.Dataset{}, err
	}
	t, err = newTable("votes", rows, "question_text", "voter_name", "choice", "voting_time")
	if err != nil {
		return domain.Dataset{}, err
	}
	for i := range t.rows {
		voted, err := t.timestamp(i, "voting_time")
		if err != nil {
			return domain.Dataset{}, err
		}
		ds.Votes = append(ds.Votes, domain.Vote{
			QuestionText: t.cell(i, "question_text"),
			VoterName:    t.cell(i, "voter_name"),
			Choice:       t.cell(i, "choice"),
			VotingTime:   voted,
		})
	}

	rows, err = readBook(dir, answersBook)
	if err != nil {
		return domain.Dataset{}, err
	}
	t, err = newTable("answer_key", rows, "que_text", "ans_text")
	if err != nil {
		return domain.Dataset{}, err
	}
	for i := range t.rows {
		ds.AnswerKey = append(ds.AnswerKey, domain.CorrectAnswer{
			QuestionText: t.cell(i, "que_text"),
			AnswerText:   t.cell(i, "ans_text"),
		})
	}
	return ds, nil
}

// ParseTime parses a timestamp in TimeLayout, accepting ISO forms as a fallback.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if t, err := time.Parse(TimeLayout, raw); err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrUnparsedTimestamp, raw)
}

func readBook(dir, name string) ([][]string, error) {
	xlsx := filepath.Join(dir, name+".xlsx")
	if _, err := os.Stat(xlsx); err == nil {
		return readXLSX(xlsx)
	}
	path := filepath.Join(dir, name+".csv")
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: no %s.xlsx or %s.csv in %s", domain.ErrDatasetNotFound, name, name, dir)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// table indexes a header row by column name.
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func newTable(name string, rows [][]string, required ...string) (*table, error) {
	if len(rows) == 0 {
		return nil, &domain.SchemaError{Table: name, Row: -1, Field: required[0], Err: domain.ErrSchema}
	}
	t := &table{name: name, columns: make(map[string]int)}
	for i, h := range rows[0] {
		t.columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, &domain.SchemaError{Table: name, Row: -1, Field: col, Err: domain.ErrSchema}
		}
	}
	for _, r := range rows[1:] {
		if !blank(r) {
			t.rows = append(t.rows, r)
		}
	}
	return t, nil
}

func (t *table) cell(row int, col string) string {
	r := t.rows[row]
	if i := t.columns[col]; i < len(r) {
		return r[i]
	}
	return ""
}

func (t *table) timestamp(row int, col string) (time.Time, error) {
	parsed, err := ParseTime(t.cell(row, col))
	if err != nil {
		return time.Time{}, &domain.SchemaError{Table: t.name, Row: row, Field: col, Err: err}
	}
	return parsed, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
