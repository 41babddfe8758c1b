package domain

import (
	"slices"
	"time"
)

// Question is a quiz question keyed by its text.
type Question struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Vote is a single choice submitted by a voter. A voter may vote several
// times on the same question (multi-select questions).
type Vote struct {
	QuestionText string    `json:"questionText"`
	VoterName    string    `json:"voterName"`
	Choice       string    `json:"choice"`
	VotingTime   time.Time `json:"votingTime"`
}

// CorrectAnswer is one row of the answer key. Multi-select questions have
// several rows.
type CorrectAnswer struct {
	QuestionText string `json:"questionText"`
	AnswerText   string `json:"answerText"`
}

// Dataset is an immutable snapshot of the three input tables.
type Dataset struct {
	Questions []Question      `json:"questions"`
	Votes     []Vote          `json:"votes"`
	AnswerKey []CorrectAnswer `json:"answerKey"`
}

// Clone copies the three tables so the copy can be handed out without
// sharing backing arrays.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Questions: slices.Clone(d.Questions),
		Votes:     slices.Clone(d.Votes),
		AnswerKey: slices.Clone(d.AnswerKey),
	}
}

// VoterCount is a voter ranked by a count (votes cast, first responses).
type VoterCount struct {
	VoterName string `json:"voterName"`
	Count     int    `json:"count"`
}

// VoterInactivity reports how long ago a voter last voted.
type VoterInactivity struct {
	VoterName         string    `json:"voterName"`
	LastVotingTime    time.Time `json:"lastVotingTime"`
	DaysSinceLastVote int       `json:"daysSinceLastVote"`
}

// QuestionScore is the correctness rollup of one question.
type QuestionScore struct {
	QuestionText   string  `json:"questionText"`
	CorrectCount   int     `json:"correctCount"`
	IncorrectCount int     `json:"incorrectCount"`
	TotalResponses int     `json:"totalResponses"`
	CorrectRatio   float64 `json:"correctRatio"`
	IncorrectRatio float64 `json:"incorrectRatio"`
}

// VoterScore is the correctness rollup of one voter.
type VoterScore struct {
	VoterName      string  `json:"voterName"`
	CorrectCount   int     `json:"correctCount"`
	TotalResponses int     `json:"totalResponses"`
	CorrectRatio   float64 `json:"correctRatio"`
}

// QuestionParticipation counts distinct voters on a question.
type QuestionParticipation struct {
	QuestionText string `json:"questionText"`
	Voters       int    `json:"voters"`
}

// QuestionLatency is the delay between question creation and its first vote.
// Anomalous is set when the first vote predates the question.
type QuestionLatency struct {
	QuestionText      string    `json:"questionText"`
	CreatedAt         time.Time `json:"createdAt"`
	FirstResponseTime time.Time `json:"firstResponseTime"`
	LatencyMinutes    float64   `json:"latencyMinutes"`
	Anomalous         bool      `json:"anomalous"`
}

// Summary holds the headline metrics of a report.
type Summary struct {
	TotalParticipants int     `json:"totalParticipants"`
	TotalVotes        int     `json:"totalVotes"`
	TotalQuestions    int     `json:"totalQuestions"`
	Accuracy          float64 `json:"accuracy"`
	AccuracyLabel     string  `json:"accuracyLabel"`
}

// HourCount is the number of votes cast during an hour of the day (0-23).
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// WeekdayCount is the number of votes cast on a day of the week.
type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// DateCount is the number of votes cast on a calendar date (YYYY-MM-DD).
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Diagnostics counts rows excluded by referential checks.
type Diagnostics struct {
	OrphanVotes        int `json:"orphanVotes"`
	UnkeyedResponses   int `json:"unkeyedResponses"`
	AnomalousLatencies int `json:"anomalousLatencies"`
}

// Report bundles every ranking for one top-N value.
type Report struct {
	ID                 string                  `json:"id"`
	Source             string                  `json:"source"`
	GeneratedAt        time.Time               `json:"generatedAt"`
	TopN               int                     `json:"topN"`
	Summary            Summary                 `json:"summary"`
	MostActive         []VoterCount            `json:"mostActive"`
	LeastActive        []VoterCount            `json:"leastActive"`
	Inactive           []VoterInactivity       `json:"inactive"`
	EarlyBirds         []VoterCount            `json:"earlyBirds"`
	IncorrectQuestions []QuestionScore         `json:"incorrectQuestions"`
	EasyQuestions      []QuestionScore         `json:"easyQuestions"`
	GoodPerformers     []VoterScore            `json:"goodPerformers"`
	DifficultQuestions []QuestionParticipation `json:"difficultQuestions"`
	FastResponded      []QuestionLatency       `json:"fastResponded"`
	SlowResponded      []QuestionLatency       `json:"slowResponded"`
	Hourly             []HourCount             `json:"hourly"`
	Weekday            []WeekdayCount          `json:"weekday"`
	Daily              []DateCount             `json:"daily"`
	Diagnostics        Diagnostics             `json:"diagnostics"`
}
