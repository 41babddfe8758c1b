package analytics

import (
	"cmp"

	"quiz-analytics/internal/domain"
)

// Set is a set of option texts.
type Set map[string]struct{}

// NewSet builds a set from items, dropping duplicates.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// SetsEqual reports whether a and b hold exactly the same elements.
func SetsEqual(a, b Set) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Response is the set of distinct choices one voter submitted on a question,
// judged against the question's answer key.
type Response struct {
	QuestionText string
	VoterName    string
	Choices      Set
	Correct      bool
}

// Correctness is the joined response table shared by the correctness
// rankings. Unkeyed counts responses dropped because their question has no
// answer key.
type Correctness struct {
	Responses []Response
	Unkeyed   int
}

// Evaluate joins voter responses with the answer key. A response is correct
// only when its choice set equals the correct-answer set; overlap is not
// enough.
func Evaluate(votes []domain.Vote, key []domain.CorrectAnswer) Correctness {
	answers := make(map[string]Set)
	for _, a := range key {
		s, ok := answers[a.QuestionText]
		if !ok {
			s = make(Set)
			answers[a.QuestionText] = s
		}
		s[a.AnswerText] = struct{}{}
	}

	responses := newGrouped[responseKey, Set]()
	for _, v := range votes {
		s := responses.at(responseKey{question: v.QuestionText, voter: v.VoterName})
		if *s == nil {
			*s = make(Set)
		}
		(*s)[v.Choice] = struct{}{}
	}

	var c Correctness
	c.Responses = make([]Response, 0, responses.len())
	for i, k := range responses.keys {
		want, ok := answers[k.question]
		if !ok {
			c.Unkeyed++
			continue
		}
		c.Responses = append(c.Responses, Response{
			QuestionText: k.question,
			VoterName:    k.voter,
			Choices:      responses.vals[i],
			Correct:      SetsEqual(responses.vals[i], want),
		})
	}
	return c
}

// CorrectCount returns the number of correct responses.
func (c Correctness) CorrectCount() int {
	n := 0
	for _, r := range c.Responses {
		if r.Correct {
			n++
		}
	}
	return n
}

type tally struct {
	correct int
	total   int
}

// QuestionScores rolls the correctness table up per question. Only
// questions with at least one response appear, so ratios are always defined.
func QuestionScores(c Correctness) []domain.QuestionScore {
	g := newGrouped[string, tally]()
	for _, r := range c.Responses {
		t := g.at(r.QuestionText)
		t.total++
		if r.Correct {
			t.correct++
		}
	}
	rows := make([]domain.QuestionScore, 0, g.len())
	for i, q := range g.keys {
		t := g.vals[i]
		rows = append(rows, domain.QuestionScore{
			QuestionText:   q,
			CorrectCount:   t.correct,
			IncorrectCount: t.total - t.correct,
			TotalResponses: t.total,
			CorrectRatio:   float64(t.correct) / float64(t.total),
			IncorrectRatio: float64(t.total-t.correct) / float64(t.total),
		})
	}
	return rows
}

// VoterScores rolls the correctness table up per voter.
func VoterScores(c Correctness) []domain.VoterScore {
	g := newGrouped[string, tally]()
	for _, r := range c.Responses {
		t := g.at(r.VoterName)
		t.total++
		if r.Correct {
			t.correct++
		}
	}
	rows := make([]domain.VoterScore, 0, g.len())
	for i, name := range g.keys {
		t := g.vals[i]
		rows = append(rows, domain.VoterScore{
			VoterName:      name,
			CorrectCount:   t.correct,
			TotalResponses: t.total,
			CorrectRatio:   float64(t.correct) / float64(t.total),
		})
	}
	return rows
}

// IncorrectQuestions returns the n questions with the highest incorrect ratio.
func IncorrectQuestions(c Correctness, n int) []domain.QuestionScore {
	return topN(QuestionScores(c), n, func(a, b domain.QuestionScore) int {
		return cmp.Compare(b.IncorrectRatio, a.IncorrectRatio)
	})
}

// EasyQuestions returns the n questions with the highest correct ratio.
func EasyQuestions(c Correctness, n int) []domain.QuestionScore {
	return topN(QuestionScores(c), n, func(a, b domain.QuestionScore) int {
		return cmp.Compare(b.CorrectRatio, a.CorrectRatio)
	})
}

// GoodPerformers returns the n voters with the highest correct ratio.
func GoodPerformers(c Correctness, n int) []domain.VoterScore {
	return topN(VoterScores(c), n, func(a, b domain.VoterScore) int {
		return cmp.Compare(b.CorrectRatio, a.CorrectRatio)
	})
}
