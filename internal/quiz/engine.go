// Package quiz scores a single pass through a topic's practice questions.
//
// Attempt is a plain value: every transition takes the current attempt and
// returns the next one, so callers own the state and can store it wherever
// they like.
package quiz

import (
	"errors"
	"math"

	"studytrack-backend/internal/models"
)

var (
	ErrNoQuestions = errors.New("quiz has no questions")
	ErrNoSelection = errors.New("select an option before submitting")
	ErrNotRevealed = errors.New("submit an answer before moving on")
	ErrComplete    = errors.New("quiz is already complete")
)

type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseComplete   Phase = "complete"
)

type Attempt struct {
	CurrentIndex int   `json:"current_index"`
	Selected     *int  `json:"selected,omitempty"`
	Revealed     bool  `json:"revealed"`
	Answered     []int `json:"answered"`
	Score        int   `json:"score"`
	Complete     bool  `json:"complete"`
}

func (a Attempt) Phase() Phase {
	if a.Complete {
		return PhaseComplete
	}
	return PhaseInProgress
}

func (a Attempt) hasAnswered(i int) bool {
	for _, idx := range a.Answered {
		if idx == i {
			return true
		}
	}
	return false
}

// clone copies the slice and pointer fields so returned attempts never alias
// their inputs.
func (a Attempt) clone() Attempt {
	out := a
	out.Answered = append([]int{}, a.Answered...)
	if a.Selected != nil {
		sel := *a.Selected
		out.Selected = &sel
	}
	return out
}

type Engine struct {
	questions []models.PracticeQuestion
}

func New(questions []models.PracticeQuestion) (*Engine, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	qs := make([]models.PracticeQuestion, len(questions))
	copy(qs, questions)
	return &Engine{questions: qs}, nil
}

func (e *Engine) Total() int {
	return len(e.questions)
}

// Current returns the question at the attempt's index.
func (e *Engine) Current(a Attempt) models.PracticeQuestion {
	return e.questions[a.CurrentIndex]
}

func (e *Engine) Reset() Attempt {
	return Attempt{Answered: []int{}}
}

// Select records option i as the pending answer. It is ignored once the
// answer is revealed, after completion, or when i is not a valid option.
func (e *Engine) Select(a Attempt, i int) Attempt {
	if a.Revealed || a.Complete {
		return a
	}
	if i < 0 || i >= len(e.Current(a).Options) {
		return a
	}
	out := a.clone()
	out.Selected = &i
	return out
}

// Submit scores the selected option against the current question. A second
// submit before Advance returns the attempt unchanged.
func (e *Engine) Submit(a Attempt) (Attempt, error) {
	if a.Complete {
		return a, ErrComplete
	}
	if a.Revealed {
		return a, nil
	}
	if a.Selected == nil {
		return a, ErrNoSelection
	}

	out := a.clone()
	if *out.Selected == e.Current(out).CorrectAnswer {
		out.Score++
	}
	if !out.hasAnswered(out.CurrentIndex) {
		out.Answered = append(out.Answered, out.CurrentIndex)
	}
	out.Revealed = true
	return out, nil
}

// Advance moves past a revealed question; on the last one the attempt becomes
// complete.
func (e *Engine) Advance(a Attempt) (Attempt, error) {
	if a.Complete {
		return a, ErrComplete
	}
	if !a.Revealed {
		return a, ErrNotRevealed
	}

	out := a.clone()
	if out.CurrentIndex >= len(e.questions)-1 {
		out.Complete = e.IsComplete(out)
		return out, nil
	}
	out.CurrentIndex++
	out.Selected = nil
	out.Revealed = false
	return out, nil
}

func (e *Engine) IsComplete(a Attempt) bool {
	return len(a.Answered) == len(e.questions)
}

// Percent is the rounded share of questions answered correctly.
func (e *Engine) Percent(a Attempt) int {
	if len(e.questions) == 0 {
		return 0
	}
	return int(math.Round(float64(a.Score) / float64(len(e.questions)) * 100))
}

// CorrectAnswer is only exposed once the current answer is revealed.
func (e *Engine) CorrectAnswer(a Attempt) (int, bool) {
	if !a.Revealed {
		return 0, false
	}
	return e.Current(a).CorrectAnswer, true
}
