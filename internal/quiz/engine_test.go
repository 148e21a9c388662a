package quiz_test

import (
	"errors"
	"testing"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/quiz"
)

func questions(correct ...int) []models.PracticeQuestion {
	qs := make([]models.PracticeQuestion, len(correct))
	for i, c := range correct {
		qs[i] = models.PracticeQuestion{
			Question:      "Question " + string(rune('A'+i)),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: c,
		}
	}
	return qs
}

func newEngine(t *testing.T, correct ...int) *quiz.Engine {
	t.Helper()
	e, err := quiz.New(questions(correct...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func answer(t *testing.T, e *quiz.Engine, a quiz.Attempt, option int) quiz.Attempt {
	t.Helper()
	a = e.Select(a, option)
	a, err := e.Submit(a)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return a
}

func TestNew_NoQuestions(t *testing.T) {
	if _, err := quiz.New(nil); !errors.Is(err, quiz.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestSubmit_CorrectAnswer(t *testing.T) {
	e := newEngine(t, 1, 0, 2)

	a := e.Select(e.Reset(), 1)
	a, err := e.Submit(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Score != 1 {
		t.Errorf("expected score 1, got %d", a.Score)
	}
	if len(a.Answered) != 1 || a.Answered[0] != 0 {
		t.Errorf("expected answered {0}, got %v", a.Answered)
	}
	if !a.Revealed {
		t.Errorf("expected answer to be revealed")
	}
}

func TestSubmit_WrongAnswer(t *testing.T) {
	e := newEngine(t, 1, 0, 2)

	a := answer(t, e, e.Reset(), 3)

	if a.Score != 0 {
		t.Errorf("expected score 0, got %d", a.Score)
	}
	if len(a.Answered) != 1 {
		t.Errorf("wrong answers still count as answered, got %v", a.Answered)
	}
}

func TestSubmit_WithoutSelection(t *testing.T) {
	e := newEngine(t, 1)
	start := e.Reset()

	a, err := e.Submit(start)
	if !errors.Is(err, quiz.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if a.Revealed || a.Score != 0 || len(a.Answered) != 0 {
		t.Fatalf("attempt should be unchanged, got %+v", a)
	}
}

func TestSubmit_TwiceDoesNotDoubleCount(t *testing.T) {
	e := newEngine(t, 2, 2)

	a := answer(t, e, e.Reset(), 2)
	again, err := e.Submit(a)
	if err != nil {
		t.Fatalf("second submit should be a silent no-op, got %v", err)
	}

	if again.Score != 1 {
		t.Errorf("expected score to stay 1, got %d", again.Score)
	}
	if len(again.Answered) != 1 {
		t.Errorf("expected one answered question, got %v", again.Answered)
	}
}

func TestSelect_IgnoredAfterReveal(t *testing.T) {
	e := newEngine(t, 0, 1)

	a := answer(t, e, e.Reset(), 0)
	after := e.Select(a, 3)

	if after.Selected == nil || *after.Selected != 0 {
		t.Fatalf("expected selection to remain 0, got %v", after.Selected)
	}
}

func TestSelect_OutOfRangeIgnored(t *testing.T) {
	e := newEngine(t, 0)

	a := e.Select(e.Reset(), 9)
	if a.Selected != nil {
		t.Fatalf("expected out-of-range option to be ignored")
	}
	a = e.Select(a, -1)
	if a.Selected != nil {
		t.Fatalf("expected negative option to be ignored")
	}
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	e := newEngine(t, 0)

	first := e.Select(e.Reset(), 1)
	second := e.Select(first, 2)

	if *first.Selected != 1 || *second.Selected != 2 {
		t.Fatalf("attempt values must not alias: first=%d second=%d", *first.Selected, *second.Selected)
	}
}

func TestAdvance_RequiresReveal(t *testing.T) {
	e := newEngine(t, 0, 1)

	a := e.Select(e.Reset(), 0)
	if _, err := e.Advance(a); !errors.Is(err, quiz.ErrNotRevealed) {
		t.Fatalf("expected ErrNotRevealed, got %v", err)
	}
}

func TestAdvance_MovesToNextQuestion(t *testing.T) {
	e := newEngine(t, 0, 1)

	a := answer(t, e, e.Reset(), 0)
	a, err := e.Advance(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.CurrentIndex != 1 {
		t.Errorf("expected index 1, got %d", a.CurrentIndex)
	}
	if a.Selected != nil || a.Revealed {
		t.Errorf("expected selection cleared and answer hidden, got %+v", a)
	}
	if a.Phase() != quiz.PhaseInProgress {
		t.Errorf("expected in progress, got %s", a.Phase())
	}
}

func TestFullRun_CompleteAndReset(t *testing.T) {
	e := newEngine(t, 1, 0, 2)

	a := e.Reset()
	for i, option := range []int{1, 3, 2} {
		a = answer(t, e, a, option)
		var err error
		a, err = e.Advance(a)
		if err != nil {
			t.Fatalf("advance %d failed: %v", i, err)
		}
	}

	if !e.IsComplete(a) || a.Phase() != quiz.PhaseComplete {
		t.Fatalf("expected complete, got %+v", a)
	}
	if a.Score != 2 {
		t.Fatalf("expected score 2, got %d", a.Score)
	}
	if got := e.Percent(a); got != 67 {
		t.Fatalf("expected 67%%, got %d", got)
	}

	if _, err := e.Submit(a); !errors.Is(err, quiz.ErrComplete) {
		t.Fatalf("expected ErrComplete after completion, got %v", err)
	}

	reset := e.Reset()
	if reset.Score != 0 || len(reset.Answered) != 0 || reset.CurrentIndex != 0 || reset.Selected != nil || reset.Revealed {
		t.Fatalf("unexpected reset state: %+v", reset)
	}
}

func TestInvariant_ScoreNeverExceedsAnswered(t *testing.T) {
	e := newEngine(t, 0, 0, 0, 0)

	a := e.Reset()
	for _, option := range []int{0, 1, 0, 2} {
		a = answer(t, e, a, option)
		a, _ = e.Submit(a)
		if a.Score > len(a.Answered) || len(a.Answered) > e.Total() {
			t.Fatalf("invariant broken: %+v", a)
		}
		a, _ = e.Advance(a)
	}
}

func TestCorrectAnswer_HiddenUntilRevealed(t *testing.T) {
	e := newEngine(t, 3)

	if _, ok := e.CorrectAnswer(e.Reset()); ok {
		t.Fatalf("correct answer must stay hidden before submit")
	}
	a := answer(t, e, e.Reset(), 0)
	if got, ok := e.CorrectAnswer(a); !ok || got != 3 {
		t.Fatalf("expected revealed answer 3, got %d (%v)", got, ok)
	}
}

func TestPercent(t *testing.T) {
	e := newEngine(t, 0, 0)
	if got := e.Percent(quiz.Attempt{Score: 1}); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}
