// Package assessment drives the learning-style questionnaire: load the
// questions, collect one answer per question, submit, keep the results.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kalambet/careernav/internal/api"
)

// IncompleteWarning is shown when a submit is refused for unanswered questions.
const IncompleteWarning = "Please answer all questions before submitting."

var (
	ErrIncomplete    = errors.New("not all questions answered")
	ErrNoQuestions   = errors.New("no assessment questions available")
	ErrInvalidOption = errors.New("option out of range")
	ErrWrongState    = errors.New("operation not allowed in current state")
)

type State int

const (
	Loading State = iota
	Answering
	Submitting
	Completed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Answering:
		return "answering"
	case Submitting:
		return "submitting"
	case Completed:
		return "results"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Backend is the subset of the API client the flow needs.
type Backend interface {
	Questions(ctx context.Context) ([]api.Question, error)
	SubmitAssessment(ctx context.Context, answers []api.Answer) (api.Results, error)
}

// Flow holds the state of one assessment attempt.
type Flow struct {
	backend Backend
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	questions []api.Question
	answers   []*api.Answer // indexed by question position
	current   int
	results   *api.Results
}

func New(backend Backend) *Flow {
	return &Flow{
		backend: backend,
		logger:  slog.Default(),
		state:   Loading,
	}
}

// Load fetches the question set. On failure the flow still moves to
// Answering, with no questions, and the error is returned.
func (f *Flow) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.state != Loading {
		f.mu.Unlock()
		return ErrWrongState
	}
	f.mu.Unlock()

	questions, err := f.backend.Questions(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Answering
	f.current = 0
	if err != nil {
		f.logger.Error("fetching assessment questions", "error", err)
		f.questions = nil
		f.answers = nil
		return fmt.Errorf("fetching questions: %w", err)
	}
	f.questions = questions
	f.answers = make([]*api.Answer, len(questions))
	return nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Questions returns the loaded question set.
func (f *Flow) Questions() []api.Question {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Question, len(f.questions))
	copy(out, f.questions)
	return out
}

// Current returns the index and question being answered. ok is false when
// there are no questions.
func (f *Flow) Current() (index int, q api.Question, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.questions) == 0 {
		return 0, api.Question{}, false
	}
	return f.current, f.questions[f.current], true
}

// Answer records option for the current question, replacing an earlier choice.
func (f *Flow) Answer(option int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Answering {
		return ErrWrongState
	}
	if len(f.questions) == 0 {
		return ErrNoQuestions
	}
	q := f.questions[f.current]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d (question %d has %d options)", ErrInvalidOption, option, q.ID, len(q.Options))
	}
	f.answers[f.current] = &api.Answer{QuestionID: q.ID, SelectedOption: option}
	return nil
}

// Selected returns the recorded option for question index i, or -1.
func (f *Flow) Selected(i int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.answers) || f.answers[i] == nil {
		return -1
	}
	return f.answers[i].SelectedOption
}

// Next advances to the following question. It is a no-op on the last one.
func (f *Flow) Next() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current < len(f.questions)-1 {
		f.current++
		return true
	}
	return false
}

// Previous steps back one question. It is a no-op on the first one.
func (f *Flow) Previous() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current > 0 {
		f.current--
		return true
	}
	return false
}

// Answered reports how many questions have an answer.
func (f *Flow) Answered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answeredLocked()
}

func (f *Flow) answeredLocked() int {
	n := 0
	for _, a := range f.answers {
		if a != nil {
			n++
		}
	}
	return n
}

// Submit posts all answers in question order. It refuses unless every question
// has an answer; on API failure the flow returns to Answering.
func (f *Flow) Submit(ctx context.Context) (api.Results, error) {
	f.mu.Lock()
	if f.state != Answering {
		f.mu.Unlock()
		return api.Results{}, ErrWrongState
	}
	if len(f.questions) == 0 {
		f.mu.Unlock()
		return api.Results{}, ErrNoQuestions
	}
	if f.answeredLocked() != len(f.questions) {
		f.mu.Unlock()
		return api.Results{}, ErrIncomplete
	}
	answers := make([]api.Answer, len(f.answers))
	for i, a := range f.answers {
		answers[i] = *a
	}
	f.state = Submitting
	f.mu.Unlock()

	results, err := f.backend.SubmitAssessment(ctx, answers)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.logger.Error("submitting assessment", "error", err)
		f.state = Answering
		return api.Results{}, fmt.Errorf("submitting assessment: %w", err)
	}
	f.results = &results
	f.state = Completed
	return results, nil
}

// Answers returns the recorded answers in question order, skipping gaps.
func (f *Flow) Answers() []api.Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []api.Answer
	for _, a := range f.answers {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// Results returns the submitted results once the flow is complete.
func (f *Flow) Results() (api.Results, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.results == nil {
		return api.Results{}, false
	}
	return *f.results, true
}
