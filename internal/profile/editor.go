package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kalambet/careernav/internal/api"
)

var ErrNotEditing = errors.New("profile is not in edit mode")

type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "edit"
	}
	return "read"
}

// Saver persists an edited career goals value. The API has no profile write
// endpoint, so this is supplied by the caller.
type Saver interface {
	SaveCareerGoals(ctx context.Context, value string) error
}

// Editor toggles the career goals field between read and edit views.
type Editor struct {
	saver Saver

	mu      sync.Mutex
	profile api.User
	mode    Mode
	draft   string
}

func NewEditor(user api.User, saver Saver) *Editor {
	return &Editor{saver: saver, profile: user}
}

func (e *Editor) Profile() api.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// BeginEdit enters edit mode with the draft seeded from the current value.
// Calling it while already editing keeps the existing draft.
func (e *Editor) BeginEdit() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Editing {
		e.mode = Editing
		e.draft = e.profile.CareerGoals
	}
	return e.draft
}

func (e *Editor) SetDraft(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Editing {
		return ErrNotEditing
	}
	e.draft = value
	return nil
}

func (e *Editor) Draft() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Cancel drops the draft and returns to read mode.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = Viewing
	e.draft = ""
}

// Save applies the draft locally, returns to read mode and hands the value to
// the Saver. If the Saver fails the previous value and edit mode are restored.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.mode != Editing {
		e.mu.Unlock()
		return ErrNotEditing
	}
	prev := e.profile.CareerGoals
	value := e.draft
	e.profile.CareerGoals = value
	e.mode = Viewing
	e.mu.Unlock()

	if err := e.saver.SaveCareerGoals(ctx, value); err != nil {
		e.mu.Lock()
		e.profile.CareerGoals = prev
		e.mode = Editing
		e.draft = value
		e.mu.Unlock()
		return fmt.Errorf("saving career goals: %w", err)
	}

	e.mu.Lock()
	e.draft = ""
	e.mu.Unlock()
	return nil
}
