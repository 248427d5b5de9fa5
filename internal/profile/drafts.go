package profile

import (
	"context"

	"github.com/kalambet/careernav/internal/api"
)

const FieldCareerGoals = "career_goals"

// DraftStore defines the storage operations DraftSaver needs.
// Implemented by storage.Store.
type DraftStore interface {
	SetProfileDraft(userID int, field, value string) error
	GetProfileDrafts(userID int) (map[string]string, error)
}

// DraftSaver keeps UserID's edits in the local store until the API can
// accept them.
type DraftSaver struct {
	Store  DraftStore
	UserID int
}

func (d DraftSaver) SaveCareerGoals(_ context.Context, value string) error {
	return d.Store.SetProfileDraft(d.UserID, FieldCareerGoals, value)
}

// ApplyDrafts overlays locally pending edits on a fetched profile.
func ApplyDrafts(u api.User, drafts map[string]string) api.User {
	if v, ok := drafts[FieldCareerGoals]; ok {
		u.CareerGoals = v
	}
	return u
}
