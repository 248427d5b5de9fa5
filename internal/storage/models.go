package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kalambet/careernav/internal/api"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// AssessmentResult is one completed assessment kept in local history.
type AssessmentResult struct {
	ID                  string
	UserID              int
	CreatedAt           time.Time
	LearningStyle       string
	SkillLevel          string
	RecommendedApproach string
	AnswersJSON         string // JSON array of api.Answer
	ResultsJSON         string // full api.Results document
}

// NewAssessmentResult snapshots a submitted assessment for the history table.
func NewAssessmentResult(userID int, answers []api.Answer, results api.Results, at time.Time) (AssessmentResult, error) {
	a, err := json.Marshal(answers)
	if err != nil {
		return AssessmentResult{}, fmt.Errorf("marshalling answers: %w", err)
	}
	r, err := json.Marshal(results)
	if err != nil {
		return AssessmentResult{}, fmt.Errorf("marshalling results: %w", err)
	}
	return AssessmentResult{
		UserID:              userID,
		CreatedAt:           at,
		LearningStyle:       results.LearningStyle,
		SkillLevel:          results.SkillLevel,
		RecommendedApproach: results.Approach(),
		AnswersJSON:         string(a),
		ResultsJSON:         string(r),
	}, nil
}

// Results decodes the stored results document.
func (r AssessmentResult) Results() (api.Results, error) {
	var out api.Results
	if err := json.Unmarshal([]byte(r.ResultsJSON), &out); err != nil {
		return api.Results{}, fmt.Errorf("decoding results %s: %w", r.ID, err)
	}
	return out, nil
}
