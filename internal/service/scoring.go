package service

import (
	"fmt"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
)

// PartialCredit is the fraction of a question's weight earned by a
// "partially" response on listing questions. Fixed business rule.
const PartialCredit = 0.5

const (
	ListingAnswerYes       = "yes"
	ListingAnswerPartially = "partially"
	ListingAnswerNo        = "no"
)

// AnswerSubmission is a single response to a question within a session.
// AwardedScore is the evaluator's override, used only for free-text and
// numeric-scale questions, which are not auto-scored.
type AnswerSubmission struct {
	QuestionID        uint     `json:"questionId" binding:"required"`
	TextValue         string   `json:"textValue"`
	SelectedOptionIDs []uint   `json:"selectedOptionIds"`
	ScaleValue        *float64 `json:"scaleValue,omitempty"`
	AwardedScore      *float64 `json:"awardedScore,omitempty"`
	Comment           string   `json:"comment"`
}

// Empty reports whether the submission carries no response payload. Empty
// answers never satisfy a required question's completion gate.
func (a *AnswerSubmission) Empty() bool {
	return a.TextValue == "" && len(a.SelectedOptionIDs) == 0 && a.ScaleValue == nil && a.AwardedScore == nil
}

// ScoreAnswer computes the credit a submission earns on a question. The
// question must carry its options for choice types.
func ScoreAnswer(q *model.Question, sub *AnswerSubmission) (float64, error) {
	switch q.Type {
	case model.QuestionTypeListing:
		return scoreListing(q, sub)
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultiChoice:
		return scoreChoice(q, sub)
	case model.QuestionTypeFreeText, model.QuestionTypeNumericScale:
		return scoreOverride(q, sub)
	default:
		return 0, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown question type %q", q.Type)}
	}
}

func scoreListing(q *model.Question, sub *AnswerSubmission) (float64, error) {
	switch sub.TextValue {
	case ListingAnswerYes:
		return q.ScoreWeight, nil
	case ListingAnswerPartially:
		return q.ScoreWeight * PartialCredit, nil
	case ListingAnswerNo, "":
		return 0, nil
	default:
		return 0, &ValidationError{
			Field:  "textValue",
			Reason: fmt.Sprintf("listing answers must be %q, %q or %q", ListingAnswerYes, ListingAnswerPartially, ListingAnswerNo),
		}
	}
}

// scoreChoice awards the full weight only when the selected set exactly
// matches the correct set. There is no partial credit across options.
func scoreChoice(q *model.Question, sub *AnswerSubmission) (float64, error) {
	if q.Type == model.QuestionTypeSingleChoice && len(sub.SelectedOptionIDs) > 1 {
		return 0, &ValidationError{Field: "selectedOptionIds", Reason: "single-choice questions accept one selection"}
	}

	valid := make(map[uint]bool, len(q.Options))
	correct := make(map[uint]bool)
	for _, o := range q.Options {
		valid[o.ID] = true
		if o.IsCorrect {
			correct[o.ID] = true
		}
	}

	selected := make(map[uint]bool, len(sub.SelectedOptionIDs))
	for _, id := range sub.SelectedOptionIDs {
		if !valid[id] {
			return 0, &ValidationError{Field: "selectedOptionIds", Reason: fmt.Sprintf("option %d does not belong to the question", id)}
		}
		selected[id] = true
	}

	if len(selected) != len(correct) {
		return 0, nil
	}
	for id := range correct {
		if !selected[id] {
			return 0, nil
		}
	}
	return q.ScoreWeight, nil
}

func scoreOverride(q *model.Question, sub *AnswerSubmission) (float64, error) {
	if q.Type == model.QuestionTypeNumericScale && sub.ScaleValue != nil {
		if q.MinValue != nil && *sub.ScaleValue < *q.MinValue {
			return 0, &ValidationError{Field: "scaleValue", Reason: "below the question's minimum"}
		}
		if q.MaxValue != nil && *sub.ScaleValue > *q.MaxValue {
			return 0, &ValidationError{Field: "scaleValue", Reason: "above the question's maximum"}
		}
	}

	if sub.AwardedScore == nil {
		return 0, nil
	}
	if *sub.AwardedScore < 0 || *sub.AwardedScore > q.ScoreWeight {
		return 0, &ValidationError{
			Field:  "awardedScore",
			Reason: fmt.Sprintf("must be between 0 and the question's weight (%g)", q.ScoreWeight),
		}
	}
	return *sub.AwardedScore, nil
}

// ClampStationScore bounds a station's aggregate to [0, maxScore].
func ClampStationScore(sum, maxScore float64) float64 {
	if sum < 0 {
		return 0
	}
	if maxScore > 0 && sum > maxScore {
		return maxScore
	}
	return sum
}

// OverallGrade is the arithmetic mean of the station result scores.
func OverallGrade(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
