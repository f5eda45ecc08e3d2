package service

import (
	"fmt"
	"time"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
)

// ChangeKind tags every node of a submitted exam graph. The tag is assigned
// while building the plan, never inferred later from the shape of an ID.
type ChangeKind string

const (
	ChangeNew      ChangeKind = "new"
	ChangeExisting ChangeKind = "existing"
	ChangeRemoved  ChangeKind = "removed"
)

// SyncRequest is the wire shape of a full-graph exam edit. A node without an
// id is new; nodes listed in the removed*Ids arrays are removed; everything
// else is an existing node with possibly changed fields.
type SyncRequest struct {
	Title           string         `json:"title" binding:"required"`
	Description     string         `json:"description"`
	ApplicationDate time.Time      `json:"applicationDate"`
	Status          string         `json:"status"`
	Revision        uint           `json:"revision"`
	EvaluatorIDs    []uint         `json:"evaluatorIds"`
	Stations        []StationInput `json:"stations"`

	RemovedStationIDs  []uint `json:"removedStationIds"`
	RemovedQuestionIDs []uint `json:"removedQuestionIds"`
	RemovedOptionIDs   []uint `json:"removedOptionIds"`
}

type StationInput struct {
	ID              *uint           `json:"id,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"durationMinutes"`
	Order           int             `json:"order"`
	Active          bool            `json:"active"`
	Questions       []QuestionInput `json:"questions"`
}

type QuestionInput struct {
	ID          *uint         `json:"id,omitempty"`
	Text        string        `json:"text"`
	Type        string        `json:"type"`
	Required    bool          `json:"required"`
	Order       int           `json:"order"`
	ScoreWeight float64       `json:"scoreWeight"`
	MinValue    *float64      `json:"minValue,omitempty"`
	MaxValue    *float64      `json:"maxValue,omitempty"`
	Options     []OptionInput `json:"options"`
}

type OptionInput struct {
	ID        *uint  `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order"`
}

// SyncPlan is the reconciliation input in arena form: flat node tables with
// parent references instead of a mutable nested tree. New parents are
// addressed by their index in the arena, existing ones by stored identity.
type SyncPlan struct {
	Title           string
	Description     string
	ApplicationDate time.Time
	Status          string
	Revision        uint
	EvaluatorIDs    []uint

	Stations  []StationNode
	Questions []QuestionNode
	Options   []OptionNode

	RemovedStationIDs  []uint
	RemovedQuestionIDs []uint
	RemovedOptionIDs   []uint
}

type StationNode struct {
	Kind            ChangeKind
	ID              uint // stored identity, set when Kind == ChangeExisting
	Title           string
	Description     string
	DurationMinutes int
	Order           int
	Active          bool
}

type QuestionNode struct {
	Kind        ChangeKind
	ID          uint
	Station     int // index into SyncPlan.Stations
	Text        string
	Type        string
	Required    bool
	Order       int
	ScoreWeight float64
	MinValue    *float64
	MaxValue    *float64
}

type OptionNode struct {
	Kind      ChangeKind
	ID        uint
	Question  int // index into SyncPlan.Questions
	Text      string
	IsCorrect bool
	Order     int
}

var validQuestionTypes = map[string]bool{
	model.QuestionTypeFreeText:     true,
	model.QuestionTypeSingleChoice: true,
	model.QuestionTypeMultiChoice:  true,
	model.QuestionTypeListing:      true,
	model.QuestionTypeNumericScale: true,
}

var validExamStatuses = map[string]bool{
	model.ExamStatusActive:    true,
	model.ExamStatusInactive:  true,
	model.ExamStatusCompleted: true,
	model.ExamStatusCancelled: true,
}

// BuildSyncPlan classifies every node of the request as new, existing or
// removed and validates the graph. It is pure: any ValidationError it returns
// is raised before a single row has been touched.
func BuildSyncPlan(req *SyncRequest) (*SyncPlan, error) {
	if req.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "required"}
	}
	if req.ApplicationDate.IsZero() {
		return nil, &ValidationError{Field: "applicationDate", Reason: "required"}
	}
	status := req.Status
	if status == "" {
		status = model.ExamStatusActive
	}
	if !validExamStatuses[status] {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", req.Status)}
	}

	removedStations := toIDSet(req.RemovedStationIDs)
	removedQuestions := toIDSet(req.RemovedQuestionIDs)
	removedOptions := toIDSet(req.RemovedOptionIDs)

	plan := &SyncPlan{
		Title:              req.Title,
		Description:        req.Description,
		ApplicationDate:    req.ApplicationDate,
		Status:             status,
		Revision:           req.Revision,
		EvaluatorIDs:       dedupeIDs(req.EvaluatorIDs),
		RemovedStationIDs:  dedupeIDs(req.RemovedStationIDs),
		RemovedQuestionIDs: dedupeIDs(req.RemovedQuestionIDs),
		RemovedOptionIDs:   dedupeIDs(req.RemovedOptionIDs),
	}

	for si, st := range req.Stations {
		field := fmt.Sprintf("stations[%d]", si)
		if st.Title == "" {
			return nil, &ValidationError{Field: field + ".title", Reason: "required"}
		}
		node := StationNode{
			Kind:            ChangeNew,
			Title:           st.Title,
			Description:     st.Description,
			DurationMinutes: st.DurationMinutes,
			Order:           st.Order,
			Active:          st.Active,
		}
		if st.ID != nil && *st.ID != 0 {
			if removedStations[*st.ID] {
				return nil, &ValidationError{Field: field + ".id", Reason: "station appears both in the graph and in removedStationIds"}
			}
			node.Kind = ChangeExisting
			node.ID = *st.ID
		}
		plan.Stations = append(plan.Stations, node)
		stationIdx := len(plan.Stations) - 1

		for qi, q := range st.Questions {
			qfield := fmt.Sprintf("%s.questions[%d]", field, qi)
			if q.Text == "" {
				return nil, &ValidationError{Field: qfield + ".text", Reason: "required"}
			}
			if !validQuestionTypes[q.Type] {
				return nil, &ValidationError{Field: qfield + ".type", Reason: fmt.Sprintf("unknown question type %q", q.Type)}
			}
			if q.ScoreWeight < 0 {
				return nil, &ValidationError{Field: qfield + ".scoreWeight", Reason: "must not be negative"}
			}
			if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
				return nil, &ValidationError{Field: qfield + ".minValue", Reason: "minValue exceeds maxValue"}
			}
			qnode := QuestionNode{
				Kind:        ChangeNew,
				Station:     stationIdx,
				Text:        q.Text,
				Type:        q.Type,
				Required:    q.Required,
				Order:       q.Order,
				ScoreWeight: q.ScoreWeight,
				MinValue:    q.MinValue,
				MaxValue:    q.MaxValue,
			}
			if q.ID != nil && *q.ID != 0 {
				if node.Kind == ChangeNew {
					return nil, &ValidationError{Field: qfield + ".id", Reason: "a new station cannot contain an existing question"}
				}
				if removedQuestions[*q.ID] {
					return nil, &ValidationError{Field: qfield + ".id", Reason: "question appears both in the graph and in removedQuestionIds"}
				}
				qnode.Kind = ChangeExisting
				qnode.ID = *q.ID
			}
			plan.Questions = append(plan.Questions, qnode)
			questionIdx := len(plan.Questions) - 1

			correctCount := 0
			for oi, o := range q.Options {
				ofield := fmt.Sprintf("%s.options[%d]", qfield, oi)
				if o.Text == "" {
					return nil, &ValidationError{Field: ofield + ".text", Reason: "required"}
				}
				onode := OptionNode{
					Kind:      ChangeNew,
					Question:  questionIdx,
					Text:      o.Text,
					IsCorrect: o.IsCorrect,
					Order:     o.Order,
				}
				if o.ID != nil && *o.ID != 0 {
					if qnode.Kind == ChangeNew {
						return nil, &ValidationError{Field: ofield + ".id", Reason: "a new question cannot contain an existing option"}
					}
					if removedOptions[*o.ID] {
						return nil, &ValidationError{Field: ofield + ".id", Reason: "option appears both in the graph and in removedOptionIds"}
					}
					onode.Kind = ChangeExisting
					onode.ID = *o.ID
				}
				if o.IsCorrect {
					correctCount++
				}
				plan.Options = append(plan.Options, onode)
			}

			switch q.Type {
			case model.QuestionTypeSingleChoice:
				if correctCount > 1 {
					return nil, &ValidationError{Field: qfield + ".options", Reason: "a single-choice question allows at most one correct option"}
				}
				if len(q.Options) == 0 && qnode.Kind == ChangeNew {
					return nil, &ValidationError{Field: qfield + ".options", Reason: "choice questions need at least one option"}
				}
			case model.QuestionTypeMultiChoice, model.QuestionTypeListing:
				if len(q.Options) == 0 && qnode.Kind == ChangeNew && q.Type == model.QuestionTypeMultiChoice {
					return nil, &ValidationError{Field: qfield + ".options", Reason: "choice questions need at least one option"}
				}
			}
		}
	}

	return plan, nil
}

func toIDSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if id != 0 {
			set[id] = true
		}
	}
	return set
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
