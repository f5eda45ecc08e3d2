package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func validSyncRequest() SyncRequest {
	return SyncRequest{
		Title:           "Examen de Residencia 2026",
		ApplicationDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		Status:          model.ExamStatusActive,
	}
}

func TestBuildSyncPlanClassifiesNodes(t *testing.T) {
	req := validSyncRequest()
	req.Stations = []StationInput{
		{
			ID:    uintPtr(10),
			Title: "Vía aérea",
			Questions: []QuestionInput{
				{
					ID:          uintPtr(100),
					Text:        "Intubación correcta",
					Type:        model.QuestionTypeListing,
					ScoreWeight: 2,
				},
				{
					Text:        "Describe el procedimiento",
					Type:        model.QuestionTypeFreeText,
					ScoreWeight: 3,
				},
			},
		},
		{
			Title: "Reanimación",
			Questions: []QuestionInput{
				{
					Text:        "Secuencia RCP",
					Type:        model.QuestionTypeSingleChoice,
					ScoreWeight: 1,
					Options: []OptionInput{
						{Text: "CAB", IsCorrect: true},
						{Text: "ABC"},
					},
				},
			},
		},
	}
	req.RemovedQuestionIDs = []uint{55, 55}

	plan, err := BuildSyncPlan(&req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Stations) != 2 {
		t.Fatalf("stations = %d, want 2", len(plan.Stations))
	}
	if plan.Stations[0].Kind != ChangeExisting || plan.Stations[0].ID != 10 {
		t.Errorf("station 0 = %+v, want existing id 10", plan.Stations[0])
	}
	if plan.Stations[1].Kind != ChangeNew {
		t.Errorf("station 1 kind = %q, want new", plan.Stations[1].Kind)
	}

	if len(plan.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(plan.Questions))
	}
	if plan.Questions[0].Kind != ChangeExisting || plan.Questions[0].Station != 0 {
		t.Errorf("question 0 = %+v, want existing under station index 0", plan.Questions[0])
	}
	if plan.Questions[1].Kind != ChangeNew || plan.Questions[1].Station != 0 {
		t.Errorf("question 1 = %+v, want new under station index 0", plan.Questions[1])
	}
	if plan.Questions[2].Station != 1 {
		t.Errorf("question 2 parent = %d, want station index 1", plan.Questions[2].Station)
	}

	if len(plan.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(plan.Options))
	}
	for i, o := range plan.Options {
		if o.Kind != ChangeNew || o.Question != 2 {
			t.Errorf("option %d = %+v, want new under question index 2", i, o)
		}
	}

	if len(plan.RemovedQuestionIDs) != 1 || plan.RemovedQuestionIDs[0] != 55 {
		t.Errorf("removed questions = %v, want deduplicated [55]", plan.RemovedQuestionIDs)
	}
}

func TestBuildSyncPlanDefaultsStatus(t *testing.T) {
	req := validSyncRequest()
	req.Status = ""

	plan, err := BuildSyncPlan(&req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != model.ExamStatusActive {
		t.Errorf("status = %q, want %q", plan.Status, model.ExamStatusActive)
	}
}

func TestBuildSyncPlanValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *SyncRequest)
		wantField string
	}{
		{
			name:      "missing title",
			mutate:    func(r *SyncRequest) { r.Title = "" },
			wantField: "title",
		},
		{
			name:      "missing application date",
			mutate:    func(r *SyncRequest) { r.ApplicationDate = time.Time{} },
			wantField: "applicationDate",
		},
		{
			name:      "unknown status",
			mutate:    func(r *SyncRequest) { r.Status = "archived" },
			wantField: "status",
		},
		{
			name: "station without title",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{Title: ""}}
			},
			wantField: "stations[0].title",
		},
		{
			name: "station both in graph and removed",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{ID: uintPtr(10), Title: "A"}}
				r.RemovedStationIDs = []uint{10}
			},
			wantField: "stations[0].id",
		},
		{
			name: "new station carrying an existing question",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					Title: "A",
					Questions: []QuestionInput{
						{ID: uintPtr(5), Text: "q", Type: model.QuestionTypeFreeText},
					},
				}}
			},
			wantField: "stations[0].questions[0].id",
		},
		{
			name: "question both in graph and removed",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					ID:    uintPtr(10),
					Title: "A",
					Questions: []QuestionInput{
						{ID: uintPtr(5), Text: "q", Type: model.QuestionTypeFreeText},
					},
				}}
				r.RemovedQuestionIDs = []uint{5}
			},
			wantField: "stations[0].questions[0].id",
		},
		{
			name: "unknown question type",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					Title:     "A",
					Questions: []QuestionInput{{Text: "q", Type: "essay"}},
				}}
			},
			wantField: "stations[0].questions[0].type",
		},
		{
			name: "negative score weight",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					Title: "A",
					Questions: []QuestionInput{
						{Text: "q", Type: model.QuestionTypeFreeText, ScoreWeight: -1},
					},
				}}
			},
			wantField: "stations[0].questions[0].scoreWeight",
		},
		{
			name: "min above max",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					Title: "A",
					Questions: []QuestionInput{{
						Text:     "q",
						Type:     model.QuestionTypeNumericScale,
						MinValue: floatPtr(5),
						MaxValue: floatPtr(1),
					}},
				}}
			},
			wantField: "stations[0].questions[0].minValue",
		},
		{
			name: "single choice with two correct options",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					Title: "A",
					Questions: []QuestionInput{{
						Text: "q",
						Type: model.QuestionTypeSingleChoice,
						Options: []OptionInput{
							{Text: "x", IsCorrect: true},
							{Text: "y", IsCorrect: true},
						},
					}},
				}}
			},
			wantField: "stations[0].questions[0].options",
		},
		{
			name: "new single choice without options",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					Title: "A",
					Questions: []QuestionInput{
						{Text: "q", Type: model.QuestionTypeSingleChoice},
					},
				}}
			},
			wantField: "stations[0].questions[0].options",
		},
		{
			name: "option without text",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					Title: "A",
					Questions: []QuestionInput{{
						Text:    "q",
						Type:    model.QuestionTypeMultiChoice,
						Options: []OptionInput{{Text: ""}},
					}},
				}}
			},
			wantField: "stations[0].questions[0].options[0].text",
		},
		{
			name: "new question carrying an existing option",
			mutate: func(r *SyncRequest) {
				r.Stations = []StationInput{{
					ID:    uintPtr(10),
					Title: "A",
					Questions: []QuestionInput{{
						Text:    "q",
						Type:    model.QuestionTypeMultiChoice,
						Options: []OptionInput{{ID: uintPtr(3), Text: "x"}},
					}},
				}}
			},
			wantField: "stations[0].questions[0].options[0].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSyncRequest()
			tt.mutate(&req)

			_, err := BuildSyncPlan(&req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestBuildSyncPlanIsPure(t *testing.T) {
	req := validSyncRequest()
	req.EvaluatorIDs = []uint{4, 4, 0, 9}

	plan, err := BuildSyncPlan(&req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.EvaluatorIDs) != 2 {
		t.Errorf("evaluators = %v, want deduplicated [4 9]", plan.EvaluatorIDs)
	}
	if len(req.EvaluatorIDs) != 4 {
		t.Errorf("request mutated: %v", req.EvaluatorIDs)
	}
}

func TestValidationErrorMessageNamesTheField(t *testing.T) {
	req := validSyncRequest()
	req.Title = ""

	_, err := BuildSyncPlan(&req)
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Errorf("error %q should mention the offending field", err)
	}
}
