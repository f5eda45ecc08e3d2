package model

import "time"

const (
	ExamStatusActive    = "active"
	ExamStatusInactive  = "inactive"
	ExamStatusCompleted = "completed"
	ExamStatusCancelled = "cancelled"
)

type Exam struct {
	BaseModel

	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	ApplicationDate time.Time `json:"applicationDate"`
	Status          string    `gorm:"size:20;default:'active'" json:"status"`
	HospitalID      *uint     `gorm:"index;type:bigint unsigned" json:"hospitalId,omitempty"`

	// Revision is the optimistic token checked by structure synchronization.
	// Every committed structural change increments it.
	Revision uint `gorm:"default:1" json:"revision"`

	Stations []Station `gorm:"foreignKey:ExamID" json:"stations,omitempty"`

	// EvaluatorIDs is filled by the graph projection from the join table.
	EvaluatorIDs []uint `gorm:"-" json:"evaluatorIds,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamEvaluator links an exam with an assigned evaluator.
type ExamEvaluator struct {
	BaseModel
	ExamID      uint `gorm:"index:idx_exam_evaluator,unique;type:bigint unsigned" json:"examId"`
	EvaluatorID uint `gorm:"index:idx_exam_evaluator,unique;type:bigint unsigned" json:"evaluatorId"`
}

func (ExamEvaluator) TableName() string {
	return "exam_evaluators"
}
