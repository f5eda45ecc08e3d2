package model

import "time"

const (
	SessionStatusPending    = "pending"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
)

// ExamSession is one student's attempt at one exam, graded by one evaluator.
type ExamSession struct {
	BaseModel

	ExamID      uint `gorm:"index:idx_exam_student,unique;type:bigint unsigned" json:"examId"`
	StudentID   uint `gorm:"index:idx_exam_student,unique;type:bigint unsigned" json:"studentId"`
	EvaluatorID uint `gorm:"index;type:bigint unsigned" json:"evaluatorId"`

	Status       string     `gorm:"size:20;default:'pending'" json:"status"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
	OverallGrade *float64   `json:"overallGrade,omitempty"`
	Observations string     `gorm:"type:text" json:"observations"`
}

func (ExamSession) TableName() string {
	return "exam_sessions"
}
