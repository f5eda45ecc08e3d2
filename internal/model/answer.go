package model

import "encoding/json"

// Answer stores a session's response to a single question. The (session, question)
// pair is unique; re-submissions upsert the same row. Answers are evidence: they
// are never deleted, and the deletion guards in the sync engine depend on that.
type Answer struct {
	UUIDBase

	SessionID  uint `gorm:"index:idx_session_question,unique;type:bigint unsigned" json:"sessionId"`
	QuestionID uint `gorm:"index:idx_session_question,unique;type:bigint unsigned" json:"questionId"`

	TextValue         string          `gorm:"type:text" json:"textValue"`
	SelectedOptionIDs json.RawMessage `gorm:"type:json" json:"selectedOptionIds,omitempty"`
	ScaleValue        *float64        `json:"scaleValue,omitempty"`

	AwardedScore float64 `gorm:"default:0" json:"awardedScore"`
	Comment      string  `gorm:"type:text" json:"comment"`
}

func (Answer) TableName() string {
	return "answers"
}
