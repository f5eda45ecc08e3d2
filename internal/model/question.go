package model

const (
	QuestionTypeFreeText     = "free_text"
	QuestionTypeSingleChoice = "single_choice"
	QuestionTypeMultiChoice  = "multi_choice"
	QuestionTypeListing      = "listing"
	QuestionTypeNumericScale = "numeric_scale"
)

type Question struct {
	BaseModel

	StationID   uint     `gorm:"index;type:bigint unsigned" json:"stationId"`
	Text        string   `gorm:"type:text;not null" json:"text"`
	Type        string   `gorm:"size:50;not null" json:"type"`
	Required    bool     `gorm:"default:false" json:"required"`
	Order       int      `gorm:"default:0" json:"order"`
	ScoreWeight float64  `gorm:"default:0" json:"scoreWeight"`
	MinValue    *float64 `json:"minValue,omitempty"`
	MaxValue    *float64 `json:"maxValue,omitempty"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// HasOptions reports whether the question type carries selectable options.
func (q *Question) HasOptions() bool {
	switch q.Type {
	case QuestionTypeSingleChoice, QuestionTypeMultiChoice, QuestionTypeListing:
		return true
	}
	return false
}
