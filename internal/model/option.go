package model

type Option struct {
	BaseModel

	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"` // meaningful for choice types only
	Order      int    `gorm:"default:0" json:"order"`
}

func (Option) TableName() string {
	return "options"
}
