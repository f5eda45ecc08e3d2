package model

type Station struct {
	BaseModel

	ExamID          uint   `gorm:"index;type:bigint unsigned" json:"examId"`
	Title           string `gorm:"size:255;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	DurationMinutes int    `gorm:"default:0" json:"durationMinutes"`
	Order           int    `gorm:"default:0" json:"order"`
	Active          bool   `gorm:"default:true" json:"active"`

	// MaxScore is derived: sum of the station's questions' score weights.
	// It is recomputed after every structural change, never set by callers.
	MaxScore float64 `gorm:"default:0" json:"maxScore"`

	Questions []Question `gorm:"foreignKey:StationID" json:"questions,omitempty"`
}

func (Station) TableName() string {
	return "stations"
}
