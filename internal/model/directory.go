package model

// Directory entities referenced by exams and sessions. They are maintained by
// external collaborators; this service only reads them.

type Hospital struct {
	BaseModel
	Name    string `gorm:"size:255;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

type StudentGroup struct {
	BaseModel
	Name string `gorm:"size:255;not null" json:"name"`
}

func (StudentGroup) TableName() string {
	return "student_groups"
}

type EvaluatorProfile struct {
	BaseModel
	UserID     uint  `gorm:"index;type:bigint unsigned" json:"userId"`
	HospitalID *uint `gorm:"index;type:bigint unsigned" json:"hospitalId,omitempty"`
}

func (EvaluatorProfile) TableName() string {
	return "evaluators"
}

type StudentProfile struct {
	BaseModel
	UserID  uint  `gorm:"index;type:bigint unsigned" json:"userId"`
	GroupID *uint `gorm:"index;type:bigint unsigned" json:"groupId,omitempty"`
}

func (StudentProfile) TableName() string {
	return "students"
}
