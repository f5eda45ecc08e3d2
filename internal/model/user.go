package model

type UserRole string

const (
	Admin     UserRole = "admin"
	Evaluator UserRole = "evaluator"
	Student   UserRole = "student"
)

type User struct {
	BaseModel

	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:255" json:"-"`
	Role     UserRole `gorm:"size:20;default:'evaluator'" json:"role"`
	Active   bool     `gorm:"default:true" json:"active"`
}

func (User) TableName() string {
	return "users"
}
