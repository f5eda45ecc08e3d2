package repository

import (
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.ExamSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) Update(session *model.ExamSession) error {
	return r.DB.Save(session).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.ExamSession, error) {
	var s model.ExamSession
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) AnswersBySession(sessionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}

func (r *SessionRepository) AnswersByQuestions(sessionID uint, questionIDs []uint) ([]model.Answer, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var answers []model.Answer
	err := r.DB.Where("session_id = ? AND question_id IN ?", sessionID, questionIDs).Find(&answers).Error
	return answers, err
}

func (r *SessionRepository) StationResultsBySession(sessionID uint) ([]model.StationResult, error) {
	var results []model.StationResult
	err := r.DB.Where("session_id = ?", sessionID).Find(&results).Error
	return results, err
}
