package service

import (
	"context"
	"errors"
	"time"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/repository"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"

	"gorm.io/gorm"
)

// ExamDuplicationService deep-clones exam definitions onto a new application
// date. The clone is insert-only: fresh identities at every level, order and
// flags preserved, evaluator assignments and sessions left behind.
type ExamDuplicationService struct {
	ExamRepo *repository.ExamRepository
	DB       *gorm.DB
}

func NewExamDuplicationService(examRepo *repository.ExamRepository, db *gorm.DB) *ExamDuplicationService {
	return &ExamDuplicationService{ExamRepo: examRepo, DB: db}
}

type DuplicateRequest struct {
	ExamIDs         []uint    `json:"examIds" binding:"required"`
	ApplicationDate time.Time `json:"applicationDate" binding:"required"`
}

// Duplicate clones every requested exam in one transaction; a failure on any
// exam rolls back the whole batch.
func (s *ExamDuplicationService) Duplicate(ctx context.Context, req DuplicateRequest) ([]uint, error) {
	if len(req.ExamIDs) == 0 {
		return nil, &ValidationError{Field: "examIds", Reason: "at least one exam is required"}
	}
	if req.ApplicationDate.IsZero() {
		return nil, &ValidationError{Field: "applicationDate", Reason: "required"}
	}

	examIDs := dedupeIDs(req.ExamIDs)
	newIDs := make([]uint, 0, len(examIDs))

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range examIDs {
			newID, err := s.cloneExam(tx, id, req.ApplicationDate)
			if err != nil {
				return err
			}
			newIDs = append(newIDs, newID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newIDs, nil
}

func (s *ExamDuplicationService) cloneExam(tx *gorm.DB, examID uint, date time.Time) (uint, error) {
	var src model.Exam
	err := tx.
		Preload("Stations", func(db *gorm.DB) *gorm.DB { return db.Order("stations.`order` asc") }).
		Preload("Stations.Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.`order` asc") }).
		Preload("Stations.Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("options.`order` asc") }).
		First(&src, examID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrExamNotFound
		}
		return 0, err
	}

	clone := model.Exam{
		Title:           DuplicateTitle(src.Title, date),
		Description:     src.Description,
		ApplicationDate: date,
		Status:          model.ExamStatusActive,
		HospitalID:      src.HospitalID,
	}
	if err := tx.Create(&clone).Error; err != nil {
		return 0, err
	}

	for _, st := range src.Stations {
		newStation := model.Station{
			ExamID:          clone.ID,
			Title:           st.Title,
			Description:     st.Description,
			DurationMinutes: st.DurationMinutes,
			Order:           st.Order,
			Active:          st.Active,
			MaxScore:        st.MaxScore,
		}
		if err := tx.Create(&newStation).Error; err != nil {
			return 0, err
		}
		for _, q := range st.Questions {
			newQuestion := model.Question{
				StationID:   newStation.ID,
				Text:        q.Text,
				Type:        q.Type,
				Required:    q.Required,
				Order:       q.Order,
				ScoreWeight: q.ScoreWeight,
				MinValue:    q.MinValue,
				MaxValue:    q.MaxValue,
			}
			if err := tx.Create(&newQuestion).Error; err != nil {
				return 0, err
			}
			for _, o := range q.Options {
				newOption := model.Option{
					QuestionID: newQuestion.ID,
					Text:       o.Text,
					IsCorrect:  o.IsCorrect,
					Order:      o.Order,
				}
				if err := tx.Create(&newOption).Error; err != nil {
					return 0, err
				}
			}
		}
	}

	return clone.ID, nil
}

// DuplicateTitle renders the cloned exam's title with the new application
// date appended.
func DuplicateTitle(title string, date time.Time) string {
	return title + " - " + date.Format(util.ApplicationDateFormat)
}
