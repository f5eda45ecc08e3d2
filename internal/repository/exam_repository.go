package repository

import (
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.DB.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

// FindGraphByID loads the full exam tree with stations, questions and options
// in their declared order.
func (r *ExamRepository) FindGraphByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.
		Preload("Stations", func(db *gorm.DB) *gorm.DB {
			return db.Order("stations.`order` asc")
		}).
		Preload("Stations.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.`order` asc")
		}).
		Preload("Stations.Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.`order` asc")
		}).
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}

	evaluatorIDs, err := r.EvaluatorIDs(id)
	if err != nil {
		return nil, err
	}
	exam.EvaluatorIDs = evaluatorIDs
	return &exam, nil
}

func (r *ExamRepository) EvaluatorIDs(examID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.ExamEvaluator{}).Where("exam_id = ?", examID).Pluck("evaluator_id", &ids).Error
	return ids, err
}

func (r *ExamRepository) StationsByExam(examID uint) ([]model.Station, error) {
	var stations []model.Station
	err := r.DB.Where("exam_id = ?", examID).Order("`order` asc").Find(&stations).Error
	return stations, err
}

func (r *ExamRepository) QuestionsByStation(stationID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("station_id = ?", stationID).Order("`order` asc").Find(&qs).Error
	return qs, err
}

func (r *ExamRepository) FindQuestionWithOptions(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.`order` asc")
	}).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *ExamRepository) FindStationByID(id uint) (*model.Station, error) {
	var st model.Station
	if err := r.DB.First(&st, id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}
