package service

import (
	"context"
	"errors"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/repository"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/monitoring"

	"gorm.io/gorm"
)

// ExamSyncService reconciles a submitted exam graph against stored state.
// Every call runs as one transaction: either the whole desired graph is
// persisted or nothing changes.
type ExamSyncService struct {
	ExamRepo *repository.ExamRepository
	Query    *ExamQueryService
	DB       *gorm.DB
}

func NewExamSyncService(examRepo *repository.ExamRepository, query *ExamQueryService, db *gorm.DB) *ExamSyncService {
	return &ExamSyncService{ExamRepo: examRepo, Query: query, DB: db}
}

func (s *ExamSyncService) Synchronize(ctx context.Context, examID uint, req SyncRequest) (*model.Exam, error) {
	plan, err := BuildSyncPlan(&req)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var exam model.Exam
		if err := tx.First(&exam, examID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrExamNotFound
			}
			return err
		}

		if plan.Revision != 0 && plan.Revision != exam.Revision {
			return &ConflictError{Resource: "exam", Reason: "revision is stale, reload the exam and retry"}
		}

		if err := s.verifyRemovalOwnership(tx, examID, plan); err != nil {
			return err
		}
		removedQuestionIDs, touchedByRemoval, err := s.expandRemovals(tx, examID, plan)
		if err != nil {
			return err
		}
		if err := s.checkDeletionGuards(tx, plan.RemovedStationIDs, removedQuestionIDs); err != nil {
			return err
		}

		exam.Title = plan.Title
		exam.Description = plan.Description
		exam.ApplicationDate = plan.ApplicationDate
		exam.Status = plan.Status
		exam.Revision++
		if err := tx.Save(&exam).Error; err != nil {
			return err
		}

		if err := s.syncEvaluators(tx, examID, plan.EvaluatorIDs); err != nil {
			return err
		}

		if err := s.applyRemovals(tx, plan, removedQuestionIDs); err != nil {
			return err
		}

		stationIDs, err := s.applyStations(tx, examID, plan)
		if err != nil {
			return err
		}
		questionIDs, err := s.applyQuestions(tx, plan, stationIDs)
		if err != nil {
			return err
		}
		if err := s.applyOptions(tx, plan, questionIDs); err != nil {
			return err
		}

		touched := make(map[uint]bool, len(stationIDs)+len(touchedByRemoval))
		for _, id := range stationIDs {
			touched[id] = true
		}
		for _, id := range touchedByRemoval {
			touched[id] = true
		}
		return s.recomputeMaxScores(tx, touched)
	})
	if err != nil {
		monitoring.SyncRollbacks.WithLabelValues(rollbackCause(err)).Inc()
		return nil, err
	}

	s.Query.InvalidateGraph(ctx, examID)
	return s.ExamRepo.FindGraphByID(examID)
}

func rollbackCause(err error) string {
	var integrity *ReferentialIntegrityError
	var conflict *ConflictError
	switch {
	case errors.As(err, &integrity):
		return "referential_integrity"
	case errors.As(err, &conflict):
		return "conflict"
	case errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrStationNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrOptionNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// verifyRemovalOwnership resolves every removal ID inside the exam's own
// aggregate before anything is deleted. An ID that belongs to another exam,
// or to nothing, is reported as not found.
func (s *ExamSyncService) verifyRemovalOwnership(tx *gorm.DB, examID uint, plan *SyncPlan) error {
	if len(plan.RemovedStationIDs) > 0 {
		var owned []uint
		err := tx.Model(&model.Station{}).
			Where("id IN ? AND exam_id = ?", plan.RemovedStationIDs, examID).
			Pluck("id", &owned).Error
		if err != nil {
			return err
		}
		if len(owned) != len(plan.RemovedStationIDs) {
			return util.ErrStationNotFound
		}
	}

	if len(plan.RemovedQuestionIDs) > 0 {
		var owned []uint
		err := tx.Model(&model.Question{}).
			Joins("JOIN stations ON stations.id = questions.station_id AND stations.deleted_at IS NULL").
			Where("questions.id IN ? AND stations.exam_id = ?", plan.RemovedQuestionIDs, examID).
			Pluck("questions.id", &owned).Error
		if err != nil {
			return err
		}
		if len(owned) != len(plan.RemovedQuestionIDs) {
			return util.ErrQuestionNotFound
		}
	}

	if len(plan.RemovedOptionIDs) > 0 {
		var owned []uint
		err := tx.Model(&model.Option{}).
			Joins("JOIN questions ON questions.id = options.question_id AND questions.deleted_at IS NULL").
			Joins("JOIN stations ON stations.id = questions.station_id AND stations.deleted_at IS NULL").
			Where("options.id IN ? AND stations.exam_id = ?", plan.RemovedOptionIDs, examID).
			Pluck("options.id", &owned).Error
		if err != nil {
			return err
		}
		if len(owned) != len(plan.RemovedOptionIDs) {
			return util.ErrOptionNotFound
		}
	}

	return nil
}

// expandRemovals resolves the removal sets against stored state: questions of
// removed stations are removed with them, and stations losing questions need
// their max_score recomputed even when they stay.
func (s *ExamSyncService) expandRemovals(tx *gorm.DB, examID uint, plan *SyncPlan) (questionIDs []uint, touchedStations []uint, err error) {
	questionIDs = append(questionIDs, plan.RemovedQuestionIDs...)

	if len(plan.RemovedStationIDs) > 0 {
		var ownedQuestionIDs []uint
		err = tx.Model(&model.Question{}).
			Where("station_id IN ?", plan.RemovedStationIDs).
			Pluck("id", &ownedQuestionIDs).Error
		if err != nil {
			return nil, nil, err
		}
		questionIDs = append(questionIDs, ownedQuestionIDs...)
	}

	if len(plan.RemovedQuestionIDs) > 0 {
		err = tx.Model(&model.Question{}).
			Where("id IN ?", plan.RemovedQuestionIDs).
			Distinct().
			Pluck("station_id", &touchedStations).Error
		if err != nil {
			return nil, nil, err
		}
	}

	return dedupeIDs(questionIDs), touchedStations, nil
}

// checkDeletionGuards blocks the removal of any station or question that
// recorded answers or station results still reference. A single blocked
// entity aborts the entire synchronization.
func (s *ExamSyncService) checkDeletionGuards(tx *gorm.DB, stationIDs, questionIDs []uint) error {
	if len(questionIDs) > 0 {
		var blocked []uint
		err := tx.Model(&model.Answer{}).
			Where("question_id IN ?", questionIDs).
			Distinct().
			Pluck("question_id", &blocked).Error
		if err != nil {
			return err
		}
		if len(blocked) > 0 {
			return &ReferentialIntegrityError{Entity: "question", BlockedIDs: blocked}
		}
	}

	if len(stationIDs) > 0 {
		var blocked []uint
		err := tx.Model(&model.StationResult{}).
			Where("station_id IN ?", stationIDs).
			Distinct().
			Pluck("station_id", &blocked).Error
		if err != nil {
			return err
		}
		if len(blocked) > 0 {
			return &ReferentialIntegrityError{Entity: "station", BlockedIDs: blocked}
		}
	}

	return nil
}

// syncEvaluators replaces the exam-evaluator association set by symmetric
// difference: only actual additions and removals touch the join table.
func (s *ExamSyncService) syncEvaluators(tx *gorm.DB, examID uint, desired []uint) error {
	var current []uint
	err := tx.Model(&model.ExamEvaluator{}).Where("exam_id = ?", examID).Pluck("evaluator_id", &current).Error
	if err != nil {
		return err
	}

	currentSet := toIDSet(current)
	desiredSet := toIDSet(desired)

	var toRemove []uint
	for _, id := range current {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	var toAdd []model.ExamEvaluator
	for _, id := range desired {
		if !currentSet[id] {
			toAdd = append(toAdd, model.ExamEvaluator{ExamID: examID, EvaluatorID: id})
		}
	}

	if len(toRemove) > 0 {
		if err := tx.Where("exam_id = ? AND evaluator_id IN ?", examID, toRemove).Delete(&model.ExamEvaluator{}).Error; err != nil {
			return err
		}
	}
	if len(toAdd) > 0 {
		if err := tx.Create(&toAdd).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyRemovals deletes deepest-first: options, then questions (with their
// options), then stations. Guards have already passed.
func (s *ExamSyncService) applyRemovals(tx *gorm.DB, plan *SyncPlan, removedQuestionIDs []uint) error {
	if len(plan.RemovedOptionIDs) > 0 {
		if err := tx.Delete(&model.Option{}, plan.RemovedOptionIDs).Error; err != nil {
			return err
		}
	}
	if len(removedQuestionIDs) > 0 {
		if err := tx.Where("question_id IN ?", removedQuestionIDs).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Question{}, removedQuestionIDs).Error; err != nil {
			return err
		}
	}
	if len(plan.RemovedStationIDs) > 0 {
		if err := tx.Delete(&model.Station{}, plan.RemovedStationIDs).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyStations resolves every station node to a stored identity: existing
// nodes are updated in place, new nodes inserted.
func (s *ExamSyncService) applyStations(tx *gorm.DB, examID uint, plan *SyncPlan) ([]uint, error) {
	ids := make([]uint, len(plan.Stations))
	for i, node := range plan.Stations {
		switch node.Kind {
		case ChangeExisting:
			var st model.Station
			if err := tx.First(&st, node.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, util.ErrStationNotFound
				}
				return nil, err
			}
			if st.ExamID != examID {
				return nil, util.ErrStationNotFound
			}
			st.Title = node.Title
			st.Description = node.Description
			st.DurationMinutes = node.DurationMinutes
			st.Order = node.Order
			st.Active = node.Active
			if err := tx.Save(&st).Error; err != nil {
				return nil, err
			}
			ids[i] = st.ID
		case ChangeNew:
			st := model.Station{
				ExamID:          examID,
				Title:           node.Title,
				Description:     node.Description,
				DurationMinutes: node.DurationMinutes,
				Order:           node.Order,
				Active:          node.Active,
			}
			if err := tx.Create(&st).Error; err != nil {
				return nil, err
			}
			ids[i] = st.ID
		}
	}
	return ids, nil
}

func (s *ExamSyncService) applyQuestions(tx *gorm.DB, plan *SyncPlan, stationIDs []uint) ([]uint, error) {
	ids := make([]uint, len(plan.Questions))
	for i, node := range plan.Questions {
		stationID := stationIDs[node.Station]
		switch node.Kind {
		case ChangeExisting:
			var q model.Question
			if err := tx.First(&q, node.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, util.ErrQuestionNotFound
				}
				return nil, err
			}
			if q.StationID != stationID {
				return nil, util.ErrQuestionNotFound
			}
			q.Text = node.Text
			q.Type = node.Type
			q.Required = node.Required
			q.Order = node.Order
			q.ScoreWeight = node.ScoreWeight
			q.MinValue = node.MinValue
			q.MaxValue = node.MaxValue
			if err := tx.Save(&q).Error; err != nil {
				return nil, err
			}
			ids[i] = q.ID
		case ChangeNew:
			q := model.Question{
				StationID:   stationID,
				Text:        node.Text,
				Type:        node.Type,
				Required:    node.Required,
				Order:       node.Order,
				ScoreWeight: node.ScoreWeight,
				MinValue:    node.MinValue,
				MaxValue:    node.MaxValue,
			}
			if err := tx.Create(&q).Error; err != nil {
				return nil, err
			}
			ids[i] = q.ID
		}
	}
	return ids, nil
}

func (s *ExamSyncService) applyOptions(tx *gorm.DB, plan *SyncPlan, questionIDs []uint) error {
	for _, node := range plan.Options {
		questionID := questionIDs[node.Question]
		switch node.Kind {
		case ChangeExisting:
			var o model.Option
			if err := tx.First(&o, node.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return util.ErrOptionNotFound
				}
				return err
			}
			if o.QuestionID != questionID {
				return util.ErrOptionNotFound
			}
			o.Text = node.Text
			o.IsCorrect = node.IsCorrect
			o.Order = node.Order
			if err := tx.Save(&o).Error; err != nil {
				return err
			}
		case ChangeNew:
			o := model.Option{
				QuestionID: questionID,
				Text:       node.Text,
				IsCorrect:  node.IsCorrect,
				Order:      node.Order,
			}
			if err := tx.Create(&o).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// recomputeMaxScores re-derives max_score for every station whose question set
// may have changed. The invariant holds on commit: max_score equals the sum of
// the station's current questions' score weights.
func (s *ExamSyncService) recomputeMaxScores(tx *gorm.DB, stationIDs map[uint]bool) error {
	for id := range stationIDs {
		var sum float64
		err := tx.Model(&model.Question{}).
			Where("station_id = ?", id).
			Select("COALESCE(SUM(score_weight), 0)").
			Scan(&sum).Error
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Station{}).Where("id = ?", id).Update("max_score", sum).Error; err != nil {
			return err
		}
	}
	return nil
}
