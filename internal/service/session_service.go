package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/repository"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"

	"gorm.io/gorm"
)

// SessionService drives a student's attempt through its lifecycle:
// pending → in_progress → completed. No transition ever goes back.
type SessionService struct {
	SessionRepo *repository.SessionRepository
	ExamRepo    *repository.ExamRepository
	DB          *gorm.DB
}

func NewSessionService(sessionRepo *repository.SessionRepository, examRepo *repository.ExamRepository, db *gorm.DB) *SessionService {
	return &SessionService{SessionRepo: sessionRepo, ExamRepo: examRepo, DB: db}
}

type AssignRequest struct {
	ExamID      uint `json:"examId" binding:"required"`
	StudentID   uint `json:"studentId" binding:"required"`
	EvaluatorID uint `json:"evaluatorId" binding:"required"`
}

// Assign creates a pending session for a student on an exam. One session per
// (exam, student) pair.
func (s *SessionService) Assign(req AssignRequest) (*model.ExamSession, error) {
	if _, err := s.ExamRepo.FindByID(req.ExamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	session := &model.ExamSession{
		ExamID:      req.ExamID,
		StudentID:   req.StudentID,
		EvaluatorID: req.EvaluatorID,
		Status:      model.SessionStatusPending,
	}
	if err := s.SessionRepo.Create(session); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Resource: "session", Reason: util.ErrSessionAlreadyAssigned.Error()}
		}
		return nil, err
	}
	return session, nil
}

// Start moves a pending session to in_progress and stamps the start time.
// Calling it on a session that already started (or finished) is a no-op.
func (s *SessionService) Start(sessionID uint) (*model.ExamSession, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusPending {
		return session, nil
	}

	now := time.Now()
	session.Status = model.SessionStatusInProgress
	session.StartedAt = &now
	if err := s.SessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitAnswer scores and upserts the unique (session, question) answer row.
// A scoring failure aborts the single write; nothing else is touched.
func (s *SessionService) SubmitAnswer(sessionID uint, sub AnswerSubmission) (*model.Answer, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireInProgress(session); err != nil {
		return nil, err
	}

	question, err := s.ExamRepo.FindQuestionWithOptions(sub.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	station, err := s.ExamRepo.FindStationByID(question.StationID)
	if err != nil {
		return nil, err
	}
	if station.ExamID != session.ExamID {
		return nil, util.ErrQuestionNotInExam
	}

	score, err := ScoreAnswer(question, &sub)
	if err != nil {
		return nil, err
	}

	var selected json.RawMessage
	if len(sub.SelectedOptionIDs) > 0 {
		selected, _ = json.Marshal(sub.SelectedOptionIDs)
	}

	var saved *model.Answer
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Answer
		err := tx.Where("session_id = ? AND question_id = ?", sessionID, question.ID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing.ID == "" {
			answer := model.Answer{
				SessionID:         sessionID,
				QuestionID:        question.ID,
				TextValue:         sub.TextValue,
				SelectedOptionIDs: selected,
				ScaleValue:        sub.ScaleValue,
				AwardedScore:      score,
				Comment:           sub.Comment,
			}
			if err := tx.Create(&answer).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return &ConflictError{Resource: "answer", Reason: "another write for the same question landed first, retry"}
				}
				return err
			}
			saved = &answer
			return nil
		}

		existing.TextValue = sub.TextValue
		existing.SelectedOptionIDs = selected
		existing.ScaleValue = sub.ScaleValue
		existing.AwardedScore = score
		existing.Comment = sub.Comment
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		saved = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

type CompleteStationRequest struct {
	Observations string `json:"observations"`
}

// CompleteStation verifies every required question of the station has a
// non-empty answer, then computes and upserts the station result. When the
// gate fails nothing is written and the missing questions are reported.
func (s *SessionService) CompleteStation(sessionID, stationID uint, req CompleteStationRequest) (*model.StationResult, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireInProgress(session); err != nil {
		return nil, err
	}

	station, err := s.ExamRepo.FindStationByID(stationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStationNotFound
		}
		return nil, err
	}
	if station.ExamID != session.ExamID {
		return nil, util.ErrStationNotInExam
	}

	questions, err := s.ExamRepo.QuestionsByStation(stationID)
	if err != nil {
		return nil, err
	}
	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}
	answers, err := s.SessionRepo.AnswersByQuestions(sessionID, questionIDs)
	if err != nil {
		return nil, err
	}
	answered := make(map[uint]*model.Answer, len(answers))
	for i := range answers {
		answered[answers[i].QuestionID] = &answers[i]
	}

	var missing []uint
	for _, q := range questions {
		if !q.Required {
			continue
		}
		a, ok := answered[q.ID]
		if !ok || !answerHasResponse(a) {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteStationError{StationID: stationID, MissingQuestionIDs: missing}
	}

	var sum float64
	for _, a := range answers {
		sum += a.AwardedScore
	}
	score := ClampStationScore(sum, station.MaxScore)

	var saved *model.StationResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		var existing model.StationResult
		err := tx.Where("session_id = ? AND station_id = ?", sessionID, stationID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing.ID == "" {
			result := model.StationResult{
				SessionID:    sessionID,
				StationID:    stationID,
				Score:        score,
				Observations: req.Observations,
				EvaluatedAt:  now,
			}
			if err := tx.Create(&result).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return &ConflictError{Resource: "stationResult", Reason: "another completion for the same station landed first, retry"}
				}
				return err
			}
			saved = &result
			return nil
		}

		existing.Score = score
		existing.Observations = req.Observations
		existing.EvaluatedAt = now
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		saved = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

type FinalizeRequest struct {
	Observations string `json:"observations"`
}

// Finalize re-verifies that every active station carries a result — the
// caller's view may be stale — then completes the session with the overall
// grade. Finalizing an already completed session returns it unchanged.
func (s *SessionService) Finalize(sessionID uint, req FinalizeRequest) (*model.ExamSession, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted {
		return session, nil
	}
	if session.Status == model.SessionStatusPending {
		return nil, util.ErrSessionNotStarted
	}

	stations, err := s.ExamRepo.StationsByExam(session.ExamID)
	if err != nil {
		return nil, err
	}
	results, err := s.SessionRepo.StationResultsBySession(sessionID)
	if err != nil {
		return nil, err
	}
	resultByStation := make(map[uint]*model.StationResult, len(results))
	for i := range results {
		resultByStation[results[i].StationID] = &results[i]
	}

	var missing []uint
	var scores []float64
	for _, st := range stations {
		if !st.Active {
			continue
		}
		r, ok := resultByStation[st.ID]
		if !ok {
			missing = append(missing, st.ID)
			continue
		}
		scores = append(scores, r.Score)
	}
	if len(missing) > 0 {
		return nil, &IncompleteSessionError{MissingStationIDs: missing}
	}

	now := time.Now()
	grade := OverallGrade(scores)
	session.Status = model.SessionStatusCompleted
	session.EndedAt = &now
	session.OverallGrade = &grade
	if req.Observations != "" {
		session.Observations = req.Observations
	}
	if err := s.SessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SessionDetail is the projection returned to evaluators: the session with
// everything recorded so far.
type SessionDetail struct {
	Session        *model.ExamSession    `json:"session"`
	Answers        []model.Answer        `json:"answers"`
	StationResults []model.StationResult `json:"stationResults"`
}

func (s *SessionService) GetDetail(sessionID uint) (*SessionDetail, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.SessionRepo.AnswersBySession(sessionID)
	if err != nil {
		return nil, err
	}
	results, err := s.SessionRepo.StationResultsBySession(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: session, Answers: answers, StationResults: results}, nil
}

func (s *SessionService) findSession(id uint) (*model.ExamSession, error) {
	session, err := s.SessionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) requireInProgress(session *model.ExamSession) error {
	switch session.Status {
	case model.SessionStatusPending:
		return util.ErrSessionNotStarted
	case model.SessionStatusCompleted:
		return util.ErrSessionCompleted
	}
	return nil
}

// answerHasResponse reports whether a stored answer carries an actual
// response payload, as required by the station completion gate.
func answerHasResponse(a *model.Answer) bool {
	if a.TextValue != "" || a.ScaleValue != nil || a.AwardedScore != 0 {
		return true
	}
	if len(a.SelectedOptionIDs) > 0 {
		var ids []uint
		if json.Unmarshal(a.SelectedOptionIDs, &ids) == nil && len(ids) > 0 {
			return true
		}
	}
	return false
}
