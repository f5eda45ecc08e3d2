package service

import (
	"errors"
	"testing"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"
)

func TestSessionLifecycle_DBIntegration(t *testing.T) {
	_, _, sessions, db := newTestServices(t)
	exam, station, questions := seedExam(t, db)

	session, err := sessions.Assign(AssignRequest{ExamID: exam.ID, StudentID: uniqueID(), EvaluatorID: uniqueID()})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if session.Status != model.SessionStatusPending {
		t.Fatalf("status = %q, want pending", session.Status)
	}

	// Answers are rejected before the session starts.
	_, err = sessions.SubmitAnswer(session.ID, AnswerSubmission{QuestionID: questions[0].ID, TextValue: ListingAnswerYes})
	if !errors.Is(err, util.ErrSessionNotStarted) {
		t.Fatalf("want ErrSessionNotStarted, got %v", err)
	}

	started, err := sessions.Start(session.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != model.SessionStatusInProgress || started.StartedAt == nil {
		t.Fatalf("start did not transition: %+v", started)
	}

	// Starting again is a no-op, not an error.
	again, err := sessions.Start(session.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !again.StartedAt.Equal(*started.StartedAt) {
		t.Error("second start moved the start time")
	}

	// Completing the station before the required question is answered fails
	// and reports the missing question.
	_, err = sessions.CompleteStation(session.ID, station.ID, CompleteStationRequest{})
	var incomplete *IncompleteStationError
	if !errors.As(err, &incomplete) {
		t.Fatalf("want IncompleteStationError, got %v", err)
	}
	if len(incomplete.MissingQuestionIDs) != 1 || incomplete.MissingQuestionIDs[0] != questions[0].ID {
		t.Errorf("missing = %v, want [%d]", incomplete.MissingQuestionIDs, questions[0].ID)
	}

	answer, err := sessions.SubmitAnswer(session.ID, AnswerSubmission{QuestionID: questions[0].ID, TextValue: ListingAnswerPartially})
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if answer.AwardedScore != 1 {
		t.Errorf("awarded = %g, want 1 (half of weight 2)", answer.AwardedScore)
	}

	// Resubmitting replaces the row in place.
	answer2, err := sessions.SubmitAnswer(session.ID, AnswerSubmission{QuestionID: questions[0].ID, TextValue: ListingAnswerYes})
	if err != nil {
		t.Fatalf("resubmit answer: %v", err)
	}
	if answer2.ID != answer.ID {
		t.Errorf("resubmission created a second row: %s vs %s", answer2.ID, answer.ID)
	}
	if answer2.AwardedScore != 2 {
		t.Errorf("awarded = %g, want 2", answer2.AwardedScore)
	}

	result, err := sessions.CompleteStation(session.ID, station.ID, CompleteStationRequest{Observations: "bien"})
	if err != nil {
		t.Fatalf("complete station: %v", err)
	}
	if result.Score != 2 {
		t.Errorf("station score = %g, want 2", result.Score)
	}
	if result.Observations != "bien" {
		t.Errorf("observations = %q", result.Observations)
	}

	final, err := sessions.Finalize(session.ID, FinalizeRequest{})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if final.Status != model.SessionStatusCompleted || final.EndedAt == nil {
		t.Fatalf("finalize did not transition: %+v", final)
	}
	if final.OverallGrade == nil || *final.OverallGrade != 2 {
		t.Errorf("overall grade = %v, want 2", final.OverallGrade)
	}

	// Finalizing again returns the session unchanged.
	repeat, err := sessions.Finalize(session.ID, FinalizeRequest{Observations: "ignored"})
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if *repeat.OverallGrade != *final.OverallGrade || !repeat.EndedAt.Equal(*final.EndedAt) {
		t.Error("second finalize changed the completed session")
	}

	// The completed session rejects late answers.
	_, err = sessions.SubmitAnswer(session.ID, AnswerSubmission{QuestionID: questions[1].ID, TextValue: "tarde"})
	if !errors.Is(err, util.ErrSessionCompleted) {
		t.Fatalf("want ErrSessionCompleted, got %v", err)
	}
}

func TestAssignRejectsSecondSessionForSameStudent_DBIntegration(t *testing.T) {
	_, _, sessions, db := newTestServices(t)
	exam, _, _ := seedExam(t, db)

	studentID := uniqueID()
	if _, err := sessions.Assign(AssignRequest{ExamID: exam.ID, StudentID: studentID, EvaluatorID: uniqueID()}); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	_, err := sessions.Assign(AssignRequest{ExamID: exam.ID, StudentID: studentID, EvaluatorID: uniqueID()})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want ConflictError, got %v", err)
	}
}

func TestFinalizeRequiresResultsForActiveStationsOnly_DBIntegration(t *testing.T) {
	_, _, sessions, db := newTestServices(t)
	exam, station, questions := seedExam(t, db)

	// A second, inactive station must not block finalization.
	inactive := model.Station{ExamID: exam.ID, Title: "Desactivada", Order: 2, Active: false}
	if err := db.Create(&inactive).Error; err != nil {
		t.Fatalf("seed inactive station: %v", err)
	}

	session, err := sessions.Assign(AssignRequest{ExamID: exam.ID, StudentID: uniqueID(), EvaluatorID: uniqueID()})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := sessions.Start(session.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// No results yet: finalize reports the active station as missing.
	_, err = sessions.Finalize(session.ID, FinalizeRequest{})
	var missing *IncompleteSessionError
	if !errors.As(err, &missing) {
		t.Fatalf("want IncompleteSessionError, got %v", err)
	}
	if len(missing.MissingStationIDs) != 1 || missing.MissingStationIDs[0] != station.ID {
		t.Errorf("missing = %v, want [%d]", missing.MissingStationIDs, station.ID)
	}

	if _, err := sessions.SubmitAnswer(session.ID, AnswerSubmission{QuestionID: questions[0].ID, TextValue: ListingAnswerYes}); err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if _, err := sessions.CompleteStation(session.ID, station.ID, CompleteStationRequest{}); err != nil {
		t.Fatalf("complete station: %v", err)
	}

	final, err := sessions.Finalize(session.ID, FinalizeRequest{})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if final.Status != model.SessionStatusCompleted {
		t.Errorf("status = %q, want completed", final.Status)
	}
}

func TestSubmitAnswerRejectsForeignQuestion_DBIntegration(t *testing.T) {
	_, _, sessions, db := newTestServices(t)
	exam, _, _ := seedExam(t, db)
	_, _, otherQuestions := seedExam(t, db)

	session, err := sessions.Assign(AssignRequest{ExamID: exam.ID, StudentID: uniqueID(), EvaluatorID: uniqueID()})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := sessions.Start(session.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err = sessions.SubmitAnswer(session.ID, AnswerSubmission{QuestionID: otherQuestions[0].ID, TextValue: ListingAnswerYes})
	if !errors.Is(err, util.ErrQuestionNotInExam) {
		t.Fatalf("want ErrQuestionNotInExam, got %v", err)
	}
}
