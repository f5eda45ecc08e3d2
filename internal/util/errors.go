package util

import "errors"

var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrStationNotFound  = errors.New("station not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrSessionNotFound  = errors.New("session not found")

	ErrSessionNotStarted      = errors.New("session has not been started")
	ErrSessionCompleted       = errors.New("session already completed")
	ErrStationNotInExam       = errors.New("station does not belong to the session's exam")
	ErrQuestionNotInExam      = errors.New("question does not belong to the session's exam")
	ErrSessionAlreadyAssigned = errors.New("student already has a session for this exam")
)
