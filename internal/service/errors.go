package service

import (
	"fmt"
	"strings"
)

// ValidationError reports a missing or malformed field. It is always raised
// before any write happens.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ReferentialIntegrityError blocks a structural delete that would orphan
// recorded answers or station results. The whole synchronization rolls back.
type ReferentialIntegrityError struct {
	Entity     string `json:"entity"` // "station" or "question"
	BlockedIDs []uint `json:"blockedIds"`
}

func (e *ReferentialIntegrityError) Error() string {
	ids := make([]string, len(e.BlockedIDs))
	for i, id := range e.BlockedIDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("cannot remove %s(s) %s: answers or results already reference them", e.Entity, strings.Join(ids, ", "))
}

// IncompleteStationError is returned by the station completion gate when
// required questions are still unanswered. Nothing is written.
type IncompleteStationError struct {
	StationID          uint   `json:"stationId"`
	MissingQuestionIDs []uint `json:"missingQuestionIds"`
}

func (e *IncompleteStationError) Error() string {
	return fmt.Sprintf("station %d incomplete: %d required question(s) unanswered", e.StationID, len(e.MissingQuestionIDs))
}

// IncompleteSessionError blocks finalization while stations lack a result.
type IncompleteSessionError struct {
	MissingStationIDs []uint `json:"missingStationIds"`
}

func (e *IncompleteSessionError) Error() string {
	return fmt.Sprintf("session incomplete: %d station(s) without a result", len(e.MissingStationIDs))
}

// ConflictError covers optimistic-revision rejections and unique-key races.
// Callers may retry after reloading state.
type ConflictError struct {
	Resource string `json:"resource"`
	Reason   string `json:"reason"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Reason)
}
