package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/service"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &service.ValidationError{Field: "title", Reason: "required"}, http.StatusBadRequest},
		{"referential integrity", &service.ReferentialIntegrityError{Entity: "question", BlockedIDs: []uint{3}}, http.StatusConflict},
		{"conflict", &service.ConflictError{Resource: "exam", Reason: "stale revision"}, http.StatusConflict},
		{"incomplete station", &service.IncompleteStationError{StationID: 1, MissingQuestionIDs: []uint{2}}, http.StatusUnprocessableEntity},
		{"incomplete session", &service.IncompleteSessionError{MissingStationIDs: []uint{1}}, http.StatusUnprocessableEntity},
		{"exam not found", util.ErrExamNotFound, http.StatusNotFound},
		{"option not found", util.ErrOptionNotFound, http.StatusNotFound},
		{"session not found", util.ErrSessionNotFound, http.StatusNotFound},
		{"session not started", util.ErrSessionNotStarted, http.StatusBadRequest},
		{"question outside exam", util.ErrQuestionNotInExam, http.StatusBadRequest},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			writeServiceError(c, tt.err)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
