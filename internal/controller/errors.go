package controller

import (
	"errors"
	"net/http"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/service"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// validation → 400, not found → 404, guarded delete and write races → 409,
// unmet completion gates → 422, anything else → 500.
func writeServiceError(c *gin.Context, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		util.ErrorWithDetails(c, http.StatusBadRequest, validation.Error(), validation)
		return
	}

	var integrity *service.ReferentialIntegrityError
	if errors.As(err, &integrity) {
		util.ErrorWithDetails(c, http.StatusConflict, integrity.Error(), integrity)
		return
	}

	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		util.ErrorWithDetails(c, http.StatusConflict, conflict.Error(), conflict)
		return
	}

	var incompleteStation *service.IncompleteStationError
	if errors.As(err, &incompleteStation) {
		util.ErrorWithDetails(c, http.StatusUnprocessableEntity, incompleteStation.Error(), incompleteStation)
		return
	}

	var incompleteSession *service.IncompleteSessionError
	if errors.As(err, &incompleteSession) {
		util.ErrorWithDetails(c, http.StatusUnprocessableEntity, incompleteSession.Error(), incompleteSession)
		return
	}

	switch {
	case errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrStationNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrOptionNotFound),
		errors.Is(err, util.ErrSessionNotFound):
		util.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrSessionNotStarted),
		errors.Is(err, util.ErrSessionCompleted),
		errors.Is(err, util.ErrStationNotInExam),
		errors.Is(err, util.ErrQuestionNotInExam):
		util.BadRequest(c, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
