package controller

import (
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/service"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Service *service.SessionService
}

func NewSessionController(svc *service.SessionService) *SessionController {
	return &SessionController{Service: svc}
}

func (c *SessionController) AssignSession(ctx *gin.Context) {
	var req service.AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.Assign(req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

func (c *SessionController) GetSession(ctx *gin.Context) {
	id := util.ParseUintOrZero(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	detail, err := c.Service.GetDetail(id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

func (c *SessionController) StartSession(ctx *gin.Context) {
	id := util.ParseUintOrZero(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	session, err := c.Service.Start(id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	id := util.ParseUintOrZero(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	var sub service.AnswerSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.Service.SubmitAnswer(id, sub)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

func (c *SessionController) CompleteStation(ctx *gin.Context) {
	id := util.ParseUintOrZero(ctx.Param("id"))
	stationID := util.ParseUintOrZero(ctx.Param("stationId"))
	if id == 0 || stationID == 0 {
		util.BadRequest(ctx, "invalid session or station id")
		return
	}

	var req service.CompleteStationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.CompleteStation(id, stationID, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

func (c *SessionController) FinalizeSession(ctx *gin.Context) {
	id := util.ParseUintOrZero(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	var req service.FinalizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.Finalize(id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, session)
}
