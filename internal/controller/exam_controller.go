package controller

import (
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/service"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Sync        *service.ExamSyncService
	Duplication *service.ExamDuplicationService
	Query       *service.ExamQueryService
}

func NewExamController(sync *service.ExamSyncService, dup *service.ExamDuplicationService, query *service.ExamQueryService) *ExamController {
	return &ExamController{Sync: sync, Duplication: dup, Query: query}
}

func (c *ExamController) GetExam(ctx *gin.Context) {
	id := util.ParseUintOrZero(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	exam, err := c.Query.GetGraph(ctx.Request.Context(), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// SynchronizeExam replaces the stored exam graph with the submitted one.
func (c *ExamController) SynchronizeExam(ctx *gin.Context) {
	id := util.ParseUintOrZero(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	var req service.SyncRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Sync.Synchronize(ctx.Request.Context(), id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

type duplicateResponse struct {
	NewExamIDs []uint `json:"newExamIds"`
}

func (c *ExamController) DuplicateExams(ctx *gin.Context) {
	var req service.DuplicateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	newIDs, err := c.Duplication.Duplicate(ctx.Request.Context(), req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Created(ctx, duplicateResponse{NewExamIDs: newIDs})
}
