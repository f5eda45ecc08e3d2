package app

import (
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/middleware"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) setupRouter() {
	gin.SetMode(a.Config.Server.Mode)
	r := gin.New()

	a.setupMiddlewares(r)

	r.GET("/api/health", a.healthController.HealthCheck)
	r.GET("/metrics", monitoring.PrometheusHandler())

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(a.Config))
	{
		exams := api.Group("/exams")
		{
			exams.GET("/:id", a.examController.GetExam)
			exams.PUT("/:id/structure", middleware.RoleMiddleware(model.Admin), a.examController.SynchronizeExam)
			exams.POST("/duplicate", middleware.RoleMiddleware(model.Admin), a.examController.DuplicateExams)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", middleware.RoleMiddleware(model.Admin), a.sessionController.AssignSession)
			sessions.GET("/:id", a.sessionController.GetSession)
			sessions.POST("/:id/start", middleware.RoleMiddleware(model.Admin, model.Evaluator), a.sessionController.StartSession)
			sessions.POST("/:id/answers", middleware.RoleMiddleware(model.Admin, model.Evaluator), a.sessionController.SubmitAnswer)
			sessions.POST("/:id/stations/:stationId/complete", middleware.RoleMiddleware(model.Admin, model.Evaluator), a.sessionController.CompleteStation)
			sessions.POST("/:id/finalize", middleware.RoleMiddleware(model.Admin, model.Evaluator), a.sessionController.FinalizeSession)
		}
	}

	a.Router = r
}
