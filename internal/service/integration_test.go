package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/repository"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB connects to the throwaway MySQL instance used by integration
// tests. Seeded rows use unique per-run values, so tests can share a schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("EXAMEN_CARRERA_INTEGRATION") != "1" {
		t.Skip("set EXAMEN_CARRERA_INTEGRATION=1 to run integration tests")
	}

	dsn := os.Getenv("EXAMEN_CARRERA_TEST_DSN")
	if dsn == "" {
		dsn = "examen:examen@tcp(127.0.0.1:3306)/examen_carrera_test?charset=utf8mb4&parseTime=true&loc=Local"
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.Exam{},
		&model.ExamEvaluator{},
		&model.Station{},
		&model.Question{},
		&model.Option{},
		&model.ExamSession{},
		&model.Answer{},
		&model.StationResult{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func newTestServices(t *testing.T) (*ExamSyncService, *ExamDuplicationService, *SessionService, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	examRepo := repository.NewExamRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	query := NewExamQueryService(examRepo, nil)

	return NewExamSyncService(examRepo, query, db),
		NewExamDuplicationService(examRepo, db),
		NewSessionService(sessionRepo, examRepo, db),
		db
}

// seedExam creates an exam with one station and its questions, returning the
// stored rows. The listing question is required, the free-text one is not.
func seedExam(t *testing.T, db *gorm.DB) (*model.Exam, *model.Station, []model.Question) {
	t.Helper()

	exam := model.Exam{
		Title:           fmt.Sprintf("ITEST Exam %d", time.Now().UnixNano()),
		ApplicationDate: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		Status:          model.ExamStatusActive,
	}
	if err := db.Create(&exam).Error; err != nil {
		t.Fatalf("seed exam: %v", err)
	}

	station := model.Station{
		ExamID:   exam.ID,
		Title:    "Estación 1",
		Order:    1,
		Active:   true,
		MaxScore: 5,
	}
	if err := db.Create(&station).Error; err != nil {
		t.Fatalf("seed station: %v", err)
	}

	questions := []model.Question{
		{
			StationID:   station.ID,
			Text:        "Realiza la maniobra",
			Type:        model.QuestionTypeListing,
			Required:    true,
			Order:       1,
			ScoreWeight: 2,
		},
		{
			StationID:   station.ID,
			Text:        "Observaciones libres",
			Type:        model.QuestionTypeFreeText,
			Required:    false,
			Order:       2,
			ScoreWeight: 3,
		},
	}
	if err := db.Create(&questions).Error; err != nil {
		t.Fatalf("seed questions: %v", err)
	}

	return &exam, &station, questions
}

// uniqueID returns a test-run-unique uint for student/evaluator identities.
func uniqueID() uint {
	return uint(time.Now().UnixNano() % (1 << 31))
}
