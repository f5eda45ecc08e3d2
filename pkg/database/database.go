package database

import (
	"fmt"
	"log"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/config"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Unique-key races on answer/result upserts must surface as
		// gorm.ErrDuplicatedKey so callers can retry.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Hospital{},
		&model.StudentGroup{},
		&model.EvaluatorProfile{},
		&model.StudentProfile{},
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
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
