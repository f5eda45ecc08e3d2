package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/model"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/repository"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/util"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const examGraphCacheTTL = 5 * time.Minute

// ExamQueryService serves full-graph exam reads with a Redis cache in front.
// Structural writes invalidate the cached graph.
type ExamQueryService struct {
	ExamRepo *repository.ExamRepository
	Redis    *redis.Client
}

func NewExamQueryService(examRepo *repository.ExamRepository, rdb *redis.Client) *ExamQueryService {
	return &ExamQueryService{ExamRepo: examRepo, Redis: rdb}
}

func examGraphKey(examID uint) string {
	return fmt.Sprintf("exam:graph:%d", examID)
}

func (s *ExamQueryService) GetGraph(ctx context.Context, examID uint) (*model.Exam, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, examGraphKey(examID)).Bytes()
		if err == nil {
			var exam model.Exam
			if json.Unmarshal(cached, &exam) == nil {
				return &exam, nil
			}
		}
	}

	exam, err := s.ExamRepo.FindGraphByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(exam); err == nil {
			if err := s.Redis.Set(ctx, examGraphKey(examID), payload, examGraphCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache exam graph", zap.Uint("examId", examID), zap.Error(err))
			}
		}
	}
	return exam, nil
}

func (s *ExamQueryService) InvalidateGraph(ctx context.Context, examIDs ...uint) {
	if s.Redis == nil || len(examIDs) == 0 {
		return
	}
	keys := make([]string, len(examIDs))
	for i, id := range examIDs {
		keys[i] = examGraphKey(id)
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("failed to invalidate exam graph cache", zap.Error(err))
	}
}
