package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

// FeedbackSink records one feedback entry in an external system.
type FeedbackSink interface {
	CreateRecord(ctx context.Context, fields map[string]any) error
}

// FeedbackService validates and forwards answer ratings.
type FeedbackService struct {
	sink   FeedbackSink
	logger *zap.Logger
	now    func() time.Time
}

// NewFeedbackService creates the feedback service.
func NewFeedbackService(sink FeedbackSink, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{sink: sink, logger: logger.Named("FeedbackService"), now: time.Now}
}

// Record forwards one feedback entry. The date is set server-side; the field
// names match the sink's table schema and must not drift.
func (s *FeedbackService) Record(ctx context.Context, fb model.Feedback) error {
	fields := map[string]any{
		"rating":        fb.Rating,
		"date":          s.now().UTC().Format(time.RFC3339),
		"question":      fb.Question,
		"contexte":      fb.Context,
		"reponse":       fb.Answer,
		"ai_model":      fb.Model,
		"response_time": fb.ResponseTimeMs,
	}
	if err := s.sink.CreateRecord(ctx, fields); err != nil {
		return err
	}
	s.logger.Info("Feedback recorded", zap.Float64("rating", fb.Rating))
	return nil
}
