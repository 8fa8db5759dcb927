package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

type mockFeedbackSink struct {
	fields map[string]any
	err    error
}

func (m *mockFeedbackSink) CreateRecord(_ context.Context, fields map[string]any) error {
	m.fields = fields
	return m.err
}

func TestFeedbackRecordMapsFields(t *testing.T) {
	sink := &mockFeedbackSink{}
	svc := NewFeedbackService(sink, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, 3, 14, 15, 9, 0, 0, time.UTC)
	}

	err := svc.Record(context.Background(), model.Feedback{
		Rating:         4,
		Question:       "Quand le mur est-il tombé ?",
		Context:        "Mur de Berlin",
		Answer:         "En 1989.",
		Model:          "gpt-4o-mini",
		ResponseTimeMs: 820,
	})
	require.NoError(t, err)

	assert.Equal(t, 4.0, sink.fields["rating"])
	assert.Equal(t, "2025-03-14T15:09:00Z", sink.fields["date"])
	assert.Equal(t, "Quand le mur est-il tombé ?", sink.fields["question"])
	assert.Equal(t, "Mur de Berlin", sink.fields["contexte"])
	assert.Equal(t, "En 1989.", sink.fields["reponse"])
	assert.Equal(t, "gpt-4o-mini", sink.fields["ai_model"])
	assert.Equal(t, int64(820), sink.fields["response_time"])
}

func TestFeedbackRecordPropagatesSinkFailure(t *testing.T) {
	sink := &mockFeedbackSink{err: model.ErrStorageFailed}
	svc := NewFeedbackService(sink, zap.NewNop())

	err := svc.Record(context.Background(), model.Feedback{Rating: 2})
	require.ErrorIs(t, err, model.ErrStorageFailed)
}
