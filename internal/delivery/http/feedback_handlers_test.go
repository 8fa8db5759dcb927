package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeai-server/internal/service"
)

type recordingSink struct {
	fields map[string]any
	calls  int
}

func (r *recordingSink) CreateRecord(_ context.Context, fields map[string]any) error {
	r.calls++
	r.fields = fields
	return nil
}

func feedbackFixture() (*Handler, *recordingSink) {
	gin.SetMode(gin.TestMode)
	sink := &recordingSink{}
	svc := service.NewFeedbackService(sink, zap.NewNop())
	h := &Handler{feedback: svc, logger: zap.NewNop()}
	return h, sink
}

func postFeedback(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.recordFeedback(c)
	return rec
}

func TestRecordFeedbackRejectsNonNumericRating(t *testing.T) {
	h, sink := feedbackFixture()

	rec := postFeedback(h, `{"rating": "five", "question": "q"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, sink.calls, "nothing reaches the sink on bad input")
}

func TestRecordFeedbackRejectsMissingRating(t *testing.T) {
	h, sink := feedbackFixture()

	rec := postFeedback(h, `{"question": "q"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, sink.calls)
}

func TestRecordFeedbackForwardsRecord(t *testing.T) {
	h, sink := feedbackFixture()

	rec := postFeedback(h, `{"rating": 4, "question": "q", "context": "ctx", "answer": "a", "model": "m", "responseTimeMs": 120}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, sink.calls)
	assert.Equal(t, 4.0, sink.fields["rating"])
	assert.Equal(t, "ctx", sink.fields["contexte"])
	assert.Equal(t, int64(120), sink.fields["response_time"])
}
