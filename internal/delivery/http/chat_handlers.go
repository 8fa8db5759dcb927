package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifeai-server/internal/delivery/http/middleware"
	"lifeai-server/internal/model"
	"lifeai-server/internal/service"
)

type createChatRequest struct {
	Name         string `json:"name"`
	FirstMessage string `json:"firstMessage"`
}

func (h *Handler) createChat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, APIError{Error: "authentication required"})
		return
	}

	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body"})
		return
	}

	chat, err := h.chats.CreateChat(c.Request.Context(), userID, req.Name, req.FirstMessage)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (h *Handler) listChats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, APIError{Error: "authentication required"})
		return
	}

	chats, err := h.chats.ListChats(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (h *Handler) renameChat(c *gin.Context) {
	userID, chatID, ok := h.chatScope(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "name is required"})
		return
	}

	if err := h.chats.RenameChat(c.Request.Context(), userID, chatID, req.Name); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteChat(c *gin.Context) {
	userID, chatID, ok := h.chatScope(c)
	if !ok {
		return
	}
	if err := h.chats.DeleteChat(c.Request.Context(), userID, chatID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listMessages(c *gin.Context) {
	userID, chatID, ok := h.chatScope(c)
	if !ok {
		return
	}
	msgs, err := h.chats.ListMessages(c.Request.Context(), userID, chatID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

type appendMessageRequest struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) appendMessage(c *gin.Context) {
	userID, chatID, ok := h.chatScope(c)
	if !ok {
		return
	}

	var req appendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "role and content are required"})
		return
	}

	msg, err := h.chats.AppendMessage(c.Request.Context(), userID, chatID, req.Role, req.Content)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

type completionRequest struct {
	ChatID  uuid.UUID `json:"chatId" binding:"required"`
	Message string    `json:"message" binding:"required"`
}

// streamCompletion answers a chat message over SSE. Text arrives as "delta"
// events, structured tool results as "tool" events, then a terminal "done".
func (h *Handler) streamCompletion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, APIError{Error: "authentication required"})
		return
	}

	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "chatId and message are required"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	send := func(event string, payload any) error {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal sse payload: %w", err)
		}
		if _, err := fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, body); err != nil {
			return fmt.Errorf("client went away: %w", err)
		}
		c.Writer.Flush()
		return nil
	}

	err := h.tutor.Complete(c.Request.Context(), userID, req.ChatID, req.Message, service.StreamEvents{
		OnDelta: func(text string) error {
			return send("delta", gin.H{"text": text})
		},
		OnTool: func(envelope json.RawMessage) error {
			return send("tool", envelope)
		},
	})
	if err != nil {
		// Headers are gone; the best we can do is an error event.
		h.logger.Error("Completion stream failed", zap.Error(err))
		_ = send("error", gin.H{"error": "generation failed"})
		return
	}

	_ = send("done", gin.H{})
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
}

func (h *Handler) semanticSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "query is required"})
		return
	}

	results, err := h.search.Search(c.Request.Context(), req.Query)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type feedbackRequest struct {
	Rating         *float64 `json:"rating" binding:"required"`
	Question       string   `json:"question"`
	Context        string   `json:"context"`
	Answer         string   `json:"answer"`
	Model          string   `json:"model"`
	ResponseTimeMs int64    `json:"responseTimeMs"`
}

func (h *Handler) recordFeedback(c *gin.Context) {
	var req feedbackRequest
	// Binding rejects a missing or non-numeric rating before anything
	// reaches the sink.
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "rating must be a number"})
		return
	}

	err := h.feedback.Record(c.Request.Context(), model.Feedback{
		Rating:         *req.Rating,
		Question:       req.Question,
		Context:        req.Context,
		Answer:         req.Answer,
		Model:          req.Model,
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

func (h *Handler) chatScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, APIError{Error: "authentication required"})
		return uuid.Nil, uuid.Nil, false
	}
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid chat id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, chatID, true
}
