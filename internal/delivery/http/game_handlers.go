package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeai-server/internal/game"
)

type newLifeRequest struct {
	Gender string `json:"gender" binding:"required"`
	Name   string `json:"name"`
}

func (h *Handler) newLife(c *gin.Context) {
	var req newLifeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "gender is required"})
		return
	}

	state, err := h.game.NewLife(req.Gender, req.Name)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "phase": game.CurrentPhase(state)})
}

type turnRequest struct {
	State game.PlayerState `json:"state"`
}

func (h *Handler) generateTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "state is required"})
		return
	}

	turn, err := h.game.GenerateTurn(c.Request.Context(), req.State)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"turn": turn})
}

type applyRequest struct {
	State       game.PlayerState `json:"state"`
	Turn        game.Turn        `json:"turn"`
	OptionIndex int              `json:"optionIndex"`
}

func (h *Handler) applyChoice(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "state, turn and optionIndex are required"})
		return
	}

	state, phase, err := h.game.ApplyChoice(req.State, req.Turn, req.OptionIndex)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "phase": phase})
}
