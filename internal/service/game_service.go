package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"lifeai-server/internal/game"
	"lifeai-server/internal/model"
)

// TurnGenerator produces raw structured output for one game turn.
type TurnGenerator interface {
	GenerateStructured(ctx context.Context, systemPrompt string, schema json.RawMessage) ([]byte, error)
}

// GameService runs the life simulation turn pipeline: compose, generate,
// parse, sanitize. It holds no per-player state; the client carries it.
type GameService struct {
	gen    TurnGenerator
	rules  game.Rules
	logger *zap.Logger
}

// NewGameService creates the game service.
func NewGameService(gen TurnGenerator, rules game.Rules, logger *zap.Logger) *GameService {
	return &GameService{gen: gen, rules: rules, logger: logger.Named("GameService")}
}

// NewLife starts a fresh run. Gender is the intro gate; nothing else happens
// until it is chosen.
func (s *GameService) NewLife(gender, name string) (game.PlayerState, error) {
	if gender != game.GenderMale && gender != game.GenderFemale {
		return game.PlayerState{}, fmt.Errorf("%w: gender must be %q or %q", model.ErrValidation, game.GenderMale, game.GenderFemale)
	}
	return game.NewPlayerState(gender, name), nil
}

// GenerateTurn produces the next sanitized scene for the given state. The
// pipeline is strictly sequential and performs no retries: a failed
// generation surfaces to the client, which retries by resubmitting.
func (s *GameService) GenerateTurn(ctx context.Context, state game.PlayerState) (game.Turn, error) {
	state = game.Clamp(state)

	switch game.CurrentPhase(state) {
	case game.PhaseIntro:
		return game.Turn{}, fmt.Errorf("%w: gender not chosen", model.ErrValidation)
	case game.PhaseGameOver, game.PhaseVictory:
		return game.Turn{}, fmt.Errorf("%w: the run has ended", model.ErrValidation)
	}

	prompt := game.Compose(state, s.rules)

	raw, err := s.gen.GenerateStructured(ctx, prompt, game.TurnSchema())
	if err != nil {
		return game.Turn{}, fmt.Errorf("turn generation failed: %w", err)
	}

	turn, err := game.ParseTurn(raw)
	if err != nil {
		s.logger.Warn("Discarding malformed turn", zap.Error(err))
		return game.Turn{}, err
	}

	return game.Sanitize(turn, state), nil
}

// ApplyChoice folds the chosen option into the state. The turn is
// re-sanitized first so a tampered client payload cannot corrupt the state.
func (s *GameService) ApplyChoice(state game.PlayerState, turn game.Turn, choice int) (game.PlayerState, game.Phase, error) {
	state = game.Clamp(state)
	if game.CurrentPhase(state) == game.PhaseIntro {
		return state, game.PhaseIntro, fmt.Errorf("%w: gender not chosen", model.ErrValidation)
	}
	if choice < 0 || choice >= len(turn.Question.Options) {
		return state, game.CurrentPhase(state), fmt.Errorf("%w: option index out of range", model.ErrValidation)
	}

	turn = game.Sanitize(turn, state)
	next, phase := game.ApplyTurn(state, turn, choice, s.rules)
	return next, phase, nil
}
