package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playingState() PlayerState {
	s := NewPlayerState(GenderFemale, "Alice")
	s.Age = 20
	return s
}

func TestApplyTurnAddsDeltasAndClamp(t *testing.T) {
	s := playingState()
	s.Health = 95
	s.Karma = 95

	turn := validTurn()
	turn.HealthChange = 10
	turn.KarmaChange = 10
	turn.Question.Options[0].Effect = Effect{Health: 50, Karma: 50, Money: 100, Social: 5}

	next, phase := ApplyTurn(s, turn, 0, DefaultRules())

	assert.Equal(t, MaxHealth, next.Health)
	assert.Equal(t, MaxKarma, next.Karma)
	assert.Equal(t, int64(99), next.Money) // -1 top-level + 100 option effect
	assert.Equal(t, 5, next.SocialSkills)
	assert.Equal(t, PhasePlaying, phase)
}

func TestApplyTurnAdvancesAgeAndCounter(t *testing.T) {
	s := playingState()
	s.InteractionCount = 4

	next, _ := ApplyTurn(s, validTurn(), 0, DefaultRules())

	assert.Equal(t, 21, next.Age)
	assert.Equal(t, 5, next.InteractionCount)
}

func TestApplyTurnDoesNotMutateInput(t *testing.T) {
	s := playingState()
	s.Traits = []string{"curieux"}
	s.Memory = []string{"souvenir"}

	before := fmt.Sprintf("%+v", s)
	_, _ = ApplyTurn(s, validTurn(), 0, DefaultRules())

	assert.Equal(t, before, fmt.Sprintf("%+v", s))
}

func TestApplyTurnGameOverOnZeroHealth(t *testing.T) {
	s := playingState()
	s.Health = 5

	turn := validTurn()
	turn.HealthChange = -10

	next, phase := ApplyTurn(s, turn, 1, DefaultRules())

	assert.Equal(t, MinHealth, next.Health)
	assert.Equal(t, PhaseGameOver, phase)
}

func TestApplyTurnVictoryAtMaxAge(t *testing.T) {
	s := playingState()
	s.Age = 99

	_, phase := ApplyTurn(s, validTurn(), 0, DefaultRules())

	assert.Equal(t, PhaseVictory, phase)
}

func TestGameOverBeatsVictory(t *testing.T) {
	s := playingState()
	s.Age = 100
	s.Health = 0

	assert.Equal(t, PhaseGameOver, CurrentPhase(s))
}

func TestMergeTraitsDedupAndRefresh(t *testing.T) {
	got := mergeTraits([]string{"curieux", "timide", "ambitieux"}, []string{"Timide"})

	// The repeated trait moves to the most-recent slot, case-insensitively.
	require.Equal(t, []string{"curieux", "ambitieux", "Timide"}, got)
}

func TestMergeTraitsCap(t *testing.T) {
	existing := []string{"a", "b", "c", "d", "e", "f"}
	got := mergeTraits(existing, []string{"g", "h"})

	require.Len(t, got, MaxTraits)
	assert.Equal(t, []string{"c", "d", "e", "f", "g", "h"}, got)
}

func TestMemoryIsBoundedFIFO(t *testing.T) {
	s := playingState()
	rules := Rules{AgingStep: 1, MemoryLimit: 3}

	for i := 0; i < 5; i++ {
		turn := validTurn()
		turn.Message = fmt.Sprintf("événement %d", i)
		s, _ = ApplyTurn(s, turn, 0, rules)
	}

	require.Len(t, s.Memory, 3)
	assert.Contains(t, s.Memory[0], "événement 2")
	assert.Contains(t, s.Memory[2], "événement 4")
}

func TestNewPlayerStateDefaults(t *testing.T) {
	s := NewPlayerState(GenderMale, "Bob")

	assert.Equal(t, 0, s.Age)
	assert.Equal(t, MaxHealth, s.Health)
	assert.Equal(t, int64(0), s.Money)
	assert.GreaterOrEqual(t, s.Intelligence, 80)
	assert.LessOrEqual(t, s.Intelligence, 120)
	assert.Empty(t, s.Traits)
	assert.Empty(t, s.Memory)
	assert.Equal(t, PhasePlaying, CurrentPhase(s))
}

func TestCurrentPhaseIntroWithoutGender(t *testing.T) {
	assert.Equal(t, PhaseIntro, CurrentPhase(PlayerState{Health: 100}))
}
