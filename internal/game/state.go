package game

import (
	"math/rand"
)

// Gender values accepted by the intro gate.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Phase describes where a session is in its lifecycle.
type Phase string

const (
	PhaseIntro    Phase = "intro" // gender not chosen yet
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "game_over"
	PhaseVictory  Phase = "victory"
)

// Stat bounds. Writes to the state always clamp, nothing else corrects silently.
const (
	MinHealth = 0
	MaxHealth = 100
	MinAge    = 0
	MaxAge    = 100
	MinKarma  = -100
	MaxKarma  = 100
	MinSocial = -100
	MaxSocial = 100
	MinMoney  = -10_000_000_000
	MaxMoney  = 10_000_000_000
)

const (
	// MaxTraits bounds the psychological profile; oldest traits fall off.
	MaxTraits = 6
	// MaxMemories bounds the memory queue (FIFO).
	MaxMemories = 20
)

// PlayerState is the full simulation state. The client holds it and sends it
// with every request; the server never persists it.
type PlayerState struct {
	Gender           string   `json:"gender"`
	Name             string   `json:"name"`
	Age              int      `json:"age"`
	Money            int64    `json:"money"`
	Health           int      `json:"health"`
	Karma            int      `json:"karma"`
	SocialSkills     int      `json:"socialSkills"`
	Intelligence     int      `json:"intelligence"`
	TimeOfDay        string   `json:"timeOfDay"`
	InteractionCount int      `json:"interactionCount"`
	Traits           []string `json:"psychologicalProfile"`
	Memory           []string `json:"memory"`
}

// Rules holds the tunable knobs of the simulation.
type Rules struct {
	// AgingStep is how many years pass per completed interaction.
	AgingStep int
	// MemoryLimit overrides MaxMemories when positive.
	MemoryLimit int
}

// DefaultRules matches the shipped balance: one year per turn, memory of 20.
func DefaultRules() Rules {
	return Rules{AgingStep: 1, MemoryLimit: MaxMemories}
}

func (r Rules) memoryLimit() int {
	if r.MemoryLimit > 0 {
		return r.MemoryLimit
	}
	return MaxMemories
}

// NewPlayerState creates the starting state for a fresh life. Intelligence is
// rolled once here and stays fixed for the whole run.
func NewPlayerState(gender, name string) PlayerState {
	return PlayerState{
		Gender:       gender,
		Name:         name,
		Age:          0,
		Money:        0,
		Health:       MaxHealth,
		Karma:        0,
		SocialSkills: 0,
		Intelligence: 80 + rand.Intn(41),
		TimeOfDay:    "morning",
		Traits:       []string{},
		Memory:       []string{},
	}
}

// CurrentPhase derives the lifecycle phase from the state. Death wins over
// victory when both conditions hold on the same turn.
func CurrentPhase(s PlayerState) Phase {
	if s.Gender == "" {
		return PhaseIntro
	}
	if s.Health <= MinHealth {
		return PhaseGameOver
	}
	if s.Age >= MaxAge {
		return PhaseVictory
	}
	return PhasePlaying
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp returns a copy of the state with every stat forced into its bounds.
func Clamp(s PlayerState) PlayerState {
	s.Health = clampInt(s.Health, MinHealth, MaxHealth)
	s.Age = clampInt(s.Age, MinAge, MaxAge)
	s.Karma = clampInt(s.Karma, MinKarma, MaxKarma)
	s.SocialSkills = clampInt(s.SocialSkills, MinSocial, MaxSocial)
	s.Money = clampInt64(s.Money, MinMoney, MaxMoney)
	return s
}
