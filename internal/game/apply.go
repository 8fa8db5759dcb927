package game

import (
	"fmt"
	"strings"
)

// ApplyTurn is the single mutation entry point of the simulation. It folds a
// sanitized turn and the player's chosen option into the state: stat deltas
// (clamped), profile traits, a memory entry, the interaction counter and
// aging. The input state is passed by value and never mutated.
func ApplyTurn(s PlayerState, t Turn, choice int, r Rules) (PlayerState, Phase) {
	if choice < 0 || choice >= len(t.Question.Options) {
		choice = 0
	}

	s.Health += t.HealthChange
	s.Money += t.MoneyChange
	s.Karma += t.KarmaChange

	if len(t.Question.Options) > 0 {
		eff := t.Question.Options[choice].Effect
		s.Health += eff.Health
		s.Money += eff.Money
		s.Karma += eff.Karma
		s.SocialSkills += eff.Social
	}

	s.Traits = mergeTraits(s.Traits, t.Traits)

	var chosen string
	if len(t.Question.Options) > 0 {
		chosen = t.Question.Options[choice].Text
	}
	s.Memory = appendMemory(s.Memory, memoryEntry(s.Age, t.Message, chosen), r.memoryLimit())

	s.InteractionCount++
	s.Age += r.AgingStep

	s = Clamp(s)
	return s, CurrentPhase(s)
}

// mergeTraits appends new traits to the profile. A trait that is already
// present is refreshed: it moves to the most-recent slot instead of being
// duplicated. The profile keeps at most MaxTraits entries, oldest first out.
func mergeTraits(existing, incoming []string) []string {
	out := make([]string, len(existing))
	copy(out, existing)

	for _, tr := range incoming {
		tr = strings.TrimSpace(tr)
		if tr == "" {
			continue
		}
		for i, have := range out {
			if strings.EqualFold(have, tr) {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
		out = append(out, tr)
	}

	if len(out) > MaxTraits {
		out = out[len(out)-MaxTraits:]
	}
	return out
}

func appendMemory(mem []string, entry string, limit int) []string {
	out := make([]string, len(mem))
	copy(out, mem)
	out = append(out, entry)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func memoryEntry(age int, message, chosen string) string {
	message = strings.TrimSpace(message)
	if chosen == "" {
		return fmt.Sprintf("À %d ans: %s", age, message)
	}
	return fmt.Sprintf("À %d ans: %s (choix: %s)", age, message, chosen)
}
