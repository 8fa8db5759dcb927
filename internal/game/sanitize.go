package game

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxOptionTextLen = 200
	maxTraitLen      = 20
	maxOptions       = 2

	// traitPlaceholder replaces blank or unusable trait names.
	traitPlaceholder = "curieux"

	agePlaceholder = "{age}"
)

// Sanitize repairs a decoded turn so that applying it can never corrupt the
// player state. It is total (no error path) and idempotent: sanitizing an
// already sanitized turn changes nothing.
func Sanitize(t Turn, s PlayerState) Turn {
	t.HealthChange = clampInt(t.HealthChange, -10, 10)
	t.MoneyChange = clampInt64(t.MoneyChange, -10, 10)
	t.KarmaChange = clampInt(t.KarmaChange, -10, 10)

	t.Traits = sanitizeTraits(t.Traits)
	t.Message = substituteAge(t.Message, s.Age)
	t.Question.Text = substituteAge(t.Question.Text, s.Age)
	t.Question.Options = sanitizeOptions(t.Question.Options, s.Age)
	return t
}

func sanitizeOptions(opts []Option, age int) []Option {
	if len(opts) > maxOptions {
		opts = opts[:maxOptions]
	}
	out := make([]Option, 0, maxOptions)
	for _, o := range opts {
		o.Text = truncate(substituteAge(o.Text, age), maxOptionTextLen)
		if o.Text == "" {
			continue
		}
		o.Effect = sanitizeEffect(o.Effect)
		out = append(out, o)
	}
	// The game always presents a binary choice. If the model only produced
	// one usable option, pad with a neutral one.
	for len(out) < maxOptions {
		out = append(out, Option{Text: "Continuer sans rien changer", Effect: Effect{}})
	}
	return out
}

func sanitizeEffect(e Effect) Effect {
	e.Health = clampInt(e.Health, -100, 100)
	e.Money = clampInt64(e.Money, -10_000, 10_000)
	e.Karma = clampInt(e.Karma, -50, 50)
	e.Social = clampInt(e.Social, -50, 50)
	return e
}

func sanitizeTraits(traits []string) []string {
	out := make([]string, 0, len(traits))
	for _, tr := range traits {
		tr = strings.TrimSpace(tr)
		if tr == "" {
			tr = traitPlaceholder
		}
		out = append(out, truncate(tr, maxTraitLen))
	}
	return out
}

func substituteAge(text string, age int) string {
	if !strings.Contains(text, agePlaceholder) {
		return text
	}
	return strings.ReplaceAll(text, agePlaceholder, strconv.Itoa(age))
}

// truncate cuts at a rune boundary so multibyte text is never split mid-rune.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
