package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTurn() Turn {
	return Turn{
		HealthChange: 2,
		MoneyChange:  -1,
		KarmaChange:  0,
		Traits:       []string{"curieux"},
		Message:      "Une journée ordinaire.",
		Question: Question{
			Text: "Que fais-tu ?",
			Options: []Option{
				{Text: "Option A", Effect: Effect{Health: 1}},
				{Text: "Option B", Effect: Effect{Money: -5}},
			},
		},
	}
}

func TestSanitizeClampsTopLevelDeltas(t *testing.T) {
	turn := validTurn()
	turn.HealthChange = 99
	turn.MoneyChange = -99
	turn.KarmaChange = 42

	got := Sanitize(turn, PlayerState{})

	assert.Equal(t, 10, got.HealthChange)
	assert.Equal(t, int64(-10), got.MoneyChange)
	assert.Equal(t, 10, got.KarmaChange)
}

func TestSanitizeClampsOptionEffects(t *testing.T) {
	turn := validTurn()
	turn.Question.Options[0].Effect = Effect{Health: 500, Money: -99_999, Karma: 80, Social: -80}

	got := Sanitize(turn, PlayerState{})

	eff := got.Question.Options[0].Effect
	assert.Equal(t, 100, eff.Health)
	assert.Equal(t, int64(-10_000), eff.Money)
	assert.Equal(t, 50, eff.Karma)
	assert.Equal(t, -50, eff.Social)
}

func TestSanitizeCapsOptionsAtTwo(t *testing.T) {
	turn := validTurn()
	turn.Question.Options = append(turn.Question.Options,
		Option{Text: "Option C"}, Option{Text: "Option D"})

	got := Sanitize(turn, PlayerState{})

	require.Len(t, got.Question.Options, 2)
	assert.Equal(t, "Option A", got.Question.Options[0].Text)
	assert.Equal(t, "Option B", got.Question.Options[1].Text)
}

func TestSanitizePadsSingleOption(t *testing.T) {
	turn := validTurn()
	turn.Question.Options = turn.Question.Options[:1]

	got := Sanitize(turn, PlayerState{})

	require.Len(t, got.Question.Options, 2)
	assert.Equal(t, "Option A", got.Question.Options[0].Text)
	assert.NotEmpty(t, got.Question.Options[1].Text)
	assert.Equal(t, Effect{}, got.Question.Options[1].Effect)
}

func TestSanitizeTruncatesOptionText(t *testing.T) {
	turn := validTurn()
	turn.Question.Options[0].Text = strings.Repeat("é", 300)

	got := Sanitize(turn, PlayerState{})

	assert.Equal(t, 200, len([]rune(got.Question.Options[0].Text)))
}

func TestSanitizeTraits(t *testing.T) {
	turn := validTurn()
	turn.Traits = []string{"  ", strings.Repeat("x", 40), "ambitieux"}

	got := Sanitize(turn, PlayerState{})

	require.Len(t, got.Traits, 3)
	assert.Equal(t, "curieux", got.Traits[0])
	assert.Equal(t, strings.Repeat("x", 20), got.Traits[1])
	assert.Equal(t, "ambitieux", got.Traits[2])
}

func TestSanitizeSubstitutesAgePlaceholder(t *testing.T) {
	turn := validTurn()
	turn.Message = "Tu as maintenant {age} ans."
	turn.Question.Text = "À {age} ans, que fais-tu ?"
	turn.Question.Options[0].Text = "Fêter tes {age} ans"

	got := Sanitize(turn, PlayerState{Age: 27})

	assert.Equal(t, "Tu as maintenant 27 ans.", got.Message)
	assert.Equal(t, "À 27 ans, que fais-tu ?", got.Question.Text)
	assert.Equal(t, "Fêter tes 27 ans", got.Question.Options[0].Text)
}

func TestSanitizeIsIdempotent(t *testing.T) {
	turn := validTurn()
	turn.HealthChange = 50
	turn.Question.Options = turn.Question.Options[:1]
	turn.Message = "Tu as {age} ans."

	state := PlayerState{Age: 12}
	once := Sanitize(turn, state)
	twice := Sanitize(once, state)

	assert.Equal(t, once, twice)
}

func TestSanitizeHandlesEmptyTurn(t *testing.T) {
	assert.NotPanics(t, func() {
		got := Sanitize(Turn{}, PlayerState{})
		assert.Len(t, got.Question.Options, 2)
	})
}

func TestParseTurn(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `{"healthChange":1,"moneyChange":0,"karmaChange":0,"psychologicalProfile":[],"message":"ok","question":{"text":"?","options":[{"text":"a","effect":{"health":0,"money":0,"karma":0,"social":0}},{"text":"b","effect":{"health":0,"money":0,"karma":0,"social":0}}]}}`,
		},
		{name: "not json", raw: `narrative text`, wantErr: true},
		{name: "empty message", raw: `{"message":"","question":{"text":"?","options":[{"text":"a"}]}}`, wantErr: true},
		{name: "missing question", raw: `{"message":"ok","question":{"text":"","options":[]}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTurn([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
