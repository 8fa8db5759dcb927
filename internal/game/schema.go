package game

import (
	"encoding/json"
	"fmt"

	"lifeai-server/internal/model"
)

// Effect is the stat delta attached to an option.
type Effect struct {
	Health int   `json:"health"`
	Money  int64 `json:"money"`
	Karma  int   `json:"karma"`
	Social int   `json:"social"`
}

// Option is one of the choices offered to the player.
type Option struct {
	Text   string `json:"text"`
	Effect Effect `json:"effect"`
}

// Question carries the next decision point.
type Question struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Turn is the structured model output for a single interaction.
type Turn struct {
	HealthChange int      `json:"healthChange"`
	MoneyChange  int64    `json:"moneyChange"`
	KarmaChange  int      `json:"karmaChange"`
	Traits       []string `json:"psychologicalProfile"`
	Message      string   `json:"message"`
	Question     Question `json:"question"`
}

// TurnSchema returns the JSON schema handed to the model as its mandatory
// output format. Kept as a raw document so the generation layer can pass it
// straight through.
func TurnSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "healthChange": {"type": "integer", "minimum": -10, "maximum": 10},
    "moneyChange": {"type": "integer", "minimum": -10, "maximum": 10},
    "karmaChange": {"type": "integer", "minimum": -10, "maximum": 10},
    "psychologicalProfile": {"type": "array", "items": {"type": "string"}},
    "message": {"type": "string"},
    "question": {
      "type": "object",
      "properties": {
        "text": {"type": "string"},
        "options": {
          "type": "array",
          "minItems": 2,
          "maxItems": 2,
          "items": {
            "type": "object",
            "properties": {
              "text": {"type": "string"},
              "effect": {
                "type": "object",
                "properties": {
                  "health": {"type": "integer"},
                  "money": {"type": "integer"},
                  "karma": {"type": "integer"},
                  "social": {"type": "integer"}
                },
                "required": ["health", "money", "karma", "social"]
              }
            },
            "required": ["text", "effect"]
          }
        }
      },
      "required": ["text", "options"]
    }
  },
  "required": ["healthChange", "moneyChange", "karmaChange", "psychologicalProfile", "message", "question"]
}`)
}

// ParseTurn decodes raw model output into a Turn. Shape violations that the
// sanitizer cannot repair (no message, no question) are reported as
// ErrMalformedModelOutput so callers can map them uniformly.
func ParseTurn(raw []byte) (Turn, error) {
	var t Turn
	if err := json.Unmarshal(raw, &t); err != nil {
		return Turn{}, fmt.Errorf("%w: %v", model.ErrMalformedModelOutput, err)
	}
	if t.Message == "" {
		return Turn{}, fmt.Errorf("%w: empty message", model.ErrMalformedModelOutput)
	}
	if t.Question.Text == "" || len(t.Question.Options) == 0 {
		return Turn{}, fmt.Errorf("%w: missing question", model.ErrMalformedModelOutput)
	}
	return t, nil
}
