package ai

import (
	"github.com/pkoukk/tiktoken-go"
)

// TrimToTokenBudget cuts text down to at most budget tokens for the given
// model. Falls back to cl100k_base when the model is unknown to the
// tokenizer; if even that fails, the text is returned untouched rather than
// blocking the request.
func TrimToTokenBudget(text, modelName string, budget int) string {
	if budget <= 0 || text == "" {
		return text
	}
	enc, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return text
		}
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	return enc.Decode(tokens[:budget])
}
