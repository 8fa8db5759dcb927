package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
	"lifeai-server/pkg/ai"
)

// maxToolRounds bounds the tool loop so a confused model cannot spin.
const maxToolRounds = 5

const tutorSystemPrompt = `You are a patient history tutor specialized in modern conflicts, answering in French.
Ground factual answers in the knowledge base via the search tool and cite the source title when you use one.
Stay on subject: history, geopolitics and the study methods around them. Politely decline anything else.
Use the quiz, study card and audio tools only when the user asks to be tested, to revise or to listen.`

// ChatCompleter is the model surface the tutor needs.
type ChatCompleter interface {
	StreamChat(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool, onDelta func(string) error) (openai.ChatCompletionMessage, error)
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error)
	ChatModel() string
}

// Searcher answers semantic queries.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// SpeechSynthesizer turns text into audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// StreamEvents receives the pieces of a completion as they are produced.
// OnDelta gets text fragments; OnTool gets finished structured tool results.
type StreamEvents struct {
	OnDelta func(text string) error
	OnTool  func(envelope json.RawMessage) error
}

// TutorService runs the RAG chat completion with tool use.
type TutorService struct {
	ai     ChatCompleter
	search Searcher
	speech SpeechSynthesizer
	media  MediaStore
	chat   *ChatService
	logger *zap.Logger
	rand   *rand.Rand

	contextTokenBudget int
}

// NewTutorService creates the tutor service.
func NewTutorService(
	aiClient ChatCompleter,
	search Searcher,
	speech SpeechSynthesizer,
	media MediaStore,
	chat *ChatService,
	contextTokenBudget int,
	logger *zap.Logger,
) *TutorService {
	return &TutorService{
		ai:                 aiClient,
		search:             search,
		speech:             speech,
		media:              media,
		chat:               chat,
		logger:             logger.Named("TutorService"),
		rand:               rand.New(rand.NewSource(time.Now().UnixNano())),
		contextTokenBudget: contextTokenBudget,
	}
}

// Complete answers the user's message inside a chat, streaming the reply
// through ev. The user message and the full assistant output are persisted
// after the stream finishes; persistence failures are logged, never streamed.
func (s *TutorService) Complete(ctx context.Context, userID, chatID uuid.UUID, userMessage string, ev StreamEvents) error {
	if userMessage == "" {
		return fmt.Errorf("%w: empty message", model.ErrValidation)
	}

	history, err := s.chat.ListMessages(ctx, userID, chatID)
	if err != nil {
		return err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: tutorSystemPrompt,
	})
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	var fullText string
	var envelopes []json.RawMessage

	for round := 0; ; round++ {
		assistant, err := s.ai.StreamChat(ctx, messages, tutorTools(), func(delta string) error {
			fullText += delta
			if ev.OnDelta != nil {
				return ev.OnDelta(delta)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if len(assistant.ToolCalls) == 0 {
			break
		}
		if round >= maxToolRounds {
			s.logger.Warn("Tool loop limit reached", zap.String("chat_id", chatID.String()))
			break
		}

		messages = append(messages, assistant)
		for _, call := range assistant.ToolCalls {
			result, envelope, err := s.runTool(ctx, call)
			if err != nil {
				// The model gets the failure and can answer without
				// the tool; hard upstream errors still abort.
				if !toolFailureIsRecoverable(err) {
					return err
				}
				s.logger.Warn("Tool call failed",
					zap.String("tool", call.Function.Name), zap.Error(err))
				result = `{"error": "tool unavailable"}`
			}
			if envelope != nil {
				envelopes = append(envelopes, envelope)
				if ev.OnTool != nil {
					if err := ev.OnTool(envelope); err != nil {
						return fmt.Errorf("stream consumer failed: %w", err)
					}
				}
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	s.persist(ctx, userID, chatID, userMessage, fullText, envelopes)
	return nil
}

// runTool dispatches one tool call. It returns the content fed back to the
// model and, for structured results, the envelope streamed to the client.
func (s *TutorService) runTool(ctx context.Context, call openai.ToolCall) (string, json.RawMessage, error) {
	var args struct {
		Query string `json:"query"`
		Topic string `json:"topic"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return "", nil, fmt.Errorf("%w: tool arguments: %v", model.ErrMalformedModelOutput, err)
	}

	switch call.Function.Name {
	case toolSearchWarsInfo:
		results, err := s.search.Search(ctx, args.Query)
		if err != nil {
			return "", nil, err
		}
		for i := range results {
			results[i].Content = ai.TrimToTokenBudget(results[i].Content, s.ai.ChatModel(), s.contextTokenBudget)
		}
		payload, err := json.Marshal(results)
		if err != nil {
			return "", nil, fmt.Errorf("failed to marshal search results: %w", err)
		}
		return string(payload), nil, nil

	case toolGenerateQuiz:
		quiz, err := s.generateQuiz(ctx, args.Topic, args.Count)
		if err != nil {
			return "", nil, err
		}
		return s.envelope(toolEnvelope{Type: "quiz", Quiz: quiz})

	case toolGenerateStudyCard:
		card, err := s.generateStudyCard(ctx, args.Topic)
		if err != nil {
			return "", nil, err
		}
		return s.envelope(toolEnvelope{Type: "study_card", StudyCard: card})

	case toolGenerateAudio:
		audio, err := s.generateAudioRevision(ctx, args.Topic)
		if err != nil {
			return "", nil, err
		}
		return s.envelope(toolEnvelope{Type: "audio_revision", Audio: audio})

	default:
		return "", nil, fmt.Errorf("%w: unknown tool %q", model.ErrMalformedModelOutput, call.Function.Name)
	}
}

func (s *TutorService) envelope(env toolEnvelope) (string, json.RawMessage, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal tool envelope: %w", err)
	}
	return string(payload), json.RawMessage(payload), nil
}

// toolFailureIsRecoverable reports whether the model can be told about the
// failure and continue. Storage failures abort: the user asked for an
// artifact the system could not produce.
func toolFailureIsRecoverable(err error) bool {
	return !errors.Is(err, model.ErrStorageFailed)
}

func (s *TutorService) persist(ctx context.Context, userID, chatID uuid.UUID, userMessage, fullText string, envelopes []json.RawMessage) {
	if _, err := s.chat.AppendMessage(ctx, userID, chatID, model.RoleUser, userMessage); err != nil {
		s.logger.Error("Failed to persist user message", zap.Error(err))
		return
	}
	for _, env := range envelopes {
		if _, err := s.chat.AppendMessage(ctx, userID, chatID, model.RoleAssistant, string(env)); err != nil {
			s.logger.Error("Failed to persist tool result", zap.Error(err))
		}
	}
	if fullText != "" {
		if _, err := s.chat.AppendMessage(ctx, userID, chatID, model.RoleAssistant, fullText); err != nil {
			s.logger.Error("Failed to persist assistant message", zap.Error(err))
		}
	}
}
