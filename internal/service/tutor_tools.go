package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"lifeai-server/internal/model"
)

// Tool names exposed to the model.
const (
	toolSearchWarsInfo    = "search_wars_info"
	toolGenerateQuiz      = "generate_quiz"
	toolGenerateStudyCard = "generate_study_card"
	toolGenerateAudio     = "generate_audio_revision"
)

// Quiz bounds.
const (
	minQuizQuestions = 3
	maxQuizQuestions = 10
	quizOptionCount  = 4
)

// tutorTools returns the tool definitions handed to the model.
func tutorTools() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolSearchWarsInfo,
				Description: "Search the knowledge base of articles about modern conflicts. Use it whenever the user asks a factual question.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {"query": {"type": "string", "description": "The search query, in French"}},
					"required": ["query"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolGenerateQuiz,
				Description: "Generate a multiple-choice quiz on a topic when the user asks to be tested.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"topic": {"type": "string"},
						"count": {"type": "integer", "description": "Number of questions, 3 to 10"}
					},
					"required": ["topic"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolGenerateStudyCard,
				Description: "Generate a revision card (title, summary, key points) on a topic.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {"topic": {"type": "string"}},
					"required": ["topic"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolGenerateAudio,
				Description: "Generate a short spoken revision (audio file) on a topic when the user asks to listen.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {"topic": {"type": "string"}},
					"required": ["topic"]
				}`),
			},
		},
	}
}

// Quiz is the payload of a generated quiz.
type Quiz struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion has exactly four options, one correct.
type QuizQuestion struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// StudyCard is the payload of a generated revision card.
type StudyCard struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}

// AudioRevision points at a synthesized audio file.
type AudioRevision struct {
	Topic string `json:"topic"`
	URL   string `json:"url"`
}

// toolEnvelope is the typed JSON wrapper stored and streamed for structured
// tool results. It round-trips through message storage unchanged.
type toolEnvelope struct {
	Type      string         `json:"type"`
	Quiz      *Quiz          `json:"quiz,omitempty"`
	StudyCard *StudyCard     `json:"studyCard,omitempty"`
	Audio     *AudioRevision `json:"audio,omitempty"`
}

func (s *TutorService) generateQuiz(ctx context.Context, topic string, count int) (*Quiz, error) {
	if count < minQuizQuestions {
		count = minQuizQuestions
	}
	if count > maxQuizQuestions {
		count = maxQuizQuestions
	}

	system := "You are a history teacher writing quizzes in French. Respond with a single JSON object: " +
		`{"topic": string, "questions": [{"text": string, "options": [4 strings], "correctIndex": int}]}. ` +
		"Each question has exactly 4 options and exactly one correct answer at correctIndex."
	user := fmt.Sprintf("Write a quiz of %d questions on: %s", count, topic)

	raw, err := s.ai.GenerateJSON(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var quiz Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, fmt.Errorf("%w: quiz payload: %v", model.ErrMalformedModelOutput, err)
	}
	if quiz.Topic == "" {
		quiz.Topic = topic
	}

	questions := quiz.Questions[:0]
	for _, q := range quiz.Questions {
		if len(q.Options) != quizOptionCount || q.CorrectIndex < 0 || q.CorrectIndex >= quizOptionCount {
			continue
		}
		shuffleQuestion(&q, s.rand)
		questions = append(questions, q)
	}
	quiz.Questions = questions

	if len(quiz.Questions) < minQuizQuestions {
		return nil, fmt.Errorf("%w: quiz has too few valid questions", model.ErrMalformedModelOutput)
	}
	if len(quiz.Questions) > count {
		quiz.Questions = quiz.Questions[:count]
	}
	return &quiz, nil
}

// shuffleQuestion permutes the options so the correct answer's position never
// leaks from generation order, keeping CorrectIndex in sync.
func shuffleQuestion(q *QuizQuestion, rng *rand.Rand) {
	perm := rng.Perm(len(q.Options))
	shuffled := make([]string, len(q.Options))
	newCorrect := q.CorrectIndex
	for newIdx, oldIdx := range perm {
		shuffled[newIdx] = q.Options[oldIdx]
		if oldIdx == q.CorrectIndex {
			newCorrect = newIdx
		}
	}
	q.Options = shuffled
	q.CorrectIndex = newCorrect
}

func (s *TutorService) generateStudyCard(ctx context.Context, topic string) (*StudyCard, error) {
	system := "You are a history teacher writing revision cards in French. Respond with a single JSON object: " +
		`{"title": string, "summary": string, "keyPoints": [strings]}. ` +
		"The summary is 3 to 5 sentences; include 4 to 6 key points."
	user := "Write a revision card on: " + topic

	raw, err := s.ai.GenerateJSON(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var card StudyCard
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("%w: study card payload: %v", model.ErrMalformedModelOutput, err)
	}
	if card.Title == "" || card.Summary == "" {
		return nil, fmt.Errorf("%w: incomplete study card", model.ErrMalformedModelOutput)
	}
	return &card, nil
}

func (s *TutorService) generateAudioRevision(ctx context.Context, topic string) (*AudioRevision, error) {
	system := "You are a history teacher. Respond with a single JSON object: " +
		`{"summary": string}. ` +
		"The summary is a spoken-style revision of the topic in French, 120 to 200 words, no markup."
	user := "Write a spoken revision on: " + topic

	raw, err := s.ai.GenerateJSON(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Summary == "" {
		return nil, fmt.Errorf("%w: audio revision script", model.ErrMalformedModelOutput)
	}

	audio, err := s.speech.Synthesize(ctx, payload.Summary)
	if err != nil {
		return nil, err
	}

	url, err := s.media.SaveAudio("revision-"+uuid.NewString()+".mp3", audio)
	if err != nil {
		return nil, err
	}
	return &AudioRevision{Topic: topic, URL: url}, nil
}
