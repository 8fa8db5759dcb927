package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
	"lifeai-server/internal/repository"
)

// maxChatNameLen bounds auto-generated chat names.
const maxChatNameLen = 60

// ChatService manages conversations and their messages. Every operation
// checks that the chat belongs to the calling user.
type ChatService struct {
	chats    repository.ChatRepository
	messages repository.MessageRepository
	logger   *zap.Logger
}

// NewChatService creates the chat service.
func NewChatService(chats repository.ChatRepository, messages repository.MessageRepository, logger *zap.Logger) *ChatService {
	return &ChatService{chats: chats, messages: messages, logger: logger.Named("ChatService")}
}

// CreateChat opens a conversation. An empty name is derived from the first
// message text.
func (s *ChatService) CreateChat(ctx context.Context, userID uuid.UUID, name, firstMessage string) (*model.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = deriveChatName(firstMessage)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: chat name or first message required", model.ErrValidation)
	}

	chat := &model.Chat{ID: uuid.New(), Name: name, UserID: userID}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// ListChats returns the user's conversations, most recently active first.
func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID) ([]*model.Chat, error) {
	return s.chats.ListByUser(ctx, userID)
}

// RenameChat changes a conversation's name.
func (s *ChatService) RenameChat(ctx context.Context, userID, chatID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty chat name", model.ErrValidation)
	}
	if _, err := s.authorizeChat(ctx, userID, chatID); err != nil {
		return err
	}
	return s.chats.Rename(ctx, chatID, name)
}

// DeleteChat removes a conversation; its messages cascade.
func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	if _, err := s.authorizeChat(ctx, userID, chatID); err != nil {
		return err
	}
	return s.chats.Delete(ctx, chatID)
}

// ListMessages returns a conversation's messages in chronological order.
func (s *ChatService) ListMessages(ctx context.Context, userID, chatID uuid.UUID) ([]*model.Message, error) {
	if _, err := s.authorizeChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.messages.ListByChat(ctx, chatID)
}

// AppendMessage stores one message and bumps the chat's activity timestamp.
func (s *ChatService) AppendMessage(ctx context.Context, userID, chatID uuid.UUID, role, content string) (*model.Message, error) {
	if role != model.RoleUser && role != model.RoleAssistant {
		return nil, fmt.Errorf("%w: invalid role %q", model.ErrValidation, role)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: empty message content", model.ErrValidation)
	}
	if _, err := s.authorizeChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	msg := &model.Message{ID: uuid.New(), ChatID: chatID, Content: content, Role: role}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.chats.Touch(ctx, chatID); err != nil {
		s.logger.Warn("Failed to bump chat activity", zap.String("chat_id", chatID.String()), zap.Error(err))
	}
	return msg, nil
}

func (s *ChatService) authorizeChat(ctx context.Context, userID, chatID uuid.UUID) (*model.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, model.ErrForbidden
	}
	return chat, nil
}

func deriveChatName(firstMessage string) string {
	name := strings.TrimSpace(firstMessage)
	if utf8.RuneCountInString(name) > maxChatNameLen {
		runes := []rune(name)
		name = string(runes[:maxChatNameLen-1]) + "…"
	}
	return name
}
