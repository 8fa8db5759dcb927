package model

import (
	"time"

	"github.com/google/uuid"
)

// Message roles as stored in the database.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Chat is a named conversation belonging to one user.
type Chat struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Message is one chat entry. Content is plain text for regular messages; tool
// results (quiz, study card, audio revision) are stored as a JSON envelope
// with a "type" discriminator and round-trip through storage unchanged.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChatID    uuid.UUID `json:"chatId" db:"chat_id"`
	Content   string    `json:"content" db:"content"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
