package domain

import (
	"time"

	"github.com/google/uuid"
)

// PreviewRunes is the fixed prefix length of the denormalized
// last-message preview stored in conversations_by_user.
const PreviewRunes = 50

// Message is a single immutable chat message. It is written exactly once
// into the conversation's partition and never updated or deleted.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	ReceiverID     int64     `json:"receiver_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationEntry is one row of a user's denormalized conversation
// index, refreshed on every message touching that conversation. Exactly
// two logical entries exist per conversation with at least one message.
type ConversationEntry struct {
	UserID             int64     `json:"user_id"`
	ConversationID     uuid.UUID `json:"conversation_id"`
	OtherUserID        int64     `json:"other_user_id"`
	LastMessageAt      time.Time `json:"last_message_at"`
	LastMessagePreview string    `json:"last_message_preview"`
}

// ConversationSummary is conversation metadata reconstructed from the
// most recent message row. There is no standalone conversation record.
type ConversationSummary struct {
	ID                 uuid.UUID `json:"id"`
	User1ID            int64     `json:"user1_id"`
	User2ID            int64     `json:"user2_id"`
	LastMessageAt      time.Time `json:"last_message_at"`
	LastMessageContent string    `json:"last_message_content"`
}

// MessagePage is one page of a newest-first message scan. NextCursor is
// set only when the page was full and encodes the oldest returned
// timestamp for keyset continuation.
type MessagePage struct {
	Data       []*Message `json:"data"`
	Limit      int        `json:"limit"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ConversationPage is one page of a user's conversation index scan.
type ConversationPage struct {
	Data       []*ConversationEntry `json:"data"`
	Limit      int                  `json:"limit"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// Preview truncates message content to the fixed index prefix length,
// counting runes so multi-byte text is never cut mid-character.
func Preview(content string) string {
	r := []rune(content)
	if len(r) <= PreviewRunes {
		return content
	}
	return string(r[:PreviewRunes])
}
