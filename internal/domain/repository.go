package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRepository defines persistence operations over the
// messages_by_conversation partition.
type MessageRepository interface {
	// Append writes one immutable row. The caller assigns ID and
	// CreatedAt; the row keys on (created_at desc, message_id asc).
	Append(ctx context.Context, m *Message) error
	// ListBefore scans the conversation partition newest-first. A non-nil
	// before applies a strict created_at < before bound. An empty result
	// is not an error.
	ListBefore(ctx context.Context, conversationID uuid.UUID, before *time.Time, limit int) ([]*Message, error)
	// Latest returns the single most recent row, or ErrNotFound when the
	// partition is empty.
	Latest(ctx context.Context, conversationID uuid.UUID) (*Message, error)
}

// ConversationRepository defines persistence operations over the
// conversations_by_user index.
type ConversationRepository interface {
	// Upsert replaces the entry at (user_id, conversation_id) unless the
	// stored last_message_at is newer than the incoming one, so an
	// out-of-order retry never regresses the preview.
	Upsert(ctx context.Context, e *ConversationEntry) error
	// ListForUser scans the user's index partition ordered by
	// last_message_at desc, with the same bound contract as ListBefore.
	ListForUser(ctx context.Context, userID int64, before *time.Time, limit int) ([]*ConversationEntry, error)
}
