package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"messenger/internal/domain"
	"messenger/internal/pagination"
)

// ConversationService serves the per-user conversation index and the
// single-conversation summary lookup.
type ConversationService struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository

	defaultPageSize int
	maxPageSize     int
}

func NewConversationService(
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	defaultPageSize, maxPageSize int,
) *ConversationService {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &ConversationService{
		conversations:   conversations,
		messages:        messages,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ListForUser returns one page of the user's conversations, most recent
// first, with the same cursor contract as message listing.
func (s *ConversationService) ListForUser(ctx context.Context, userID int64, limit int, cursor string) (*domain.ConversationPage, error) {
	var before *time.Time
	if cursor != "" {
		t, err := pagination.Decode(cursor)
		if err != nil {
			return nil, err
		}
		before = &t
	}

	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	entries, err := s.conversations.ListForUser(ctx, userID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	page := &domain.ConversationPage{Data: entries, Limit: limit}
	if len(entries) == limit {
		page.NextCursor = pagination.Encode(entries[len(entries)-1].LastMessageAt)
	}
	return page, nil
}

// GetConversation reconstructs the conversation summary from the most
// recent message row. A conversation only becomes observable once it
// has at least one message; before that it is ErrNotFound.
func (s *ConversationService) GetConversation(ctx context.Context, conversationID uuid.UUID) (*domain.ConversationSummary, error) {
	msg, err := s.messages.Latest(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &domain.ConversationSummary{
		ID:                 conversationID,
		User1ID:            msg.SenderID,
		User2ID:            msg.ReceiverID,
		LastMessageAt:      msg.CreatedAt,
		LastMessageContent: msg.Content,
	}, nil
}
