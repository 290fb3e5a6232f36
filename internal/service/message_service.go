package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"messenger/internal/domain"
	"messenger/internal/identity"
	"messenger/internal/pagination"
	"messenger/pkg/metrics"
)

// MessageService is the send/read facade over the message store and the
// conversation index. It holds no state of its own; every invariant
// lives in the components it composes.
type MessageService struct {
	messages      domain.MessageRepository
	conversations domain.ConversationRepository
	log           *zap.Logger

	maxContentRunes int
	defaultPageSize int
	maxPageSize     int
}

func NewMessageService(
	messages domain.MessageRepository,
	conversations domain.ConversationRepository,
	log *zap.Logger,
	maxContentRunes, defaultPageSize, maxPageSize int,
) *MessageService {
	if maxContentRunes <= 0 {
		maxContentRunes = 5000
	}
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &MessageService{
		messages:        messages,
		conversations:   conversations,
		log:             log,
		maxContentRunes: maxContentRunes,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

type SendMessageInput struct {
	SenderID   int64
	ReceiverID int64
	Content    string
}

// SendOutcome is the tagged result of SendMessage. Message is always set
// on return without error. IndexLag lists the participants whose
// conversation index row could not be refreshed; an empty slice means
// full success.
type SendOutcome struct {
	Message  *domain.Message
	IndexLag []*domain.PartialWriteError
}

// SendMessage derives the conversation identity, appends the message,
// then fans out one index upsert per participant.
//
// The two fan-out writes are independent: a failed first write never
// skips the second, and neither failure is masked as success — each one
// is reported in the outcome, logged with the conversation and the
// failed side, and counted for alerting. Only a failed append is an
// error; the message does not exist in that case.
func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*SendOutcome, error) {
	if in.Content == "" {
		return nil, domain.Validationf("message content cannot be empty")
	}
	if len([]rune(in.Content)) > s.maxContentRunes {
		return nil, domain.Validationf("message content exceeds %d characters", s.maxContentRunes)
	}

	convID, err := identity.Derive(in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		SenderID:       in.SenderID,
		ReceiverID:     in.ReceiverID,
		Content:        in.Content,
		// Truncated to the storage layer's timestamp precision so the
		// value round-trips identically through reads and cursors.
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	metrics.MessagesSent.Inc()

	out := &SendOutcome{Message: msg}
	preview := domain.Preview(msg.Content)
	sides := [2]struct{ userID, otherID int64 }{
		{in.SenderID, in.ReceiverID},
		{in.ReceiverID, in.SenderID},
	}
	for _, side := range sides {
		entry := &domain.ConversationEntry{
			UserID:             side.userID,
			ConversationID:     convID,
			OtherUserID:        side.otherID,
			LastMessageAt:      msg.CreatedAt,
			LastMessagePreview: preview,
		}
		if err := s.conversations.Upsert(ctx, entry); err != nil {
			pw := &domain.PartialWriteError{
				ConversationID: convID,
				MessageID:      msg.ID,
				UserID:         side.userID,
				Err:            err,
			}
			out.IndexLag = append(out.IndexLag, pw)
			metrics.IndexFanoutFailures.Inc()
			s.log.Warn("conversation index fan-out failed",
				zap.String("conversation_id", convID.String()),
				zap.String("message_id", msg.ID.String()),
				zap.Int64("user_id", side.userID),
				zap.Error(err),
			)
		}
	}
	return out, nil
}

// ListMessages returns one newest-first page of conversation history.
// cursor, when non-empty, is an opaque token from a previous page.
func (s *MessageService) ListMessages(ctx context.Context, conversationID uuid.UUID, limit int, cursor string) (*domain.MessagePage, error) {
	var before *time.Time
	if cursor != "" {
		t, err := pagination.Decode(cursor)
		if err != nil {
			return nil, err
		}
		before = &t
	}
	return s.listPage(ctx, conversationID, before, limit)
}

// ListMessagesBefore returns the page of messages strictly older than
// the given timestamp.
func (s *MessageService) ListMessagesBefore(ctx context.Context, conversationID uuid.UUID, before time.Time, limit int) (*domain.MessagePage, error) {
	return s.listPage(ctx, conversationID, &before, limit)
}

func (s *MessageService) listPage(ctx context.Context, conversationID uuid.UUID, before *time.Time, limit int) (*domain.MessagePage, error) {
	limit = s.normalizeLimit(limit)
	msgs, err := s.messages.ListBefore(ctx, conversationID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	page := &domain.MessagePage{Data: msgs, Limit: limit}
	if len(msgs) == limit {
		// The cursor carries only the last timestamp and the next page
		// starts strictly before it, so a second message sharing that
		// millisecond across the page boundary is not revisited. Caller
		// timestamps are minted per send, which keeps ties rare.
		page.NextCursor = pagination.Encode(msgs[len(msgs)-1].CreatedAt)
	}
	return page, nil
}

func (s *MessageService) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.defaultPageSize
	}
	if limit > s.maxPageSize {
		return s.maxPageSize
	}
	return limit
}
