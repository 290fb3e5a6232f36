package cassandra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"messenger/internal/domain"
)

type MessageRepo struct {
	session *gocql.Session
}

func NewMessageRepo(session *gocql.Session) *MessageRepo {
	return &MessageRepo{session: session}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Append(ctx context.Context, m *domain.Message) error {
	err := r.session.Query(`
		INSERT INTO messages_by_conversation (conversation_id, created_at, message_id, sender_id, receiver_id, content)
		VALUES (?, ?, ?, ?, ?, ?)`,
		gocql.UUID(m.ConversationID),
		m.CreatedAt,
		gocql.UUID(m.ID),
		m.SenderID,
		m.ReceiverID,
		m.Content,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert message: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *MessageRepo) ListBefore(ctx context.Context, conversationID uuid.UUID, before *time.Time, limit int) ([]*domain.Message, error) {
	stmt := `
		SELECT created_at, message_id, sender_id, receiver_id, content
		FROM messages_by_conversation
		WHERE conversation_id = ?`
	args := []any{gocql.UUID(conversationID)}
	if before != nil {
		stmt += ` AND created_at < ?`
		args = append(args, *before)
	}
	stmt += ` LIMIT ?`
	args = append(args, limit)

	// No ORDER BY needed: rows come back in clustering order,
	// (created_at desc, message_id asc).
	iter := r.session.Query(stmt, args...).WithContext(ctx).Iter()

	var (
		res       []*domain.Message
		createdAt time.Time
		msgID     gocql.UUID
		sender    int64
		receiver  int64
		content   string
	)
	for iter.Scan(&createdAt, &msgID, &sender, &receiver, &content) {
		res = append(res, &domain.Message{
			ID:             uuid.UUID(msgID),
			ConversationID: conversationID,
			SenderID:       sender,
			ReceiverID:     receiver,
			Content:        content,
			CreatedAt:      createdAt.UTC(),
		})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list messages: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return res, nil
}

func (r *MessageRepo) Latest(ctx context.Context, conversationID uuid.UUID) (*domain.Message, error) {
	var (
		createdAt time.Time
		msgID     gocql.UUID
		sender    int64
		receiver  int64
		content   string
	)
	err := r.session.Query(`
		SELECT created_at, message_id, sender_id, receiver_id, content
		FROM messages_by_conversation
		WHERE conversation_id = ?
		LIMIT 1`,
		gocql.UUID(conversationID),
	).WithContext(ctx).Scan(&createdAt, &msgID, &sender, &receiver, &content)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest message: %w: %w", domain.ErrStorageUnavailable, err)
	}

	return &domain.Message{
		ID:             uuid.UUID(msgID),
		ConversationID: conversationID,
		SenderID:       sender,
		ReceiverID:     receiver,
		Content:        content,
		CreatedAt:      createdAt.UTC(),
	}, nil
}
