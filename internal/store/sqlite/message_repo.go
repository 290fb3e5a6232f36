package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"messenger/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Append(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages_by_conversation (conversation_id, created_at, message_id, sender_id, receiver_id, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ConversationID.String(),
		m.CreatedAt.UnixMilli(),
		m.ID.String(),
		m.SenderID,
		m.ReceiverID,
		m.Content,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *MessageRepo) ListBefore(ctx context.Context, conversationID uuid.UUID, before *time.Time, limit int) ([]*domain.Message, error) {
	query := `
		SELECT conversation_id, created_at, message_id, sender_id, receiver_id, content
		FROM messages_by_conversation
		WHERE conversation_id = ?
	`
	args := []any{conversationID.String()}
	if before != nil {
		query += ` AND created_at < ?`
		args = append(args, before.UnixMilli())
	}
	query += ` ORDER BY created_at DESC, message_id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var res []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return res, nil
}

func (r *MessageRepo) Latest(ctx context.Context, conversationID uuid.UUID) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT conversation_id, created_at, message_id, sender_id, receiver_id, content
		FROM messages_by_conversation
		WHERE conversation_id = ?
		ORDER BY created_at DESC, message_id ASC
		LIMIT 1
	`, conversationID.String())

	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		convID, msgID string
		createdMs     int64
		m             domain.Message
	)
	err := row.Scan(&convID, &createdMs, &msgID, &m.SenderID, &m.ReceiverID, &m.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan message: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if m.ConversationID, err = uuid.Parse(convID); err != nil {
		return nil, fmt.Errorf("parse conversation id: %w", err)
	}
	if m.ID, err = uuid.Parse(msgID); err != nil {
		return nil, fmt.Errorf("parse message id: %w", err)
	}
	m.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &m, nil
}
