package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"messenger/internal/domain"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

var _ domain.ConversationRepository = (*ConversationRepo)(nil)

// Upsert replaces the (user_id, conversation_id) entry. The WHERE clause
// on the conflict action is the monotonic guard: a retry carrying an
// older last_message_at leaves the newer row untouched.
func (r *ConversationRepo) Upsert(ctx context.Context, e *domain.ConversationEntry) error {
	query := `
		INSERT INTO conversations_by_user (user_id, conversation_id, other_user_id, last_message_at, last_message_preview)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, conversation_id) DO UPDATE SET
			other_user_id = excluded.other_user_id,
			last_message_at = excluded.last_message_at,
			last_message_preview = excluded.last_message_preview
		WHERE excluded.last_message_at >= conversations_by_user.last_message_at
	`
	_, err := r.db.ExecContext(ctx, query,
		e.UserID,
		e.ConversationID.String(),
		e.OtherUserID,
		e.LastMessageAt.UnixMilli(),
		e.LastMessagePreview,
	)
	if err != nil {
		return fmt.Errorf("upsert conversation entry: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *ConversationRepo) ListForUser(ctx context.Context, userID int64, before *time.Time, limit int) ([]*domain.ConversationEntry, error) {
	query := `
		SELECT user_id, conversation_id, other_user_id, last_message_at, last_message_preview
		FROM conversations_by_user
		WHERE user_id = ?
	`
	args := []any{userID}
	if before != nil {
		query += ` AND last_message_at < ?`
		args = append(args, before.UnixMilli())
	}
	query += ` ORDER BY last_message_at DESC, conversation_id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var res []*domain.ConversationEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversations: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return res, nil
}

func scanEntry(rows *sql.Rows) (*domain.ConversationEntry, error) {
	var (
		convID string
		lastMs int64
		e      domain.ConversationEntry
	)
	if err := rows.Scan(&e.UserID, &convID, &e.OtherUserID, &lastMs, &e.LastMessagePreview); err != nil {
		return nil, fmt.Errorf("scan conversation entry: %w: %w", domain.ErrStorageUnavailable, err)
	}
	var err error
	if e.ConversationID, err = uuid.Parse(convID); err != nil {
		return nil, fmt.Errorf("parse conversation id: %w", err)
	}
	e.LastMessageAt = time.UnixMilli(lastMs).UTC()
	return &e, nil
}
