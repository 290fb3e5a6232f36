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

type ConversationRepo struct {
	session *gocql.Session
}

func NewConversationRepo(session *gocql.Session) *ConversationRepo {
	return &ConversationRepo{session: session}
}

var _ domain.ConversationRepository = (*ConversationRepo)(nil)

// upsertPlan is the client-side guard decision for one index write.
type upsertPlan int

const (
	// planInsert: no entry exists yet, write a fresh row.
	planInsert upsertPlan = iota
	// planSkip: the stored entry reflects a newer message; drop the write.
	planSkip
	// planOverwrite: stored and incoming timestamps are equal. The row
	// shares the full clustering key, so a bare insert replaces it in
	// place. The delete+insert batch must not run for this case: both
	// statements would carry one mutation timestamp and the tombstone
	// wins the tie, erasing the entry from the user's index.
	planOverwrite
	// planReplace: the incoming message is strictly newer; the old row
	// sits at a different clustering position and must be deleted
	// alongside the insert.
	planReplace
)

// resolveUpsert applies the monotonic guard: found is false when the
// user has no entry for the conversation yet.
func resolveUpsert(existing time.Time, found bool, incoming time.Time) upsertPlan {
	switch {
	case !found:
		return planInsert
	case existing.After(incoming):
		return planSkip
	case existing.Equal(incoming):
		return planOverwrite
	default:
		return planReplace
	}
}

// Upsert refreshes the (user_id, conversation_id) entry.
//
// last_message_at is a clustering column, so it can neither be updated
// in place nor guarded with a conditional write. The monotonic guard is
// applied client-side instead: read the existing entry's timestamp
// within the user's partition, then act per resolveUpsert. The replace
// path runs as a single unlogged batch; both statements target the same
// partition.
func (r *ConversationRepo) Upsert(ctx context.Context, e *domain.ConversationEntry) error {
	// Filtering on conversation_id skips the last_message_at clustering
	// restriction, hence ALLOW FILTERING; the scan stays inside the
	// single user partition.
	var existing time.Time
	err := r.session.Query(`
		SELECT last_message_at
		FROM conversations_by_user
		WHERE user_id = ? AND conversation_id = ?
		ALLOW FILTERING`,
		e.UserID,
		gocql.UUID(e.ConversationID),
	).WithContext(ctx).Scan(&existing)

	found := true
	if errors.Is(err, gocql.ErrNotFound) {
		found = false
	} else if err != nil {
		return fmt.Errorf("read conversation entry: %w: %w", domain.ErrStorageUnavailable, err)
	}

	switch resolveUpsert(existing, found, e.LastMessageAt) {
	case planSkip:
		return nil
	case planInsert, planOverwrite:
		return r.insert(ctx, e)
	}

	batch := r.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	batch.Query(`
		DELETE FROM conversations_by_user
		WHERE user_id = ? AND last_message_at = ? AND conversation_id = ?`,
		e.UserID, existing, gocql.UUID(e.ConversationID))
	batch.Query(`
		INSERT INTO conversations_by_user (user_id, last_message_at, conversation_id, other_user_id, last_message_preview)
		VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.LastMessageAt, gocql.UUID(e.ConversationID), e.OtherUserID, e.LastMessagePreview)
	if err := r.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("replace conversation entry: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *ConversationRepo) insert(ctx context.Context, e *domain.ConversationEntry) error {
	err := r.session.Query(`
		INSERT INTO conversations_by_user (user_id, last_message_at, conversation_id, other_user_id, last_message_preview)
		VALUES (?, ?, ?, ?, ?)`,
		e.UserID,
		e.LastMessageAt,
		gocql.UUID(e.ConversationID),
		e.OtherUserID,
		e.LastMessagePreview,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert conversation entry: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *ConversationRepo) ListForUser(ctx context.Context, userID int64, before *time.Time, limit int) ([]*domain.ConversationEntry, error) {
	stmt := `
		SELECT user_id, last_message_at, conversation_id, other_user_id, last_message_preview
		FROM conversations_by_user
		WHERE user_id = ?`
	args := []any{userID}
	if before != nil {
		stmt += ` AND last_message_at < ?`
		args = append(args, *before)
	}
	stmt += ` LIMIT ?`
	args = append(args, limit)

	iter := r.session.Query(stmt, args...).WithContext(ctx).Iter()

	var (
		res     []*domain.ConversationEntry
		uid     int64
		lastAt  time.Time
		convID  gocql.UUID
		otherID int64
		preview string
	)
	for iter.Scan(&uid, &lastAt, &convID, &otherID, &preview) {
		res = append(res, &domain.ConversationEntry{
			UserID:             uid,
			ConversationID:     uuid.UUID(convID),
			OtherUserID:        otherID,
			LastMessageAt:      lastAt.UTC(),
			LastMessagePreview: preview,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list conversations: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return res, nil
}
