// Command seed fills the store with deterministic-shaped test data:
// random user pairs, a conversation per pair, and a backdated message
// history spaced ten minutes apart. The conversation index is refreshed
// through the same repository upserts the server uses, so only the most
// recent message of each conversation lands in it.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/identity"
	"messenger/internal/store/cassandra"
	"messenger/pkg/logger"
)

const (
	numUsers           = 10
	numConversations   = 15
	maxMessagesPerConv = 50
	minMessagesPerConv = 10
	messageSpacing     = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	session, err := cassandra.Open(cassandra.Config{
		Hosts:       cfg.CassandraHosts,
		Port:        cfg.CassandraPort,
		Keyspace:    cfg.CassandraKeyspace,
		Consistency: cfg.CassandraConsistency,
		Timeout:     cfg.CassandraTimeout,
	})
	if err != nil {
		zlog.Fatal("failed to connect to cassandra", zap.Error(err))
	}
	defer session.Close()

	msgRepo := cassandra.NewMessageRepo(session)
	convRepo := cassandra.NewConversationRepo(session)

	ctx := context.Background()
	for i := 0; i < numConversations; i++ {
		if err := seedConversation(ctx, msgRepo, convRepo); err != nil {
			zlog.Fatal("failed to seed conversation", zap.Error(err))
		}
	}

	zlog.Info("test data generation completed",
		zap.Int("conversations", numConversations),
		zap.Int("user_id_max", numUsers))
}

func seedConversation(ctx context.Context, msgRepo *cassandra.MessageRepo, convRepo *cassandra.ConversationRepo) error {
	user1 := int64(rand.Intn(numUsers) + 1)
	user2 := int64(rand.Intn(numUsers-1) + 1)
	if user2 >= user1 {
		user2++
	}

	convID, err := identity.Derive(user1, user2)
	if err != nil {
		return err
	}

	n := rand.Intn(maxMessagesPerConv-minMessagesPerConv+1) + minMessagesPerConv
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < n; i++ {
		sender, receiver := user1, user2
		if rand.Intn(2) == 1 {
			sender, receiver = user2, user1
		}
		msg := &domain.Message{
			ID:             uuid.New(),
			ConversationID: convID,
			SenderID:       sender,
			ReceiverID:     receiver,
			Content:        fmt.Sprintf("Message %d from User%d to User%d", i+1, sender, receiver),
			CreatedAt:      base.Add(-time.Duration(i) * messageSpacing),
		}
		if err := msgRepo.Append(ctx, msg); err != nil {
			return err
		}

		// Only the newest message is reflected in the index; the upsert
		// guard would discard the older ones anyway.
		if i == 0 {
			for _, side := range [2][2]int64{{user1, user2}, {user2, user1}} {
				entry := &domain.ConversationEntry{
					UserID:             side[0],
					ConversationID:     convID,
					OtherUserID:        side[1],
					LastMessageAt:      msg.CreatedAt,
					LastMessagePreview: domain.Preview(msg.Content),
				}
				if err := convRepo.Upsert(ctx, entry); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
