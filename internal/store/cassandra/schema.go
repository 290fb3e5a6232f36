package cassandra

import (
	"fmt"

	"github.com/gocql/gocql"
)

// Schema DDL. The clustering keys are the external contract:
// messages order by (created_at desc, message_id asc) so pagination is
// deterministic even when two messages share a timestamp, and the index
// orders by (last_message_at desc, conversation_id asc).
var tables = []string{
	`CREATE TABLE IF NOT EXISTS messages_by_conversation (
		conversation_id uuid,
		created_at      timestamp,
		message_id      uuid,
		sender_id       bigint,
		receiver_id     bigint,
		content         text,
		PRIMARY KEY ((conversation_id), created_at, message_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, message_id ASC)`,

	`CREATE TABLE IF NOT EXISTS conversations_by_user (
		user_id              bigint,
		last_message_at      timestamp,
		conversation_id      uuid,
		other_user_id        bigint,
		last_message_preview text,
		PRIMARY KEY ((user_id), last_message_at, conversation_id)
	) WITH CLUSTERING ORDER BY (last_message_at DESC, conversation_id ASC)`,
}

// CreateKeyspace creates the keyspace with SimpleStrategy replication.
// The session must not be bound to a keyspace.
func CreateKeyspace(session *gocql.Session, keyspace string, replicationFactor int) error {
	stmt := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
		WITH replication = {'class': 'SimpleStrategy', 'replication_factor': '%d'}`,
		keyspace, replicationFactor)
	if err := session.Query(stmt).Exec(); err != nil {
		return fmt.Errorf("create keyspace %s: %w", keyspace, err)
	}
	return nil
}

// CreateTables creates both tables in the session's keyspace.
func CreateTables(session *gocql.Session) error {
	for _, stmt := range tables {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
