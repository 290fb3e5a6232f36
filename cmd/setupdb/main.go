// Command setupdb initializes the Cassandra keyspace and tables. It
// waits for the cluster to accept connections before applying the
// schema, so it can run as an init step next to a freshly started node.
package main

import (
	"log"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"messenger/internal/config"
	"messenger/internal/store/cassandra"
	"messenger/pkg/logger"
)

const (
	connectAttempts = 10
	connectBackoff  = 5 * time.Second
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

	session, err := waitForCassandra(zlog, cfg)
	if err != nil {
		zlog.Fatal("cassandra never became ready", zap.Error(err))
	}
	defer session.Close()

	zlog.Info("creating keyspace", zap.String("keyspace", cfg.CassandraKeyspace))
	if err := cassandra.CreateKeyspace(session, cfg.CassandraKeyspace, 1); err != nil {
		zlog.Fatal("failed to create keyspace", zap.Error(err))
	}

	// Reconnect bound to the keyspace for the table DDL.
	ksSession, err := cassandra.Open(cassandra.Config{
		Hosts:    cfg.CassandraHosts,
		Port:     cfg.CassandraPort,
		Keyspace: cfg.CassandraKeyspace,
		Timeout:  cfg.CassandraTimeout,
	})
	if err != nil {
		zlog.Fatal("failed to connect to keyspace", zap.Error(err))
	}
	defer ksSession.Close()

	if err := cassandra.CreateTables(ksSession); err != nil {
		zlog.Fatal("failed to create tables", zap.Error(err))
	}
	zlog.Info("cassandra initialization completed")
}

// waitForCassandra retries a bare (keyspace-less) connection until the
// node answers.
func waitForCassandra(zlog *zap.Logger, cfg *config.Config) (*gocql.Session, error) {
	var lastErr error
	for i := 0; i < connectAttempts; i++ {
		cluster := gocql.NewCluster(cfg.CassandraHosts...)
		if cfg.CassandraPort > 0 {
			cluster.Port = cfg.CassandraPort
		}
		session, err := cluster.CreateSession()
		if err == nil {
			zlog.Info("cassandra is ready")
			return session, nil
		}
		lastErr = err
		zlog.Warn("cassandra not ready yet", zap.Error(err))
		time.Sleep(connectBackoff)
	}
	return nil, lastErr
}
