// Package cassandra is the production store backend. Both tables are
// partition-local by design: message history lives in one conversation
// partition, the conversation index in one user partition, so every
// read path is a single partition scan.
package cassandra

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// Config holds the connection settings. Consistency is an externally
// supplied knob; the repositories never interpret it.
type Config struct {
	Hosts       []string
	Port        int
	Keyspace    string
	Consistency string
	Timeout     time.Duration
}

// Open connects to the cluster and returns a session scoped to the
// configured keyspace.
func Open(cfg Config) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	if cfg.Port > 0 {
		cluster.Port = cfg.Port
	}
	cluster.Keyspace = cfg.Keyspace
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
	}
	if cfg.Consistency != "" {
		c, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
		if err != nil {
			return nil, fmt.Errorf("parse consistency %q: %w", cfg.Consistency, err)
		}
		cluster.Consistency = c
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to cassandra: %w", err)
	}
	return session, nil
}
