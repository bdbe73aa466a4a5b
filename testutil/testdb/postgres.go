// Package testdb provides a throwaway PostgreSQL instance for integration tests.
package testdb

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB is a containerized PostgreSQL instance. Schema setup is left to
// the code under test, which creates its own tables on startup.
type TestDB struct {
	Container *postgres.PostgresContainer
	ConnStr   string
}

// NewTestDB starts a PostgreSQL container and waits for it to accept
// connections.
func NewTestDB(ctx context.Context) (*TestDB, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("cashcraft_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &TestDB{
		Container: container,
		ConnStr:   connStr,
	}, nil
}

// Close terminates the container.
func (db *TestDB) Close(ctx context.Context) error {
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}
