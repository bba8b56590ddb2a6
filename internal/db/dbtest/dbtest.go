// Package dbtest boots a throwaway Postgres container for handler tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

// Setup starts a Postgres container, points db.Conn at it and installs
// the schema. Tests are skipped when no container runtime is available.
// Cleanup tears down both the pool and the container.
func Setup(t *testing.T) {
	t.Helper()

	// GenericContainer panics (rather than erroring) when no Docker host
	// can be discovered; this helper converts that into the skip below.
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err, "failed to get container host")
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err, "failed to get mapped port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Postgres may still be restarting after initdb; retry the connect.
	for i := 0; i < 10; i++ {
		if err = db.Open(connStr); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to open database after retries")

	t.Cleanup(func() {
		db.Conn.Close()
		db.Conn = nil
	})
}

// Truncate empties the given tables between test cases.
func Truncate(t *testing.T, tables ...string) {
	t.Helper()
	for _, table := range tables {
		_, err := db.Conn.Exec(context.Background(), "DELETE FROM "+table)
		require.NoError(t, err)
	}
}
