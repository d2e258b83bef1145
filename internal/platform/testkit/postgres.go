//go:build integration_pg

package testkit

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// pgImage is the server version the schema is written against
const pgImage = "postgres:16-alpine"

// Postgres starts a throwaway server for the test and returns its DSN
// the container is removed in t.Cleanup
func Postgres(t testing.TB) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	const port = "5432/tcp"
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		Started: true,
		ContainerRequest: tc.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{port},
			Env:          map[string]string{"POSTGRES_PASSWORD": "relay", "POSTGRES_USER": "relay", "POSTGRES_DB": "relay"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(port),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
	})
	if c != nil {
		t.Cleanup(func() { _ = c.Terminate(context.Background()) })
	}
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}

	ep, err := c.PortEndpoint(ctx, port, "")
	if err != nil {
		t.Fatalf("postgres endpoint: %v", err)
	}
	return fmt.Sprintf("postgres://relay:relay@%s/relay?sslmode=disable", ep)
}
