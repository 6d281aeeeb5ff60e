// Package testutil starts a throwaway PostgreSQL for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"flowsync/internal/repository"
	"flowsync/pkg/database"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

var ErrNoDatabase = errors.New("no test database: set TEST_DATABASE_URL or run docker")

// StartPostgres returns a migrated database. TEST_DATABASE_URL wins over
// docker. The returned stop func must be called after m.Run.
func StartPostgres() (*sql.DB, func(), error) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		db, err := database.Open(dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.CreateTableIfNotExists(context.Background(), db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoDatabase, err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoDatabase, err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=flowsync",
			"POSTGRES_DB=flowsync_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("starting postgres container: %w", err)
	}
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("postgres://flowsync:secret@%s/flowsync_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		var err error
		db, err = database.Open(dsn)
		return err
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, nil, fmt.Errorf("waiting for postgres: %w", err)
	}

	if err := repository.CreateTableIfNotExists(context.Background(), db); err != nil {
		db.Close()
		_ = pool.Purge(resource)
		return nil, nil, err
	}

	stop := func() {
		db.Close()
		_ = pool.Purge(resource)
	}
	return db, stop, nil
}

// Reset empties every table, or skips the test when db is nil.
func Reset(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		t.Skip(ErrNoDatabase.Error())
	}
	if err := repository.DeleteAllTable(context.Background(), db); err != nil {
		t.Fatalf("resetting database: %v", err)
	}
}
