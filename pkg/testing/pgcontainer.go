package testing

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const pgImage = "postgres:17.5"

// PGContainer is a migrated Postgres. ReaderConnString logs in as the
// restricted news_reader role when PGConfig.ReaderPassword was set.
type PGContainer struct {
	Container        testcontainers.Container
	ConnString       string
	ReaderConnString string
}

type PGConfig struct {
	Database string
	Username string
	Password string
	// ReaderPassword enables login for news_reader.
	ReaderPassword string
}

func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	script, err := MigrationScript(migrationsDir())
	if err != nil {
		return nil, err
	}
	if cfg.ReaderPassword != "" {
		script += fmt.Sprintf("\nALTER ROLE news_reader LOGIN PASSWORD '%s';\n",
			strings.ReplaceAll(cfg.ReaderPassword, "'", "''"))
	}

	initFile, err := writeTemp(script)
	if err != nil {
		return nil, err
	}
	defer os.Remove(initFile)

	c, err := postgres.Run(ctx, pgImage,
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		postgres.WithInitScripts(initFile),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	out := &PGContainer{Container: c, ConnString: connStr}
	if cfg.ReaderPassword != "" {
		out.ReaderConnString, err = withUser(connStr, "news_reader", cfg.ReaderPassword)
		if err != nil {
			_ = testcontainers.TerminateContainer(c)
			return nil, err
		}
	}
	return out, nil
}

// NewPGContainerWithCleanup starts a container for tb and terminates it when
// tb finishes.
func NewPGContainerWithCleanup(ctx context.Context, tb testing.TB) *PGContainer {
	tb.Helper()

	c, err := NewPGContainer(ctx, PGConfig{
		Database:       "news_desk_test",
		Username:       "test",
		Password:       "test",
		ReaderPassword: "reader",
	})
	if err != nil {
		tb.Fatalf("failed to create postgres container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c.Container); err != nil {
			tb.Logf("failed to terminate postgres container: %v", err)
		}
	})
	return c
}

// MigrationScript joins every *.up.sql file in dir in lexical order.
func MigrationScript(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return "", fmt.Errorf("failed to find migration files: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no migrations in %s", dir)
	}
	sort.Strings(files)

	var b strings.Builder
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read migration file %s: %w", f, err)
		}
		b.Write(content)
		b.WriteString(";\n\n")
	}
	return b.String(), nil
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "db", "migrations")
}

func writeTemp(script string) (string, error) {
	f, err := os.CreateTemp("", "news-desk-migrations-*.sql")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write migrations: %w", err)
	}
	return f.Name(), f.Close()
}

func withUser(connStr, user, password string) (string, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("parse connection string: %w", err)
	}
	u.User = url.UserPassword(user, password)
	return u.String(), nil
}
