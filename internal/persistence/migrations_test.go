package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/config"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	names, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("migrationFiles: %v", err)
	}
	if want := []string{"0001_a.sql", "0002_b.sql"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}

	if _, err := migrationFiles(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestRunMigrations_WithoutPool(t *testing.T) {
	if err := RunMigrations(context.Background(), nil, "does-not-matter", zap.NewNop()); err != nil {
		t.Fatalf("expected skip without pool, got %v", err)
	}
}

func TestDisabledDependencies(t *testing.T) {
	ctx := context.Background()
	if err := (&Postgres{}).Ping(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	if err := r.Ping(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if r.Handle() != nil {
		t.Fatal("expected nil client when redis is disabled")
	}
}
