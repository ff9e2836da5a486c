package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/repcrafter/gateway/internal/domain"
)

func TestNewUserRepository_WithoutPoolIsNoop(t *testing.T) {
	repo := NewUserRepository(nil)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &domain.User{Subject: "u1"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repo.GetBySubject(ctx, "u1"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
