package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/repcrafter/gateway/internal/domain"
)

// UserRepository records who signed in and which billing customer they map to.
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	GetBySubject(ctx context.Context, subject string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation, or a no-op
// one when no pool is configured.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	if pool == nil {
		return nopUserRepository{}
	}
	return &userRepository{pool: pool}
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (subject, email, name, picture, stripe_customer_id, last_login_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (subject) DO UPDATE SET
            email = EXCLUDED.email,
            name = EXCLUDED.name,
            picture = EXCLUDED.picture,
            stripe_customer_id = COALESCE(NULLIF(EXCLUDED.stripe_customer_id, ''), users.stripe_customer_id),
            last_login_at = NOW(),
            updated_at = NOW()
        RETURNING stripe_customer_id, last_login_at, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Subject,
		user.Email,
		user.Name,
		user.Picture,
		user.StripeCustomerID,
	).Scan(&user.StripeCustomerID, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	const query = `
        SELECT subject, email, name, picture, stripe_customer_id, last_login_at, created_at, updated_at
        FROM users WHERE subject=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, subject).Scan(
		&user.Subject,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.StripeCustomerID,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

type nopUserRepository struct{}

func (nopUserRepository) Upsert(context.Context, *domain.User) error { return nil }

func (nopUserRepository) GetBySubject(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
