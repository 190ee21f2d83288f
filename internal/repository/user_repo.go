package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"stagepass/internal/model"
)

const userColumns = `id, username, email, password_hash, role, profile_image_url, artist_profile_id, created_at, updated_at`

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, profile_image_url, artist_profile_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role),
		u.ProfileImageURL, u.ArtistProfileID, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id string, username string, email string, imageURL *string) (model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET username = $2, email = $3,
		     profile_image_url = COALESCE($4, profile_image_url),
		     updated_at = $5
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, username, email, imageURL, time.Now().UTC()))
}

func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) UpdateEmail(ctx context.Context, id string, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $2, updated_at = $3 WHERE id = $1`,
		id, email, time.Now().UTC())
	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) UpdateRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET role = $2, updated_at = $3 WHERE id = $1 RETURNING `+userColumns,
		id, string(role), time.Now().UTC()))
}

func (r *PostgresUserRepository) LinkArtistProfile(ctx context.Context, id string, profileID string) (model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET artist_profile_id = $2, updated_at = $3 WHERE id = $1 RETURNING `+userColumns,
		id, profileID, time.Now().UTC()))
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role,
		&u.ProfileImageURL, &u.ArtistProfileID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			return model.User{}, dup
		}
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Role = model.Role(role)
	return u, nil
}

// translateUniqueViolation maps a Postgres unique-index violation (SQLSTATE
// 23505) onto the matching domain error, or returns nil for anything else.
// The index is the source of truth for uniqueness; application-level
// existence checks only exist to produce friendlier fast-path errors.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	if pgErr.ConstraintName == "users_username_unique" {
		return model.ErrUsernameTaken
	}
	return model.ErrEmailTaken
}
