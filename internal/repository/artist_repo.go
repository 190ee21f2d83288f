package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stagepass/internal/model"
)

type PostgresArtistRepository struct {
	pool *pgxpool.Pool
}

func NewArtistRepository(pool *pgxpool.Pool) *PostgresArtistRepository {
	return &PostgresArtistRepository{pool: pool}
}

func (r *PostgresArtistRepository) Create(ctx context.Context, p model.ArtistProfile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO artist_profiles (id, artist_name, location, bio, start_date, shows_performed, genres, owner_user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.ArtistName, p.Location, p.Bio, p.StartDate,
		p.ShowsPerformed, p.Genres, p.OwnerUserID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create artist profile: %w", err)
	}
	return nil
}

func (r *PostgresArtistRepository) FindByID(ctx context.Context, id string) (model.ArtistProfile, error) {
	var p model.ArtistProfile
	err := r.pool.QueryRow(ctx,
		`SELECT id, artist_name, location, bio, start_date, shows_performed, genres, owner_user_id, created_at
		 FROM artist_profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.ArtistName, &p.Location, &p.Bio, &p.StartDate,
			&p.ShowsPerformed, &p.Genres, &p.OwnerUserID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ArtistProfile{}, model.ErrProfileNotFound
	}
	if err != nil {
		return model.ArtistProfile{}, fmt.Errorf("find artist profile: %w", err)
	}
	return p, nil
}
