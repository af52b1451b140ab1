package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"tankograd/internal/models"
)

type ProfileRepository interface {
	GetByExternalName(ctx context.Context, externalName, source string) (*models.Profile, error)
}

type profileRepository struct{ db *sql.DB }

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByExternalName(ctx context.Context, externalName, source string) (*models.Profile, error) {
	const q = `
		SELECT id, external_name, source, created_at
		FROM predefined_profiles
		WHERE external_name = $1 AND source = $2
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, q, externalName, source)

	var p models.Profile
	if err := row.Scan(&p.ID, &p.ExternalName, &p.Source, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by external name: %w", err)
	}
	return &p, nil
}
