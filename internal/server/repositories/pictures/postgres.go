package pictures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/google/uuid"
)

const entity = "picture"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts p, assigning a fresh id when p.ID is zero.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Picture) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query :=
		`INSERT INTO picture (id, recipe_id, image_data)
		 VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.RecipeID, p.ImageData); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*models.Picture, error) {
	query :=
		`SELECT id, recipe_id, image_data
		 FROM picture
		 WHERE id = $1 AND image_data IS NOT NULL`

	p := &models.Picture{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.RecipeID, &p.ImageData)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &common.NotFoundError{Entity: entity, ID: id.String()}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListIDsByRecipe(ctx context.Context, recipeID int64) ([]uuid.UUID, error) {
	query :=
		`SELECT id FROM picture
		 WHERE recipe_id = $1 AND image_data IS NOT NULL
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM picture WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res, entity, id)
}

func (r *PostgresRepository) DeleteByRecipe(ctx context.Context, recipeID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM picture WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListPendingMigration(ctx context.Context) ([]models.Picture, error) {
	query :=
		`SELECT id, recipe_id, legacy_name
		 FROM picture
		 WHERE image_data IS NULL AND legacy_name IS NOT NULL
		 ORDER BY recipe_id, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Picture, 0)
	for rows.Next() {
		var p models.Picture
		if err := rows.Scan(&p.ID, &p.RecipeID, &p.LegacyName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SetImageData(ctx context.Context, id uuid.UUID, data []byte) error {
	res, err := r.db.ExecContext(ctx, `UPDATE picture SET image_data = $1 WHERE id = $2`, data, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res, entity, id)
}
