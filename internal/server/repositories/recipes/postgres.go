package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

const entity = "recipe"

const detailsColumns = `r.id, r.name, r.instructions, r.created_at, r.updated_at, r.needs_auth, c.id, c.name
		 FROM recipe r
		 JOIN category c ON c.id = r.category_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDetails(s scanner) (models.RecipeDetails, error) {
	var d models.RecipeDetails
	err := s.Scan(&d.ID, &d.Name, &d.Instructions, &d.CreatedAt, &d.UpdatedAt, &d.NeedsAuth,
		&d.Category.ID, &d.Category.Name)
	return d, err
}

func notFound(id int64) error {
	return &common.NotFoundError{Entity: entity, ID: strconv.FormatInt(id, 10)}
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]models.RecipeDetails, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, `SELECT `+detailsColumns+` ORDER BY r.id LIMIT $1`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+detailsColumns+` ORDER BY r.id`)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.RecipeDetails, 0)
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetDetails(ctx context.Context, id int64) (*models.RecipeDetails, error) {
	d, err := scanDetails(r.db.QueryRowContext(ctx, `SELECT `+detailsColumns+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id int64) (*models.Recipe, error) {
	query :=
		`SELECT id, name, instructions, created_at, updated_at, needs_auth, category_id
		 FROM recipe
		 WHERE id = $1
		 FOR UPDATE`

	rec := &models.Recipe{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.Name, &rec.Instructions,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.NeedsAuth, &rec.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Recipe) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipe (name, instructions, created_at, updated_at, needs_auth, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, rec.Name, rec.Instructions, rec.CreatedAt, rec.UpdatedAt,
		rec.NeedsAuth, rec.CategoryID).Scan(&rec.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, &common.NotFoundError{Entity: "category", ID: strconv.FormatInt(rec.CategoryID, 10)}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *models.Recipe) error {
	query :=
		`UPDATE recipe
		 SET name = $1, instructions = $2, category_id = $3, needs_auth = $4, updated_at = $5
		 WHERE id = $6`

	res, err := r.db.ExecContext(ctx, query, rec.Name, rec.Instructions, rec.CategoryID, rec.NeedsAuth,
		rec.UpdatedAt, rec.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return &common.NotFoundError{Entity: "category", ID: strconv.FormatInt(rec.CategoryID, 10)}
		}
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res, entity, rec.ID)
}

func (r *PostgresRepository) SetNeedsAuth(ctx context.Context, id int64, needsAuth bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE recipe SET needs_auth = $1 WHERE id = $2`, needsAuth, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res, entity, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipe WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res, entity, id)
}
