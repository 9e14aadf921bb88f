package ingredients

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

const entity = "ingredient"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Ingredient, error) {
	query := `SELECT id, name FROM ingredient ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Ingredient, 0)
	for rows.Next() {
		var item models.Ingredient
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Ingredient, error) {
	query := `SELECT id, name FROM ingredient WHERE id = $1`

	item := &models.Ingredient{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &common.NotFoundError{Entity: entity, ID: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, name string) (*models.Ingredient, error) {
	query := `INSERT INTO ingredient (name) VALUES ($1) RETURNING id`

	item := &models.Ingredient{Name: name}
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&item.ID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: ingredient %q", common.ErrorAlreadyExists, name)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) CreateIfMissing(ctx context.Context, name string) (bool, error) {
	query := `INSERT INTO ingredient (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, name string) (*models.Ingredient, error) {
	query := `UPDATE ingredient SET name = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: ingredient %q", common.ErrorAlreadyExists, name)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := dbx.RequireAffected(res, entity, id); err != nil {
		return nil, err
	}

	return &models.Ingredient{ID: id, Name: name}, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM ingredient WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return dbx.RequireAffected(res, entity, id)
}
