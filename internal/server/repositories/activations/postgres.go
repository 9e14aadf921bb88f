package activations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.AppActivation) (*models.AppActivation, error) {
	query :=
		`INSERT INTO app_activation (activation_code, activations_limit, expires_at, description, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, a.ActivationCode, a.ActivationsLimit, a.ExpiresAt,
		a.Description, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: activation code", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.AppActivation, error) {
	query :=
		`SELECT a.id, a.activation_code, a.activations_limit, a.expires_at, a.description, a.created_at,
		        (SELECT COUNT(*) FROM user_account u WHERE u.app_activation_id = a.id)
		 FROM app_activation a
		 ORDER BY a.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.AppActivation, 0)
	for rows.Next() {
		var (
			a    models.AppActivation
			desc sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ActivationCode, &a.ActivationsLimit, &a.ExpiresAt, &desc,
			&a.CreatedAt, &a.UserAccountsCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.Description = desc.String
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByCodeForUpdate(ctx context.Context, code string) (*models.AppActivation, error) {
	query :=
		`SELECT id, activation_code, activations_limit, expires_at, description, created_at
		 FROM app_activation
		 WHERE activation_code = $1
		 FOR UPDATE`

	var (
		a    models.AppActivation
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, code).Scan(&a.ID, &a.ActivationCode, &a.ActivationsLimit,
		&a.ExpiresAt, &desc, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &common.NotFoundError{Entity: "activation code"}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Description = desc.String
	return &a, nil
}
