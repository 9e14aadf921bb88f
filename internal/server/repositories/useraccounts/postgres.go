package useraccounts

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

func (r *PostgresRepository) Create(ctx context.Context, u *models.UserAccount) (*models.UserAccount, error) {
	query :=
		`INSERT INTO user_account (created_at, installation_token_hash, app_activation_id)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, u.CreatedAt, u.InstallationTokenHash, u.AppActivationID).Scan(&u.ID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: installation token", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByTokenHash(ctx context.Context, hash string) (*models.UserAccount, error) {
	query :=
		`SELECT id, created_at, installation_token_hash, app_activation_id
		 FROM user_account
		 WHERE installation_token_hash = $1`

	u := &models.UserAccount{}
	err := r.db.QueryRowContext(ctx, query, hash).Scan(&u.ID, &u.CreatedAt, &u.InstallationTokenHash, &u.AppActivationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) CountByActivation(ctx context.Context, activationID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_account WHERE app_activation_id = $1`, activationID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
