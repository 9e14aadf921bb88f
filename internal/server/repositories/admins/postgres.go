package admins

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

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*models.AdminAccount, error) {
	query :=
		`SELECT id, admin_login, admin_password_hash, admin_role
		 FROM admin_account
		 WHERE admin_login = $1`

	a := &models.AdminAccount{}
	err := r.db.QueryRowContext(ctx, query, login).Scan(&a.ID, &a.Login, &a.PasswordHash, &a.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, a *models.AdminAccount) error {
	query :=
		`INSERT INTO admin_account (admin_login, admin_password_hash, admin_role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (admin_login) DO UPDATE
		 SET admin_password_hash = EXCLUDED.admin_password_hash, admin_role = EXCLUDED.admin_role
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, a.Login, a.PasswordHash, a.Role).Scan(&a.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
