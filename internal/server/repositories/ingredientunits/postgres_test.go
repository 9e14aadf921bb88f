package ingredientunits

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestUpsert(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+ingredient_unit\s*\(ingredient_id,\s*unit\).*ON\s+CONFLICT\s*\(ingredient_id\)\s*DO\s+UPDATE\s+SET\s+unit\s*=\s*EXCLUDED\.unit$`).
		WithArgs(int64(4), "kg").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), 4, models.UnitKg))
}

func TestUpsert_Errors(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+ingredient_unit`).WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectExec(`INSERT\s+INTO\s+ingredient_unit`).WillReturnError(errors.New("boom"))

	require.ErrorIs(t, repo.Upsert(context.Background(), 4, models.UnitKg), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Upsert(context.Background(), 4, models.UnitKg), "db error: boom")
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+ingredient_id,\s*unit\s+FROM\s+ingredient_unit`).
		WillReturnRows(sqlmock.NewRows([]string{"ingredient_id", "unit"}).AddRow(1, "cup").AddRow(2, "pinch"))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.IngredientUnit{{IngredientID: 1, Unit: models.UnitCup}, {IngredientID: 2, Unit: models.UnitPinch}}, got)
}
