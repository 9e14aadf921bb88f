package ingredients

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/foodrecipe/internal/common"
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

var dbErrRe = regexp.MustCompile(`db error: .*boom`)

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name\s+FROM\s+ingredient\s+ORDER\s+BY\s+id$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "a").AddRow(2, "b"))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, "b", got[1].Name)
}

func TestList_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+id,\s*name\s+FROM\s+ingredient`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+id,\s*name\s+FROM\s+ingredient`).WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Regexp(t, dbErrRe, err.Error())
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name\s+FROM\s+ingredient\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "x"))

	got, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+ingredient\s+WHERE\s+id`).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 9)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.EqualError(t, err, "ingredient 9 not found")
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+ingredient\s*\(name\)\s*VALUES\s*\(\$1\)\s*RETURNING\s+id$`).
		WithArgs("Soups").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	got, err := repo.Create(context.Background(), "Soups")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "Soups", got.Name)
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+ingredient`).
		WithArgs("Soups").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), "Soups")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+ingredient`).WithArgs("Soups").WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), "Soups")
	require.Error(t, err)
	assert.Regexp(t, dbErrRe, err.Error())
}

func TestCreateIfMissing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)INSERT\s+INTO\s+ingredient\s*\(name\)\s*VALUES\s*\(\$1\)\s*ON\s+CONFLICT\s*\(name\)\s*DO\s+NOTHING`
	mock.ExpectExec(q).WithArgs("Soups").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q).WithArgs("Soups").WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := repo.CreateIfMissing(context.Background(), "Soups")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.CreateIfMissing(context.Background(), "Soups")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^UPDATE\s+ingredient\s+SET\s+name\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2$`).
		WithArgs("New", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Update(context.Background(), 4, "New")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, "New", got.Name)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE\s+ingredient`).WithArgs("New", int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 4, "New")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE\s+ingredient`).WithArgs("Dup", int64(4)).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), 4, "Dup")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^DELETE\s+FROM\s+ingredient\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs(int64(9)).WillReturnError(errors.New("boom"))

	require.NoError(t, repo.Delete(context.Background(), 7))
	require.ErrorIs(t, repo.Delete(context.Background(), 8), common.ErrorNotFound)

	err := repo.Delete(context.Background(), 9)
	require.Error(t, err)
	assert.Regexp(t, dbErrRe, err.Error())
}
