package admins

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const getQ = `(?s)^SELECT\s+id,\s*admin_login,\s*admin_password_hash,\s*admin_role\s+FROM\s+admin_account\s+WHERE\s+admin_login\s*=\s*\$1$`

func TestGetByLogin_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).
		WithArgs("manager").
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_login", "admin_password_hash", "admin_role"}).
			AddRow(1, "manager", "$2a$hash", "manager"))

	got, err := repo.GetByLogin(context.Background(), "manager")
	if err != nil {
		t.Fatalf("GetByLogin error: %v", err)
	}
	if got.ID != 1 || got.Role != common.RoleManager || got.PasswordHash != "$2a$hash" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByLogin_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("manager").WillReturnError(errors.New("db down"))

	_, err := repo.GetByLogin(context.Background(), "manager")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+admin_account\s*\(admin_login,\s*admin_password_hash,\s*admin_role\).*ON\s+CONFLICT\s*\(admin_login\)\s*DO\s+UPDATE.*RETURNING\s+id$`
	mock.ExpectQuery(q).
		WithArgs("editor", "h", "editor").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	a := &models.AdminAccount{Login: "editor", PasswordHash: "h", Role: common.RoleEditor}
	if err := repo.Upsert(context.Background(), a); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if a.ID != 2 {
		t.Fatalf("unexpected id: %d", a.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
