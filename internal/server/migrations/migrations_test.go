package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		b, err := fs.ReadFile(Migrations, f)
		require.NoError(t, err)
		s := string(b)
		assert.Contains(t, s, "-- +goose Up", f)
		assert.Contains(t, s, "-- +goose Down", f)
	}
}

func TestInit_DeclaresAllTables(t *testing.T) {
	b, err := fs.ReadFile(Migrations, "00001_init.sql")
	require.NoError(t, err)
	up, _, _ := strings.Cut(string(b), "-- +goose Down")

	for _, table := range []string{
		"category", "ingredient", "recipe", "picture", "recipe_ingredient",
		"ingredient_unit", "admin_account", "app_activation", "user_account",
	} {
		assert.Contains(t, up, "CREATE TABLE "+table+" (", table)
	}
	assert.Contains(t, up, "CREATE TYPE unit_enum")
}
