package legacyimages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/foodrecipe/internal/imagex"
	"github.com/dmitrijs2005/foodrecipe/internal/logging"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
)

// Result counts what a migration run did.
type Result struct {
	Migrated int
	Removed  int
	Skipped  int
}

type Migrator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	source      Source
	logger      logging.Logger
}

func NewMigrator(db *sql.DB, m repomanager.RepositoryManager, src Source, l logging.Logger) *Migrator {
	return &Migrator{
		db:          db,
		repomanager: m,
		source:      src,
		logger:      l.With("module", "legacyimages"),
	}
}

// Run migrates every picture that has a legacy file name but no data. Rows
// whose file no longer exists are deleted. Files that cannot be decoded are
// skipped and stay pending.
func (m *Migrator) Run(ctx context.Context) (Result, error) {
	var res Result

	pending, err := m.repomanager.Pictures(m.db).ListPendingMigration(ctx)
	if err != nil {
		return res, err
	}
	m.logger.Info(ctx, "migrating legacy pictures", "pending", len(pending))

	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		outcome, err := m.migrateOne(ctx, p)
		if err != nil {
			return res, fmt.Errorf("picture %s: %w", p.ID, err)
		}
		switch outcome {
		case migrated:
			res.Migrated++
		case removed:
			res.Removed++
		case skipped:
			res.Skipped++
		}
	}

	m.logger.Info(ctx, "legacy pictures migrated",
		"migrated", res.Migrated, "removed", res.Removed, "skipped", res.Skipped)
	return res, nil
}

type outcome int

const (
	migrated outcome = iota
	removed
	skipped
)

func (m *Migrator) migrateOne(ctx context.Context, p models.Picture) (outcome, error) {
	repo := m.repomanager.Pictures(m.db)

	rc, err := m.source.Open(ctx, p.RecipeID, p.LegacyName)
	if errors.Is(err, ErrNotExist) {
		m.logger.Warn(ctx, "legacy file missing, removing picture",
			"picture_id", p.ID.String(), "recipe_id", p.RecipeID, "name", p.LegacyName)
		return removed, repo.Delete(ctx, p.ID)
	}
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	data, err := imagex.OptimizePicture(rc)
	if errors.Is(err, imagex.ErrDecode) {
		m.logger.Warn(ctx, "legacy file is not an image",
			"picture_id", p.ID.String(), "name", p.LegacyName, "error", err)
		return skipped, nil
	}
	if err != nil {
		return 0, err
	}

	if err := repo.SetImageData(ctx, p.ID, data); err != nil {
		return 0, err
	}
	m.logger.Debug(ctx, "picture migrated", "picture_id", p.ID.String(), "bytes", len(data))
	return migrated, nil
}
