package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/auth"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/foodrecipe/internal/shared"
)

const (
	activationCodeLength = 15
	// activationCodeAttempts bounds retries when a generated code collides
	// with an existing one.
	activationCodeAttempts = 3

	DefaultAdminPassword = "changeme"
)

// DefaultAdmins are the accounts seeded by the management CLI, login -> role.
var DefaultAdmins = []models.AdminAccount{
	{Login: "manager", Role: common.RoleManager},
	{Login: "editor", Role: common.RoleEditor},
}

type AdminService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AdminService {
	return &AdminService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Login checks the credentials and returns an access token whose claims
// carry the admin login. Unknown logins and wrong passwords are not told
// apart.
func (s *AdminService) Login(ctx context.Context, login, password string) (string, error) {
	repo := s.repomanager.Admins(s.db)

	account, err := repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error searching admin: %w", err)
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateAdminToken(account.Login, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	return token, nil
}

// Account resolves the admin named in a token. A login that no longer
// exists is reported as ErrorUnauthorized.
func (s *AdminService) Account(ctx context.Context, login string) (*models.AdminAccount, error) {
	account, err := s.repomanager.Admins(s.db).GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching admin: %w", err)
	}
	return account, nil
}

// CreateActivationCode issues a new numeric activation code that can be
// redeemed by up to limit installations within days days.
func (s *AdminService) CreateActivationCode(ctx context.Context, limit, days int, description string) (*models.AppActivation, error) {
	if limit <= 0 {
		return nil, &common.ValidationError{Field: "activations_limit", Reason: "must be positive"}
	}
	if days <= 0 {
		return nil, &common.ValidationError{Field: "expires_in_days", Reason: "must be positive"}
	}

	now := s.now().UTC()

	var (
		activation *models.AppActivation
		err        error
	)
	for attempt := 0; attempt < activationCodeAttempts; attempt++ {
		code, genErr := shared.RandomNumericString(activationCodeLength)
		if genErr != nil {
			return nil, fmt.Errorf("error generating activation code: %w", genErr)
		}

		a := &models.AppActivation{
			ActivationCode:   code,
			ActivationsLimit: limit,
			ExpiresAt:        now.AddDate(0, 0, days),
			Description:      description,
			CreatedAt:        now,
		}

		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			created, err := s.repomanager.Activations(tx).Create(ctx, a)
			if err != nil {
				return err
			}
			activation = created
			return nil
		})
		if !errors.Is(err, common.ErrorAlreadyExists) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error creating activation: %w", err)
	}

	return activation, nil
}

func (s *AdminService) ListActivations(ctx context.Context) ([]models.AppActivation, error) {
	list, err := s.repomanager.Activations(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing activations: %w", err)
	}
	return list, nil
}

// EnsureAdmins creates the DefaultAdmins or resets their passwords.
func (s *AdminService) EnsureAdmins(ctx context.Context, password string) error {
	if password == "" {
		return &common.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Admins(tx)
		for _, a := range DefaultAdmins {
			account := &models.AdminAccount{Login: a.Login, Role: a.Role, PasswordHash: hash}
			if err := repo.Upsert(ctx, account); err != nil {
				return fmt.Errorf("error saving admin %s: %w", a.Login, err)
			}
		}
		return nil
	})
}
