package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/auth"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/foodrecipe/internal/shared"
)

const installationTokenLength = 32

// ClientService authenticates app installations.
type ClientService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewClientService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ClientService {
	return &ClientService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Login exchanges an installation token for an access token.
func (s *ClientService) Login(ctx context.Context, installationToken string) (string, error) {
	if strings.TrimSpace(installationToken) == "" {
		return "", &common.ValidationError{Field: "installation_token", Reason: "is required"}
	}

	hash := auth.HashInstallationToken(installationToken)

	_, err := s.repomanager.UserAccounts(s.db).GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error searching user account: %w", err)
	}

	token, err := auth.GenerateClientToken(hash, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// Activate redeems an activation code and returns a new installation token.
// The token is returned only here; the database keeps its hash.
//
// The activation row stays locked until commit, so concurrent redemptions
// of the same code cannot exceed its limit.
func (s *ClientService) Activate(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", &common.ValidationError{Field: "activation_code", Reason: "is required"}
	}

	var token string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		activation, err := s.repomanager.Activations(tx).GetByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}

		if activation.Expired(s.now()) {
			return common.ErrActivationExpired
		}

		accounts := s.repomanager.UserAccounts(tx)

		n, err := accounts.CountByActivation(ctx, activation.ID)
		if err != nil {
			return err
		}
		if n >= activation.ActivationsLimit {
			return common.ErrActivationLimitReached
		}

		token, err = shared.RandomAlphanumericString(installationTokenLength)
		if err != nil {
			return fmt.Errorf("error generating installation token: %w", err)
		}

		_, err = accounts.Create(ctx, &models.UserAccount{
			CreatedAt:             s.now().UTC(),
			InstallationTokenHash: auth.HashInstallationToken(token),
			AppActivationID:       activation.ID,
		})
		return err
	})
	if err != nil {
		return "", err
	}

	return token, nil
}
