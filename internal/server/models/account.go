package models

import "time"

type AdminAccount struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         string
}

type AppActivation struct {
	ID               int64     `json:"id"`
	ActivationCode   string    `json:"activation_code"`
	ActivationsLimit int       `json:"activations_limit"`
	ExpiresAt        time.Time `json:"expires_at"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
	// UserAccountsCount is filled by listing queries only.
	UserAccountsCount int `json:"user_accounts_count"`
}

// Expired reports whether the code can no longer be redeemed at now.
func (a *AppActivation) Expired(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}

type UserAccount struct {
	ID                    int64
	CreatedAt             time.Time
	InstallationTokenHash string
	AppActivationID       int64
}
