// Package rest is the HTTP transport of the recipe server: a chi router
// with the admin API under /admin, the client API at the root, the admin SPA
// under /manage and operational endpoints (/health, /metrics, /swagger).
package rest

import (
	"github.com/dmitrijs2005/foodrecipe/internal/logging"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
)

// RoleChecker decides whether an admin role may use routes that require
// another role.
type RoleChecker interface {
	Allowed(role, required string) (bool, error)
}

// Deps are the collaborators of the handlers.
type Deps struct {
	Config  *config.Config
	Logger  logging.Logger
	Roles   RoleChecker
	DB      Pinger
	Admins  AdminService
	Catalog CatalogService
	Recipes RecipeService
	Clients ClientService
}

type Handler struct {
	cfg       *config.Config
	logger    logging.Logger
	roles     RoleChecker
	db        Pinger
	admins    AdminService
	catalog   CatalogService
	recipes   RecipeService
	clients   ClientService
	jwtSecret []byte
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		cfg:       d.Config,
		logger:    d.Logger.With("module", "rest"),
		roles:     d.Roles,
		db:        d.DB,
		admins:    d.Admins,
		catalog:   d.Catalog,
		recipes:   d.Recipes,
		clients:   d.Clients,
		jwtSecret: []byte(d.Config.SecretKey),
	}
}
