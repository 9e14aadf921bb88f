package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/metrics"
)

type clientLoginRequest struct {
	InstallationToken string `json:"installation_token" validate:"required"`
}

type activateRequest struct {
	ActivationCode string `json:"activation_code" validate:"required"`
}

type installationTokenResponse struct {
	InstallationToken string `json:"installation_token"`
}

// clientLogin godoc
//
// @Summary     Exchange an installation token for an access token
// @Tags        client
// @Accept      json
// @Produce     json
// @Param       body body clientLoginRequest true "installation token"
// @Success     200 {object} tokenResponse
// @Failure     400 {object} errorResponse
// @Failure     401 {object} errorResponse
// @Router      /auth/login [post]
func (h *Handler) clientLogin(w http.ResponseWriter, r *http.Request) {
	var req clientLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.clients.Login(r.Context(), req.InstallationToken)
	metrics.RecordLogin("client", err == nil)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.writeError(r.Context(), w, http.StatusUnauthorized, "unknown installation token")
			return
		}
		h.fail(w, r, err)
		return
	}

	h.writeJSON(r.Context(), w, http.StatusOK, tokenResponse{Token: token})
}

// activateApp godoc
//
// @Summary     Redeem an activation code
// @Description The returned installation token is shown only once.
// @Tags        client
// @Accept      json
// @Produce     json
// @Param       body body activateRequest true "activation code"
// @Success     201 {object} installationTokenResponse
// @Failure     400 {object} errorResponse
// @Failure     403 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Router      /auth/activate-app [post]
func (h *Handler) activateApp(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.clients.Activate(r.Context(), req.ActivationCode)
	metrics.RecordLogin("activation", err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(r.Context(), w, http.StatusCreated, installationTokenResponse{InstallationToken: token})
}

// lastChange godoc
//
// @Summary     Time of the latest recipe change
// @Tags        client
// @Produce     json
// @Success     200 {string} string "ISO-8601 timestamp"
// @Router      /last-change [get]
func (h *Handler) lastChange(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(r.Context(), w, http.StatusOK, h.recipes.LastChange().UTC().Format(time.RFC3339Nano))
}

// clientRecipes godoc
//
// @Summary     Recipes visible to the app
// @Description Activated installations get every recipe, others a short preview.
// @Tags        client
// @Produce     json
// @Security    Bearer
// @Success     200 {array} models.RecipeDetails
// @Failure     401 {object} errorResponse
// @Router      /recipes [get]
func (h *Handler) clientRecipes(w http.ResponseWriter, r *http.Request) {
	activated := claimsFromContext(r.Context()).IsActivatedClient()

	list, err := h.recipes.ListForClient(r.Context(), activated)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, list)
}
