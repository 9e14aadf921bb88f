package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/metrics"
)

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createActivationCodeRequest struct {
	ActivationsLimit int    `json:"activations_limit" validate:"required,min=1"`
	ExpiresInDays    int    `json:"expires_in_days" validate:"required,min=1,max=36500"`
	Description      string `json:"description" validate:"max=1000"`
}

type activationCodeResponse struct {
	ActivationCode string `json:"activation_code"`
}

// adminLogin godoc
//
// @Summary     Admin login
// @Tags        admin-auth
// @Accept      json
// @Produce     json
// @Param       body body adminLoginRequest true "credentials"
// @Success     200 {object} tokenResponse
// @Failure     400 {object} errorResponse
// @Failure     401 {object} errorResponse
// @Router      /admin/auth/login [post]
func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.admins.Login(r.Context(), req.Username, req.Password)
	metrics.RecordLogin("admin", err == nil)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.writeError(r.Context(), w, http.StatusUnauthorized, "bad username or password")
			return
		}
		h.fail(w, r, err)
		return
	}

	h.writeJSON(r.Context(), w, http.StatusOK, tokenResponse{Token: token})
}

// createActivationCode godoc
//
// @Summary     Create an app activation code
// @Tags        admin-auth
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body createActivationCodeRequest true "code parameters"
// @Success     201 {object} activationCodeResponse
// @Failure     400 {object} errorResponse
// @Failure     401 {object} errorResponse
// @Failure     403 {object} errorResponse
// @Router      /admin/auth/app-activations/create-code [post]
func (h *Handler) createActivationCode(w http.ResponseWriter, r *http.Request) {
	var req createActivationCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	a, err := h.admins.CreateActivationCode(r.Context(), req.ActivationsLimit, req.ExpiresInDays, req.Description)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "activation code created", "activation_id", a.ID, "limit", a.ActivationsLimit)
	h.writeJSON(r.Context(), w, http.StatusCreated, activationCodeResponse{ActivationCode: a.ActivationCode})
}

// listActivations godoc
//
// @Summary     List app activations
// @Tags        admin-auth
// @Produce     json
// @Security    Bearer
// @Success     200 {array} models.AppActivation
// @Failure     401 {object} errorResponse
// @Failure     403 {object} errorResponse
// @Router      /admin/auth/app-activations [get]
func (h *Handler) listActivations(w http.ResponseWriter, r *http.Request) {
	list, err := h.admins.ListActivations(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, list)
}
