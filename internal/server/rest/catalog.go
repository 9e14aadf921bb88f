package rest

import (
	"net/http"
)

type nameRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// listCategories godoc
//
// @Summary     List categories
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Success     200 {array} models.Category
// @Router      /admin/categories [get]
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, list)
}

// getCategory godoc
//
// @Summary     Get a category
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Param       id path int true "category id"
// @Success     200 {object} models.Category
// @Failure     404 {object} errorResponse
// @Router      /admin/categories/{id} [get]
func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, c)
}

// createCategory godoc
//
// @Summary     Create a category
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body nameRequest true "category"
// @Success     201 {object} models.Category
// @Failure     400 {object} errorResponse
// @Failure     409 {object} errorResponse
// @Router      /admin/categories [post]
func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusCreated, c)
}

// updateCategory godoc
//
// @Summary     Rename a category
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id   path int         true "category id"
// @Param       body body nameRequest true "category"
// @Success     200 {object} models.Category
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Failure     409 {object} errorResponse
// @Router      /admin/categories/{id} [put]
func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.catalog.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, c)
}

// deleteCategory godoc
//
// @Summary     Delete a category and its recipes
// @Tags        catalog
// @Security    Bearer
// @Param       id path int true "category id"
// @Success     204
// @Failure     404 {object} errorResponse
// @Router      /admin/categories/{id} [delete]
func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listIngredients godoc
//
// @Summary     List ingredients
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Success     200 {array} models.Ingredient
// @Router      /admin/ingredients [get]
func (h *Handler) listIngredients(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListIngredients(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, list)
}

// listIngredientUnits godoc
//
// @Summary     Last used unit of every ingredient
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Success     200 {array} models.IngredientUnit
// @Router      /admin/ingredients/units [get]
func (h *Handler) listIngredientUnits(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListIngredientUnits(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, list)
}

// getIngredient godoc
//
// @Summary     Get an ingredient
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Param       id path int true "ingredient id"
// @Success     200 {object} models.Ingredient
// @Failure     404 {object} errorResponse
// @Router      /admin/ingredients/{id} [get]
func (h *Handler) getIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "ingredient")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	i, err := h.catalog.GetIngredient(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, i)
}

// createIngredient godoc
//
// @Summary     Create an ingredient
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body nameRequest true "ingredient"
// @Success     201 {object} models.Ingredient
// @Failure     400 {object} errorResponse
// @Failure     409 {object} errorResponse
// @Router      /admin/ingredients [post]
func (h *Handler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	i, err := h.catalog.CreateIngredient(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusCreated, i)
}

// updateIngredient godoc
//
// @Summary     Rename an ingredient
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id   path int         true "ingredient id"
// @Param       body body nameRequest true "ingredient"
// @Success     200 {object} models.Ingredient
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Failure     409 {object} errorResponse
// @Router      /admin/ingredients/{id} [put]
func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "ingredient")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	i, err := h.catalog.UpdateIngredient(r.Context(), id, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, i)
}

// deleteIngredient godoc
//
// @Summary     Delete an ingredient
// @Tags        catalog
// @Security    Bearer
// @Param       id path int true "ingredient id"
// @Success     204
// @Failure     404 {object} errorResponse
// @Router      /admin/ingredients/{id} [delete]
func (h *Handler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "ingredient")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.catalog.DeleteIngredient(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
