package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/foodrecipe/internal/server/metrics"
	"github.com/dmitrijs2005/foodrecipe/internal/server/services"
)

type changeAuthRequest struct {
	NeedsAuth *bool `json:"needs_auth" validate:"required"`
}

func (h *Handler) failForm(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errTooLarge) {
		h.writeError(r.Context(), w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	h.fail(w, r, err)
}

// listRecipes godoc
//
// @Summary     List all recipes
// @Tags        recipes
// @Produce     json
// @Security    Bearer
// @Success     200 {array} models.RecipeDetails
// @Router      /admin/recipes [get]
func (h *Handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := h.recipes.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, list)
}

// getRecipe godoc
//
// @Summary     Get a recipe
// @Tags        recipes
// @Produce     json
// @Security    Bearer
// @Param       id path int true "recipe id"
// @Success     200 {object} models.RecipeDetails
// @Failure     404 {object} errorResponse
// @Router      /admin/recipes/{id} [get]
func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "recipe")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.recipes.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, d)
}

// createRecipe godoc
//
// @Summary     Create a recipe
// @Description ingredients is "id,qty,unit;id,qty,unit" or a JSON array of {ingredient_id, qty, unit}.
// @Tags        recipes
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       name         formData string true  "name"
// @Param       instructions formData string true  "instructions"
// @Param       category     formData int    true  "category id"
// @Param       needs_auth   formData bool   false "hidden from non-activated clients, default true"
// @Param       ingredients  formData string false "ingredient list"
// @Param       pictures     formData file   false "pictures"
// @Success     201 {object} models.RecipeDetails
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Router      /admin/recipes [post]
func (h *Handler) createRecipe(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseRecipeForm(w, r)
	if err != nil {
		h.failForm(w, r, err)
		return
	}
	defer form.Close()

	d, err := h.recipes.Create(r.Context(), form.input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.RecordRecipeMutation("create")
	h.logger.Info(r.Context(), "recipe created", "recipe_id", d.ID, "pictures", len(d.Pictures))
	h.writeJSON(r.Context(), w, http.StatusCreated, d)
}

// updateRecipe godoc
//
// @Summary     Update a recipe
// @Description Replaces fields and ingredients. Pictures not listed in pics_to_remain are deleted.
// @Tags        recipes
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       id             path     int    true  "recipe id"
// @Param       name           formData string true  "name"
// @Param       instructions   formData string true  "instructions"
// @Param       category       formData int    true  "category id"
// @Param       needs_auth     formData bool   false "changed only when supplied"
// @Param       ingredients    formData string false "ingredient list"
// @Param       pics_to_remain formData string false "JSON array of picture ids to keep"
// @Param       pictures       formData file   false "new pictures"
// @Success     200 {object} models.RecipeDetails
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Router      /admin/recipes/{id} [put]
func (h *Handler) updateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "recipe")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	form, err := h.parseRecipeForm(w, r)
	if err != nil {
		h.failForm(w, r, err)
		return
	}
	defer form.Close()

	raw, _ := form.value("pics_to_remain")
	keep, err := parseKeepList(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.recipes.Update(r.Context(), id, services.RecipeUpdate{RecipeInput: form.input, KeepPictures: keep})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.RecordRecipeMutation("update")
	h.writeJSON(r.Context(), w, http.StatusOK, d)
}

// changeRecipeAuth godoc
//
// @Summary     Toggle whether a recipe needs an activated app
// @Tags        recipes
// @Accept      json
// @Security    Bearer
// @Param       id   path int               true "recipe id"
// @Param       body body changeAuthRequest true "flag"
// @Success     200
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Router      /admin/recipes/{id}/change-auth [put]
func (h *Handler) changeRecipeAuth(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "recipe")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req changeAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.recipes.SetNeedsAuth(r.Context(), id, *req.NeedsAuth); err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.RecordRecipeMutation("change_auth")
	w.WriteHeader(http.StatusOK)
}

// deleteRecipe godoc
//
// @Summary     Delete a recipe
// @Tags        recipes
// @Security    Bearer
// @Param       id path int true "recipe id"
// @Success     204
// @Failure     404 {object} errorResponse
// @Router      /admin/recipes/{id} [delete]
func (h *Handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "recipe")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.recipes.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.RecordRecipeMutation("delete")
	h.logger.Info(r.Context(), "recipe deleted", "recipe_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// getPicture godoc
//
// @Summary     Picture bytes
// @Tags        pictures
// @Produce     jpeg
// @Param       id path string true "picture id"
// @Success     200 {file} binary
// @Failure     404 {object} errorResponse
// @Router      /pictures/{id} [get]
// @Router      /admin/pictures/{id} [get]
func (h *Handler) getPicture(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "picture")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := h.recipes.GetPicture(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	// a picture id is never reused for different bytes
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn(r.Context(), "failed to write picture", "picture_id", id.String(), "error", err)
	}
}
