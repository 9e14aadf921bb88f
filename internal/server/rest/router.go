package rest

import (
	"net/http"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	_ "github.com/dmitrijs2005/foodrecipe/internal/server/docs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Routes builds the complete router.
//
//	/admin/auth/login                          public, rate limited
//	/admin/auth/app-activations[/create-code]  manager
//	/admin/{categories,ingredients,recipes}    editor
//	/admin/pictures/{id}                       public
//	/auth/{login,activate-app}                 public, rate limited
//	/last-change, /recipes                     optional client token
//	/pictures/{id}                             public
//	/manage/...                                admin SPA
//	/health, /metrics, /swagger/*              operations
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(h.requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", common.AuthorizationHeaderName},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         86400,
	}))
	r.Use(h.instrument)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(r.Context(), w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(r.Context(), w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/admin", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(h.loginLimit()).Post("/login", h.adminLogin)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate(true), h.requireRole(common.RoleManager))
				r.Post("/app-activations/create-code", h.createActivationCode)
				r.Get("/app-activations", h.listActivations)
			})
		})

		// used by <img> tags of the admin SPA, which cannot send a token
		r.Get("/pictures/{id}", h.getPicture)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate(true), h.requireRole(common.RoleEditor))

			r.Get("/categories", h.listCategories)
			r.Post("/categories", h.createCategory)
			r.Get("/categories/{id}", h.getCategory)
			r.Put("/categories/{id}", h.updateCategory)
			r.Delete("/categories/{id}", h.deleteCategory)

			r.Get("/ingredients", h.listIngredients)
			r.Post("/ingredients", h.createIngredient)
			r.Get("/ingredients/units", h.listIngredientUnits)
			r.Get("/ingredients/{id}", h.getIngredient)
			r.Put("/ingredients/{id}", h.updateIngredient)
			r.Delete("/ingredients/{id}", h.deleteIngredient)

			r.Get("/recipes", h.listRecipes)
			r.Post("/recipes", h.createRecipe)
			r.Get("/recipes/{id}", h.getRecipe)
			r.Put("/recipes/{id}", h.updateRecipe)
			r.Put("/recipes/{id}/change-auth", h.changeRecipeAuth)
			r.Delete("/recipes/{id}", h.deleteRecipe)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(h.loginLimit())
		r.Post("/login", h.clientLogin)
		r.Post("/activate-app", h.activateApp)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate(false))
		r.Get("/last-change", h.lastChange)
		r.Get("/recipes", h.clientRecipes)
	})
	r.Get("/pictures/{id}", h.getPicture)

	h.mountStatic(r)

	return r
}
