package rest

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// mountStatic serves the admin SPA build from the static directory. Every
// client-side route under /manage/ gets index.html.
func (h *Handler) mountStatic(r chi.Router) {
	dir := h.cfg.StaticDir
	index := filepath.Join(dir, "index.html")

	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}

	r.Get("/manage", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/manage/", http.StatusMovedPermanently)
	})
	r.Get("/manage/", serveIndex)
	r.Get("/manage/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(dir, "favicon.ico"))
	})
	r.Handle("/manage/assets/*", http.StripPrefix("/manage/assets/", http.FileServer(http.Dir(filepath.Join(dir, "assets")))))
	r.Get("/manage/*", serveIndex)
}
