package graphql

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter serving the API. It is mounted under /graphql.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServePost)
	r.Get("/", h.ServeGet)
	return r
}
