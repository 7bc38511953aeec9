// internal/app/features/chat/routes.go
package chat

import (
	"github.com/go-chi/chi/v5"
	"github.com/vhht/vhhtbot/internal/app/system/auth"
)

// Routes returns a subrouter that serves the chat endpoint, mounted under
// /chat. Bearer identities are attached before the handler runs.
func Routes(h *Handler, verifier *auth.Verifier) chi.Router {
	r := chi.NewRouter()
	r.Use(verifier.LoadIdentity)
	r.Post("/", h.Serve)
	return r
}
