package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/documents/{kind}", func(r chi.Router) {
		r.Post("/", h.CreateDocument)
		r.Get("/", h.ListDocuments)

		r.Route("/{document_id}", func(r chi.Router) {
			r.Get("/", h.GetDocument)
			r.Patch("/", h.PatchDocument)
			r.Delete("/", h.DeleteDocument)
		})
	})
}
