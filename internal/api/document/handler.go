package document

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/futig/resomate/internal/api/middleware"
	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/logger"
	"github.com/futig/resomate/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

type Handler struct {
	usecase DocumentUsecase
}

func NewHandler(usecase DocumentUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// CreateDocument handles POST /documents/{kind}
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, kind, ok := h.scope(w, r, "CreateDocument")
	if !ok {
		return
	}

	var req entity.CreateDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	doc, err := h.usecase.CreateDocument(ctx, ownerID, kind, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

// ListDocuments handles GET /documents/{kind}
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, kind, ok := h.scope(w, r, "ListDocuments")
	if !ok {
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	req := entity.ListDocumentsRequest{
		Skip:  skip,
		Limit: limit,
	}

	req.Normalize()

	docs, err := h.usecase.ListDocuments(ctx, ownerID, kind, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	resp := make([]*entity.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, toDocumentResponse(d))
	}

	ctxzap.Debug(ctx, "documents listed", zap.Int("count", len(resp)))

	h.respondJSON(w, http.StatusOK, &entity.ListDocumentsResponse{
		Documents: resp,
	})
}

// GetDocument handles GET /documents/{kind}/{document_id}
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, kind, ok := h.scope(w, r, "GetDocument")
	if !ok {
		return
	}

	doc, err := h.usecase.GetDocument(ctx, ownerID, kind, chi.URLParam(r, "document_id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// PatchDocument handles PATCH /documents/{kind}/{document_id}
func (h *Handler) PatchDocument(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, kind, ok := h.scope(w, r, "PatchDocument")
	if !ok {
		return
	}

	var req entity.PatchDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	doc, err := h.usecase.PatchDocument(ctx, ownerID, kind, chi.URLParam(r, "document_id"), &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// DeleteDocument handles DELETE /documents/{kind}/{document_id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, kind, ok := h.scope(w, r, "DeleteDocument")
	if !ok {
		return
	}

	if err := h.usecase.DeleteDocument(ctx, ownerID, kind, chi.URLParam(r, "document_id")); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, &entity.DeleteDocumentResponse{
		Status: "deleted",
	})
}

// scope extracts the caller, the kind and the request fields shared by every document route
func (h *Handler) scope(w http.ResponseWriter, r *http.Request, action string) (context.Context, string, entity.EntityKind, bool) {
	kind := entity.EntityKind(chi.URLParam(r, "kind"))
	ctx := logger.AddFields(r.Context(),
		zap.String("action", action),
		zap.String("entity_kind", string(kind)),
	)
	if id := chi.URLParam(r, "document_id"); id != "" {
		ctx = logger.AddFields(ctx, zap.String("document_id", id))
	}

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		h.respondError(ctx, w, http.StatusUnauthorized, "unauthenticated", entity.ErrUnauthenticated)
		return ctx, "", "", false
	}

	if err := kind.Validate(); err != nil {
		h.respondError(ctx, w, http.StatusNotFound, "unknown document kind", err)
		return ctx, "", "", false
	}

	return ctx, ownerID, kind, true
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrDocumentNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrInvalidKind):
		h.respondError(ctx, w, http.StatusNotFound, "unknown document kind", err)
	case errors.Is(err, entity.ErrInvalidPayload) || errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid document", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
