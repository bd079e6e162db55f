package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/logger"
	"github.com/futig/resomate/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxBodySize = 64 << 10

type Handler struct {
	usecase GenerationUsecase
}

func NewHandler(usecase GenerationUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Generate handles POST /generate/{kind}. An exhausted cascade is answered with 502 and the failure body.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	kind := entity.DocumentKind(chi.URLParam(r, "kind"))
	ctx := logger.AddFields(r.Context(),
		zap.String("action", "Generate"),
		zap.String("document_kind", string(kind)),
	)

	var params entity.GenerationParams
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&params); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.usecase.Generate(ctx, entity.NewGenerationRequest(kind, params))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if !result.IsSuccess() {
		status = http.StatusBadGateway
	}

	ctxzap.Info(ctx, "generation finished",
		zap.Bool("success", result.IsSuccess()),
		zap.String("tier", string(result.Tier())),
	)

	h.respondJSON(w, status, entity.ToGenerationResponse(kind, result))
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Warn(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidKind):
		h.respondError(ctx, w, http.StatusNotFound, "unknown document kind", err)
	case errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter):
		ctxzap.Warn(ctx, "invalid generation request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		ctxzap.Error(ctx, "generation request failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
