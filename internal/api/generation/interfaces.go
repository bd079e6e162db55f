package generation

import (
	"context"

	"github.com/futig/resomate/internal/entity"
)

type GenerationUsecase interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (entity.GenerationResult, error)
}
