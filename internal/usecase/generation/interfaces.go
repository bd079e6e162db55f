package generation

import (
	"context"

	"github.com/futig/resomate/internal/entity"
)

type LLMConnector interface {
	Complete(ctx context.Context, req *entity.LLMCompletionRequest) (string, error)
}
