package document

import (
	"time"

	"github.com/futig/resomate/internal/entity"
)

// toDocumentResponse converts RemoteEntity to DocumentResponse DTO
func toDocumentResponse(d *entity.RemoteEntity) *entity.DocumentResponse {
	return &entity.DocumentResponse{
		ID:        d.ID,
		Kind:      d.Kind,
		LocalID:   d.LocalID,
		Payload:   d.Payload,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
