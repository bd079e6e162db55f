package document

import (
	"context"

	"github.com/futig/resomate/internal/entity"
)

type DocumentUsecase interface {
	CreateDocument(ctx context.Context, ownerID string, kind entity.EntityKind, req *entity.CreateDocumentRequest) (*entity.RemoteEntity, error)
	ListDocuments(ctx context.Context, ownerID string, kind entity.EntityKind, req *entity.ListDocumentsRequest) ([]*entity.RemoteEntity, error)
	GetDocument(ctx context.Context, ownerID string, kind entity.EntityKind, id string) (*entity.RemoteEntity, error)
	PatchDocument(ctx context.Context, ownerID string, kind entity.EntityKind, id string, req *entity.PatchDocumentRequest) (*entity.RemoteEntity, error)
	DeleteDocument(ctx context.Context, ownerID string, kind entity.EntityKind, id string) error
}
