package document

import (
	"context"
	"fmt"

	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/metrics"
	"github.com/futig/resomate/internal/pkg/validator"
	"github.com/futig/resomate/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentUsecase implements the remote store operations. Every call acts on behalf of one owner.
type DocumentUsecase struct {
	documentRepo repository.DocumentRepository
	validator    *validator.Validator
	logger       *zap.Logger
}

// NewUsecase creates a new document use case
func NewUsecase(
	documentRepo repository.DocumentRepository,
	validator *validator.Validator,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		documentRepo: documentRepo,
		validator:    validator,
		logger:       logger,
	}
}

func (uc *DocumentUsecase) CreateDocument(
	ctx context.Context,
	ownerID string,
	kind entity.EntityKind,
	req *entity.CreateDocumentRequest,
) (doc *entity.RemoteEntity, err error) {
	defer func() { observe(kind, "create", err) }()

	if err := uc.validator.ValidatePayload(kind, req.Payload); err != nil {
		return nil, err
	}

	doc, err = uc.documentRepo.Create(ctx, entity.RemoteEntity{
		ID:      uuid.New().String(),
		Kind:    kind,
		OwnerID: ownerID,
		LocalID: req.LocalID,
		Payload: req.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	ctxzap.Info(ctx, "document stored",
		zap.String("document_id", doc.ID),
		zap.String("local_id", doc.LocalID),
	)

	return doc, nil
}

func (uc *DocumentUsecase) ListDocuments(
	ctx context.Context,
	ownerID string,
	kind entity.EntityKind,
	req *entity.ListDocumentsRequest,
) (docs []*entity.RemoteEntity, err error) {
	defer func() { observe(kind, "list", err) }()

	if err := kind.Validate(); err != nil {
		return nil, err
	}

	docs, err = uc.documentRepo.List(ctx, ownerID, kind, req.Skip, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return docs, nil
}

func (uc *DocumentUsecase) GetDocument(
	ctx context.Context,
	ownerID string,
	kind entity.EntityKind,
	id string,
) (doc *entity.RemoteEntity, err error) {
	defer func() { observe(kind, "get", err) }()

	if err := kind.Validate(); err != nil {
		return nil, err
	}

	doc, err = uc.documentRepo.Get(ctx, ownerID, kind, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// PatchDocument replaces the payload of an existing document
func (uc *DocumentUsecase) PatchDocument(
	ctx context.Context,
	ownerID string,
	kind entity.EntityKind,
	id string,
	req *entity.PatchDocumentRequest,
) (doc *entity.RemoteEntity, err error) {
	defer func() { observe(kind, "patch", err) }()

	if err := uc.validator.ValidatePayload(kind, req.Payload); err != nil {
		return nil, err
	}

	doc, err = uc.documentRepo.UpdatePayload(ctx, entity.RemoteEntity{
		ID:      id,
		Kind:    kind,
		OwnerID: ownerID,
		Payload: req.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("patch document: %w", err)
	}

	ctxzap.Info(ctx, "document updated", zap.String("document_id", doc.ID))

	return doc, nil
}

func (uc *DocumentUsecase) DeleteDocument(
	ctx context.Context,
	ownerID string,
	kind entity.EntityKind,
	id string,
) (err error) {
	defer func() { observe(kind, "delete", err) }()

	if err := kind.Validate(); err != nil {
		return err
	}

	if err := uc.documentRepo.Delete(ctx, ownerID, kind, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	ctxzap.Info(ctx, "document deleted", zap.String("document_id", id))

	return nil
}

func observe(kind entity.EntityKind, operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.DocumentOperationsTotal.WithLabelValues(string(kind), operation, status).Inc()
}
