package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/resomate/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository defines the interface for remote document persistence.
// Every operation is scoped to an owner.
type DocumentRepository interface {
	Create(ctx context.Context, doc entity.RemoteEntity) (*entity.RemoteEntity, error)
	Get(ctx context.Context, ownerID string, kind entity.EntityKind, id string) (*entity.RemoteEntity, error)
	List(ctx context.Context, ownerID string, kind entity.EntityKind, skip, limit int) ([]*entity.RemoteEntity, error)
	UpdatePayload(ctx context.Context, doc entity.RemoteEntity) (*entity.RemoteEntity, error)
	Delete(ctx context.Context, ownerID string, kind entity.EntityKind, id string) error
}

var _ DocumentRepository = &DocumentPostgres{}

const documentColumns = `id, kind, owner_id, local_id, payload, created_at, updated_at`

// DocumentPostgres implements DocumentRepository using PostgreSQL
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{
		db: db,
	}
}

// Create inserts a document. A second create carrying the same local id for the same owner
// and kind updates the existing row, so a retried first push never duplicates a document.
func (r *DocumentPostgres) Create(ctx context.Context, doc entity.RemoteEntity) (*entity.RemoteEntity, error) {
	docID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse document ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO documents (id, kind, owner_id, local_id, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, kind, local_id) WHERE local_id <> ''
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
		RETURNING `+documentColumns,
		docID, string(doc.Kind), doc.OwnerID, doc.LocalID, []byte(doc.Payload),
	)

	created, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	return created, nil
}

func (r *DocumentPostgres) Get(ctx context.Context, ownerID string, kind entity.EntityKind, id string) (*entity.RemoteEntity, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, entity.ErrDocumentNotFound
	}

	row := r.db.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1 AND owner_id = $2 AND kind = $3`,
		docID, ownerID, string(kind),
	)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

func (r *DocumentPostgres) List(ctx context.Context, ownerID string, kind entity.EntityKind, skip, limit int) ([]*entity.RemoteEntity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE owner_id = $1 AND kind = $2
		ORDER BY updated_at DESC, id
		LIMIT $3 OFFSET $4`,
		ownerID, string(kind), limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*entity.RemoteEntity, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentPostgres) UpdatePayload(ctx context.Context, doc entity.RemoteEntity) (*entity.RemoteEntity, error) {
	docID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, entity.ErrDocumentNotFound
	}

	row := r.db.QueryRow(ctx, `
		UPDATE documents
		SET payload = $4, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND kind = $3
		RETURNING `+documentColumns,
		docID, doc.OwnerID, string(doc.Kind), []byte(doc.Payload),
	)

	updated, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}

	return updated, nil
}

func (r *DocumentPostgres) Delete(ctx context.Context, ownerID string, kind entity.EntityKind, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return entity.ErrDocumentNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND owner_id = $2 AND kind = $3`,
		docID, ownerID, string(kind),
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}

	return nil
}

func scanDocument(row pgx.Row) (*entity.RemoteEntity, error) {
	var (
		id      uuid.UUID
		kind    string
		payload []byte
		doc     entity.RemoteEntity
	)
	if err := row.Scan(&id, &kind, &doc.OwnerID, &doc.LocalID, &payload, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}

	doc.ID = id.String()
	doc.Kind = entity.EntityKind(kind)
	doc.Payload = payload
	return &doc, nil
}
