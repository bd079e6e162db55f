package document

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/validator"
	"go.uber.org/zap/zaptest"
)

// memoryDocuments is an in-memory DocumentRepository with the same upsert rule as the Postgres one
type memoryDocuments struct {
	mu   sync.Mutex
	docs map[string]*entity.RemoteEntity
	tick time.Time
}

func newMemoryDocuments() *memoryDocuments {
	return &memoryDocuments{
		docs: make(map[string]*entity.RemoteEntity),
		tick: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryDocuments) now() time.Time {
	m.tick = m.tick.Add(time.Second)
	return m.tick
}

func (m *memoryDocuments) Create(_ context.Context, doc entity.RemoteEntity) (*entity.RemoteEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc.LocalID != "" {
		for _, existing := range m.docs {
			if existing.OwnerID == doc.OwnerID && existing.Kind == doc.Kind && existing.LocalID == doc.LocalID {
				existing.Payload = doc.Payload
				existing.UpdatedAt = m.now()
				cp := *existing
				return &cp, nil
			}
		}
	}

	doc.CreatedAt = m.now()
	doc.UpdatedAt = doc.CreatedAt
	m.docs[doc.ID] = &doc
	cp := doc
	return &cp, nil
}

func (m *memoryDocuments) find(ownerID string, kind entity.EntityKind, id string) (*entity.RemoteEntity, error) {
	doc, ok := m.docs[id]
	if !ok || doc.OwnerID != ownerID || doc.Kind != kind {
		return nil, entity.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *memoryDocuments) Get(_ context.Context, ownerID string, kind entity.EntityKind, id string) (*entity.RemoteEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.find(ownerID, kind, id)
	if err != nil {
		return nil, err
	}
	cp := *doc
	return &cp, nil
}

func (m *memoryDocuments) List(_ context.Context, ownerID string, kind entity.EntityKind, skip, limit int) ([]*entity.RemoteEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.RemoteEntity
	for _, doc := range m.docs {
		if doc.OwnerID == ownerID && doc.Kind == kind {
			cp := *doc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })

	if skip >= len(out) {
		return []*entity.RemoteEntity{}, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryDocuments) UpdatePayload(_ context.Context, doc entity.RemoteEntity) (*entity.RemoteEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.find(doc.OwnerID, doc.Kind, doc.ID)
	if err != nil {
		return nil, err
	}
	existing.Payload = doc.Payload
	existing.UpdatedAt = m.now()
	cp := *existing
	return &cp, nil
}

func (m *memoryDocuments) Delete(_ context.Context, ownerID string, kind entity.EntityKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.find(ownerID, kind, id); err != nil {
		return err
	}
	delete(m.docs, id)
	return nil
}

func newTestUsecase(t *testing.T) (*DocumentUsecase, *memoryDocuments) {
	repo := newMemoryDocuments()
	return NewUsecase(repo, validator.New(), zaptest.NewLogger(t)), repo
}

func notePayload(title string) json.RawMessage {
	return json.RawMessage(`{"title":"` + title + `","content":"Bloc positions"}`)
}

func TestCreateDocument_RetriedCreateKeepsOneDocument(t *testing.T) {
	uc, repo := newTestUsecase(t)
	ctx := context.Background()

	first, err := uc.CreateDocument(ctx, "delegate-1", entity.EntityKindNote, &entity.CreateDocumentRequest{
		LocalID: "local-1",
		Payload: notePayload("Caucus"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := uc.CreateDocument(ctx, "delegate-1", entity.EntityKindNote, &entity.CreateDocumentRequest{
		LocalID: "local-1",
		Payload: notePayload("Caucus v2"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected the same document, got %s and %s", first.ID, second.ID)
	}
	if len(repo.docs) != 1 {
		t.Errorf("expected one stored document, got %d", len(repo.docs))
	}
}

func TestCreateDocument_RejectsInvalidPayload(t *testing.T) {
	uc, _ := newTestUsecase(t)

	_, err := uc.CreateDocument(context.Background(), "delegate-1", entity.EntityKindTemplate, &entity.CreateDocumentRequest{
		Payload: json.RawMessage(`{"title":"GSL","type":"memo"}`),
	})
	if !errors.Is(err, entity.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}

	_, err = uc.CreateDocument(context.Background(), "delegate-1", "poster", &entity.CreateDocumentRequest{
		Payload: json.RawMessage(`{}`),
	})
	if !errors.Is(err, entity.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestDocuments_ScopedToOwner(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	doc, err := uc.CreateDocument(ctx, "delegate-1", entity.EntityKindNote, &entity.CreateDocumentRequest{Payload: notePayload("Private")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.GetDocument(ctx, "delegate-2", entity.EntityKindNote, doc.ID); !errors.Is(err, entity.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound for another owner, got %v", err)
	}

	docs, err := uc.ListDocuments(ctx, "delegate-2", entity.EntityKindNote, &entity.ListDocumentsRequest{Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents for another owner, got %d", len(docs))
	}

	if err := uc.DeleteDocument(ctx, "delegate-2", entity.EntityKindNote, doc.ID); !errors.Is(err, entity.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound on foreign delete, got %v", err)
	}
}

func TestPatchDocument(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	doc, err := uc.CreateDocument(ctx, "delegate-1", entity.EntityKindSpeech, &entity.CreateDocumentRequest{
		Payload: json.RawMessage(`{"title":"Opening","content":"Honourable chair"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patched, err := uc.PatchDocument(ctx, "delegate-1", entity.EntityKindSpeech, doc.ID, &entity.PatchDocumentRequest{
		Payload: json.RawMessage(`{"title":"Opening","content":"Honourable chair, fellow delegates"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !patched.UpdatedAt.After(doc.UpdatedAt) {
		t.Errorf("expected updated_at to advance")
	}

	_, err = uc.PatchDocument(ctx, "delegate-1", entity.EntityKindSpeech, "missing", &entity.PatchDocumentRequest{
		Payload: json.RawMessage(`{"title":"Opening"}`),
	})
	if !errors.Is(err, entity.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestListDocuments_NewestFirst(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := uc.CreateDocument(ctx, "delegate-1", entity.EntityKindNote, &entity.CreateDocumentRequest{Payload: notePayload(title)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	docs, err := uc.ListDocuments(ctx, "delegate-1", entity.EntityKindNote, &entity.ListDocumentsRequest{Skip: 0, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	var payload entity.NotePayload
	if err := json.Unmarshal(docs[0].Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Title != "third" {
		t.Errorf("expected newest document first, got %q", payload.Title)
	}
}
