package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/resomate/internal/api/middleware"
	"github.com/futig/resomate/internal/entity"
	"github.com/go-chi/chi/v5"
)

type fakeUsecase struct {
	docs      map[string]*entity.RemoteEntity
	createErr error
	lastOwner string
	lastList  entity.ListDocumentsRequest
}

func newFakeUsecase() *fakeUsecase {
	return &fakeUsecase{docs: make(map[string]*entity.RemoteEntity)}
}

func (f *fakeUsecase) CreateDocument(_ context.Context, ownerID string, kind entity.EntityKind, req *entity.CreateDocumentRequest) (*entity.RemoteEntity, error) {
	f.lastOwner = ownerID
	if f.createErr != nil {
		return nil, f.createErr
	}
	doc := &entity.RemoteEntity{
		ID:        fmt.Sprintf("doc-%d", len(f.docs)+1),
		Kind:      kind,
		OwnerID:   ownerID,
		LocalID:   req.LocalID,
		Payload:   req.Payload,
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.docs[doc.ID] = doc
	return doc, nil
}

func (f *fakeUsecase) ListDocuments(_ context.Context, ownerID string, kind entity.EntityKind, req *entity.ListDocumentsRequest) ([]*entity.RemoteEntity, error) {
	f.lastOwner = ownerID
	f.lastList = *req
	var out []*entity.RemoteEntity
	for _, d := range f.docs {
		if d.OwnerID == ownerID && d.Kind == kind {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeUsecase) GetDocument(_ context.Context, ownerID string, kind entity.EntityKind, id string) (*entity.RemoteEntity, error) {
	d, ok := f.docs[id]
	if !ok || d.OwnerID != ownerID || d.Kind != kind {
		return nil, fmt.Errorf("get document: %w", entity.ErrDocumentNotFound)
	}
	return d, nil
}

func (f *fakeUsecase) PatchDocument(ctx context.Context, ownerID string, kind entity.EntityKind, id string, req *entity.PatchDocumentRequest) (*entity.RemoteEntity, error) {
	d, err := f.GetDocument(ctx, ownerID, kind, id)
	if err != nil {
		return nil, err
	}
	d.Payload = req.Payload
	return d, nil
}

func (f *fakeUsecase) DeleteDocument(ctx context.Context, ownerID string, kind entity.EntityKind, id string) error {
	if _, err := f.GetDocument(ctx, ownerID, kind, id); err != nil {
		return err
	}
	delete(f.docs, id)
	return nil
}

func newTestRouter(uc DocumentUsecase) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Auth(map[string]string{"tok-1": "delegate-1", "tok-2": "delegate-2"}))
	RegisterRoutes(r, NewHandler(uc))
	return r
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateThenGet(t *testing.T) {
	uc := newFakeUsecase()
	router := newTestRouter(uc)

	rec := do(t, router, http.MethodPost, "/documents/note", "tok-1", entity.CreateDocumentRequest{
		LocalID: "local-1",
		Payload: json.RawMessage(`{"title":"Caucus"}`),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created entity.DocumentResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.LocalID != "local-1" || created.Kind != entity.EntityKindNote {
		t.Errorf("unexpected response: %+v", created)
	}
	if created.CreatedAt != "2025-03-01T09:00:00Z" {
		t.Errorf("unexpected created_at %q", created.CreatedAt)
	}
	if uc.lastOwner != "delegate-1" {
		t.Errorf("expected owner delegate-1, got %q", uc.lastOwner)
	}

	rec = do(t, router, http.MethodGet, "/documents/note/"+created.ID, "tok-1", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/documents/note/"+created.ID, "tok-2", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another owner, got %d", rec.Code)
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	uc := newFakeUsecase()
	router := newTestRouter(uc)

	rec := do(t, router, http.MethodGet, "/documents/poster", "tok-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown kind: expected 404, got %d", rec.Code)
	}

	uc.createErr = fmt.Errorf("%w: title is required", entity.ErrInvalidPayload)
	rec = do(t, router, http.MethodPost, "/documents/note", "tok-1", entity.CreateDocumentRequest{Payload: json.RawMessage(`{}`)})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid payload: expected 400, got %d", rec.Code)
	}

	uc.createErr = fmt.Errorf("create document: connection reset")
	rec = do(t, router, http.MethodPost, "/documents/note", "tok-1", entity.CreateDocumentRequest{Payload: json.RawMessage(`{}`)})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("store failure: expected 500, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/documents/note", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer tok-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rr.Code)
	}

	rec = do(t, router, http.MethodGet, "/documents/note", "nope", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown token: expected 401, got %d", rec.Code)
	}
}

func TestHandler_ListNormalizesPaging(t *testing.T) {
	uc := newFakeUsecase()
	router := newTestRouter(uc)

	rec := do(t, router, http.MethodGet, "/documents/speech?skip=-4&limit=9000", "tok-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if uc.lastList.Skip != 0 || uc.lastList.Limit != 500 {
		t.Errorf("expected skip 0 limit 500, got %+v", uc.lastList)
	}

	var resp entity.ListDocumentsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Documents == nil {
		t.Error("expected an empty list, not null")
	}
}

func TestHandler_PatchAndDelete(t *testing.T) {
	uc := newFakeUsecase()
	router := newTestRouter(uc)

	doc, _ := uc.CreateDocument(context.Background(), "delegate-1", entity.EntityKindNote, &entity.CreateDocumentRequest{
		Payload: json.RawMessage(`{"title":"v1"}`),
	})

	rec := do(t, router, http.MethodPatch, "/documents/note/"+doc.ID, "tok-1", entity.PatchDocumentRequest{
		Payload: json.RawMessage(`{"title":"v2"}`),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if string(uc.docs[doc.ID].Payload) != `{"title":"v2"}` {
		t.Errorf("payload not replaced: %s", uc.docs[doc.ID].Payload)
	}

	rec = do(t, router, http.MethodDelete, "/documents/note/"+doc.ID, "tok-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodDelete, "/documents/note/"+doc.ID, "tok-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}
