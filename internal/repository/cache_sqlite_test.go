package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/futig/resomate/internal/entity"
)

func setupCacheRepo(t *testing.T) *CacheSQLite {
	t.Helper()

	db, err := OpenCacheDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open cache db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return NewCacheSQLite(db)
}

func noteRecord(id, title string, modified time.Time) entity.CacheRecord {
	return entity.CacheRecord{
		ID:           id,
		Kind:         entity.EntityKindNote,
		Payload:      json.RawMessage(`{"title":"` + title + `"}`),
		LastModified: modified,
	}
}

func TestCacheSQLite_PutGetOverwrite(t *testing.T) {
	repo := setupCacheRepo(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := repo.Put(ctx, noteRecord("n1", "first", t0)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, noteRecord("n1", "second", t0.Add(time.Minute))); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := repo.Get(ctx, entity.EntityKindNote, "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Payload) != `{"title":"second"}` {
		t.Errorf("expected last write to win, got %s", got.Payload)
	}
	if !got.LastModified.Equal(t0.Add(time.Minute)) {
		t.Errorf("unexpected last modified %v", got.LastModified)
	}
	if got.Synced {
		t.Error("expected unsynced record")
	}

	list, err := repo.List(ctx, entity.EntityKindNote)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected a single record, got %d", len(list))
	}

	if _, err := repo.Get(ctx, entity.EntityKindSpeech, "n1"); !errors.Is(err, entity.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for other kind, got %v", err)
	}
}

func TestCacheSQLite_ListOrderedByLastModified(t *testing.T) {
	repo := setupCacheRepo(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "newest", "middle"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		if err := repo.Put(ctx, noteRecord(id, id, t0.Add(offsets[i]))); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	list, err := repo.List(ctx, entity.EntityKindNote)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"newest", "middle", "old"}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, list[i].ID)
		}
	}
}

func TestCacheSQLite_MarkSynced(t *testing.T) {
	repo := setupCacheRepo(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_ = repo.Put(ctx, noteRecord("a", "a", t0))
	_ = repo.Put(ctx, noteRecord("b", "b", t0))

	flipped, err := repo.MarkSynced(ctx, entity.EntityKindNote, "a", "remote-a", t0)
	if err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if !flipped {
		t.Fatal("expected the flag to flip")
	}

	a, _ := repo.Get(ctx, entity.EntityKindNote, "a")
	if !a.Synced || a.RemoteID != "remote-a" {
		t.Errorf("unexpected record a: %+v", a)
	}
	b, _ := repo.Get(ctx, entity.EntityKindNote, "b")
	if b.Synced {
		t.Error("record b must stay unsynced")
	}

	byRemote, err := repo.GetByRemoteID(ctx, entity.EntityKindNote, "remote-a")
	if err != nil || byRemote.ID != "a" {
		t.Errorf("expected lookup by remote id to find a, got %+v, %v", byRemote, err)
	}

	counts, err := repo.CountUnsynced(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[entity.EntityKindNote] != 1 || counts[entity.EntityKindSpeech] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestCacheSQLite_MarkSyncedIgnoresStaleVersion(t *testing.T) {
	repo := setupCacheRepo(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_ = repo.Put(ctx, noteRecord("a", "v1", t0))
	// a newer local write lands while the push of v1 is in flight
	_ = repo.Put(ctx, noteRecord("a", "v2", t0.Add(time.Second)))

	flipped, err := repo.MarkSynced(ctx, entity.EntityKindNote, "a", "remote-a", t0)
	if err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if flipped {
		t.Fatal("stale acknowledgment must not mark the newer write synced")
	}

	a, _ := repo.Get(ctx, entity.EntityKindNote, "a")
	if a.Synced {
		t.Error("record must stay unsynced")
	}
	if a.RemoteID != "remote-a" {
		t.Errorf("remote id should still be stored, got %q", a.RemoteID)
	}

	// a later overwrite without a remote id keeps the stored one
	_ = repo.Put(ctx, noteRecord("a", "v3", t0.Add(2*time.Second)))
	a, _ = repo.Get(ctx, entity.EntityKindNote, "a")
	if a.RemoteID != "remote-a" {
		t.Errorf("expected remote id to survive overwrite, got %q", a.RemoteID)
	}
}

func TestCacheSQLite_DeleteAndClear(t *testing.T) {
	repo := setupCacheRepo(t)
	ctx := context.Background()
	now := time.Now()

	_ = repo.Put(ctx, noteRecord("a", "a", now))
	_ = repo.Put(ctx, noteRecord("b", "b", now))

	if err := repo.Delete(ctx, entity.EntityKindNote, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, entity.EntityKindNote, "a"); !errors.Is(err, entity.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound on second delete, got %v", err)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	list, _ := repo.List(ctx, entity.EntityKindNote)
	if len(list) != 0 {
		t.Errorf("expected empty cache, got %d records", len(list))
	}
}
