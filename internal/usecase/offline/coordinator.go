package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/metrics"
	"github.com/futig/resomate/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Coordinator owns the local cache and its reconciliation with the remote store.
// Concurrent writes to the same record id are resolved by the store: the last write wins.
type Coordinator struct {
	store        repository.CacheRepository
	connectivity Connectivity
	now          func() time.Time
	inProgress   atomic.Bool
	logger       *zap.Logger
}

type CoordinatorOption func(*Coordinator)

// WithConnectivity makes SaveAndPush skip the push while the remote store is believed unreachable
func WithConnectivity(c Connectivity) CoordinatorOption {
	return func(co *Coordinator) {
		co.connectivity = c
	}
}

// WithClock replaces the clock used to stamp local writes
func WithClock(now func() time.Time) CoordinatorOption {
	return func(co *Coordinator) {
		co.now = now
	}
}

func NewCoordinator(store repository.CacheRepository, logger *zap.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:        store,
		connectivity: alwaysOnline{},
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save writes the record locally and marks it unsynced. An empty id gets a fresh one.
// This is the only operation that succeeds regardless of network state.
func (c *Coordinator) Save(ctx context.Context, kind entity.EntityKind, id string, payload json.RawMessage) (*entity.CacheRecord, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", entity.ErrInvalidPayload)
	}
	if id == "" {
		id = uuid.NewString()
	}

	record := entity.CacheRecord{
		ID:           id,
		Kind:         kind,
		Payload:      payload,
		LastModified: c.now().UTC(),
		Synced:       false,
	}

	if err := c.store.Put(ctx, record); err != nil {
		return nil, localStoreError("save", err)
	}

	// re-read so the caller sees the remote id kept from earlier pushes
	saved, err := c.store.Get(ctx, kind, id)
	if err != nil {
		return nil, localStoreError("read back", err)
	}

	ctxzap.Debug(ctx, "record saved locally",
		zap.String("entity_kind", string(kind)),
		zap.String("record_id", id),
	)

	return saved, nil
}

// Push sends the record to the remote store and marks it synced on acknowledgment.
// Remote failures are logged and reported as false; only local store failures return an error.
func (c *Coordinator) Push(ctx context.Context, record *entity.CacheRecord, writer RemoteWriter) (bool, error) {
	fields := []zap.Field{
		zap.String("entity_kind", string(record.Kind)),
		zap.String("record_id", record.ID),
	}

	remoteID, err := writer.Write(ctx, record)
	if err != nil {
		metrics.SyncPushTotal.WithLabelValues(string(record.Kind), "failed").Inc()
		ctxzap.Warn(ctx, "push failed, record stays queued", append(fields, zap.Error(err))...)
		return false, nil
	}

	flipped, err := c.store.MarkSynced(ctx, record.Kind, record.ID, remoteID, record.LastModified)
	if err != nil {
		return false, localStoreError("mark synced", err)
	}
	if remoteID != "" {
		record.RemoteID = remoteID
	}

	if !flipped {
		// the record was rewritten or deleted while the push was in flight
		metrics.SyncPushTotal.WithLabelValues(string(record.Kind), "stale").Inc()
		ctxzap.Info(ctx, "push acknowledged for an outdated version", fields...)
		return false, nil
	}

	record.Synced = true
	metrics.SyncPushTotal.WithLabelValues(string(record.Kind), "synced").Inc()
	ctxzap.Debug(ctx, "record pushed", append(fields, zap.String("remote_id", remoteID))...)

	return true, nil
}

// SaveAndPush is the standard write path: local write first, then a best-effort push
// when the remote store is believed reachable. The remote outcome never fails the call;
// local store failures always do.
func (c *Coordinator) SaveAndPush(
	ctx context.Context,
	kind entity.EntityKind,
	id string,
	payload json.RawMessage,
	writer RemoteWriter,
) (*entity.CacheRecord, error) {
	record, err := c.Save(ctx, kind, id, payload)
	if err != nil {
		return nil, err
	}

	if writer == nil || !c.connectivity.Online() {
		ctxzap.Debug(ctx, "offline, push deferred", zap.String("record_id", record.ID))
		return record, nil
	}

	// Push reports remote failures as false, so an error here comes from the local store
	if _, err := c.Push(ctx, record, writer); err != nil {
		return nil, err
	}

	return record, nil
}

// ListUnsynced returns every unsynced record grouped by kind
func (c *Coordinator) ListUnsynced(ctx context.Context) (entity.UnsyncedRecords, error) {
	pending := make(entity.UnsyncedRecords, len(entity.EntityKinds))
	for _, kind := range entity.EntityKinds {
		records, err := c.store.ListUnsynced(ctx, kind)
		if err != nil {
			return nil, localStoreError("list unsynced", err)
		}
		pending[kind] = records
	}
	return pending, nil
}

// PendingCount returns unsynced counts per kind and their total
func (c *Coordinator) PendingCount(ctx context.Context) (map[entity.EntityKind]int, int, error) {
	counts, err := c.store.CountUnsynced(ctx)
	if err != nil {
		return nil, 0, localStoreError("count unsynced", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	metrics.SyncPending.Set(float64(total))

	return counts, total, nil
}

// ReconcileOnReconnect pushes every queued record once. Individual failures leave their records
// queued and do not affect the others. An overlapping call returns an empty report immediately.
func (c *Coordinator) ReconcileOnReconnect(ctx context.Context, writer RemoteWriter) (entity.SyncReport, error) {
	var report entity.SyncReport

	if !c.inProgress.CompareAndSwap(false, true) {
		ctxzap.Debug(ctx, "reconciliation already in progress")
		return report, nil
	}
	defer c.inProgress.Store(false)

	pending, err := c.ListUnsynced(ctx)
	if err != nil {
		return report, err
	}

	for _, kind := range entity.EntityKinds {
		for _, record := range pending[kind] {
			report.Attempted++

			ok, err := c.Push(ctx, record, writer)
			if err != nil {
				return report, err
			}
			if ok {
				report.Synced++
			} else {
				report.Failed++
			}
		}
	}

	if _, _, err := c.PendingCount(ctx); err != nil {
		return report, err
	}

	ctxzap.Info(ctx, "reconciliation finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("synced", report.Synced),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// PullReport summarises one pull
type PullReport struct {
	Fetched     int                 `json:"fetched"`
	Updated     int                 `json:"updated"`
	FailedKinds []entity.EntityKind `json:"failed_kinds,omitempty"`
}

// Pull fetches every kind from the remote store concurrently and overwrites the matching local
// records, marking them synced. Unsynced local edits to those records are discarded.
// A kind whose fetch fails is skipped; only local store failures return an error.
func (c *Coordinator) Pull(ctx context.Context, reader RemoteReader) (PullReport, error) {
	var report PullReport

	fetched := make([][]*entity.RemoteEntity, len(entity.EntityKinds))
	failed := make([]bool, len(entity.EntityKinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range entity.EntityKinds {
		g.Go(func() error {
			entities, err := reader.ReadAll(gctx, kind)
			if err != nil {
				failed[i] = true
				ctxzap.Warn(ctx, "pull failed for kind", zap.String("entity_kind", string(kind)), zap.Error(err))
				return nil
			}
			fetched[i] = entities
			return nil
		})
	}
	_ = g.Wait()

	for i, kind := range entity.EntityKinds {
		if failed[i] {
			report.FailedKinds = append(report.FailedKinds, kind)
			continue
		}

		for _, remote := range fetched[i] {
			report.Fetched++

			localID, err := c.matchLocal(ctx, kind, remote)
			if err != nil {
				return report, err
			}

			updatedAt := remote.UpdatedAt
			if updatedAt.IsZero() {
				updatedAt = c.now()
			}

			err = c.store.Put(ctx, entity.CacheRecord{
				ID:           localID,
				Kind:         kind,
				Payload:      remote.Payload,
				LastModified: updatedAt.UTC(),
				Synced:       true,
				RemoteID:     remote.ID,
			})
			if err != nil {
				return report, localStoreError("store pulled record", err)
			}
			report.Updated++
		}
	}

	ctxzap.Info(ctx, "pull finished",
		zap.Int("fetched", report.Fetched),
		zap.Int("failed_kinds", len(report.FailedKinds)),
	)

	return report, nil
}

// matchLocal finds the local id a remote entity maps to: an earlier push recorded its remote id,
// or the remote entity remembers the local id it was created from, or both share the same id.
func (c *Coordinator) matchLocal(ctx context.Context, kind entity.EntityKind, remote *entity.RemoteEntity) (string, error) {
	candidates := []func() (*entity.CacheRecord, error){
		func() (*entity.CacheRecord, error) { return c.store.GetByRemoteID(ctx, kind, remote.ID) },
		func() (*entity.CacheRecord, error) {
			if remote.LocalID == "" {
				return nil, entity.ErrRecordNotFound
			}
			return c.store.Get(ctx, kind, remote.LocalID)
		},
		func() (*entity.CacheRecord, error) { return c.store.Get(ctx, kind, remote.ID) },
	}

	for _, lookup := range candidates {
		record, err := lookup()
		if err == nil {
			return record.ID, nil
		}
		if !errors.Is(err, entity.ErrRecordNotFound) {
			return "", localStoreError("match pulled record", err)
		}
	}

	if remote.LocalID != "" {
		return remote.LocalID, nil
	}
	return remote.ID, nil
}

func (c *Coordinator) Get(ctx context.Context, kind entity.EntityKind, id string) (*entity.CacheRecord, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	record, err := c.store.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, entity.ErrRecordNotFound) {
			return nil, err
		}
		return nil, localStoreError("get", err)
	}
	return record, nil
}

// List returns the records of kind, most recently modified first
func (c *Coordinator) List(ctx context.Context, kind entity.EntityKind) ([]*entity.CacheRecord, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	records, err := c.store.List(ctx, kind)
	if err != nil {
		return nil, localStoreError("list", err)
	}
	return records, nil
}

// Delete removes a record from the local cache only
func (c *Coordinator) Delete(ctx context.Context, kind entity.EntityKind, id string) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, entity.ErrRecordNotFound) {
			return err
		}
		return localStoreError("delete", err)
	}
	return nil
}

// ClearAll empties the local cache, queued records included
func (c *Coordinator) ClearAll(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return localStoreError("clear", err)
	}
	metrics.SyncPending.Set(0)
	return nil
}

func localStoreError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", entity.ErrLocalStore, op, err)
}
