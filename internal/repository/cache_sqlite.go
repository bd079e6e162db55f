package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/futig/resomate/internal/entity"
	_ "github.com/mattn/go-sqlite3"
)

// CacheRepository is the local persistent store for cache records
type CacheRepository interface {
	Put(ctx context.Context, record entity.CacheRecord) error
	Get(ctx context.Context, kind entity.EntityKind, id string) (*entity.CacheRecord, error)
	GetByRemoteID(ctx context.Context, kind entity.EntityKind, remoteID string) (*entity.CacheRecord, error)
	List(ctx context.Context, kind entity.EntityKind) ([]*entity.CacheRecord, error)
	ListUnsynced(ctx context.Context, kind entity.EntityKind) ([]*entity.CacheRecord, error)
	CountUnsynced(ctx context.Context) (map[entity.EntityKind]int, error)
	MarkSynced(ctx context.Context, kind entity.EntityKind, id, remoteID string, version time.Time) (bool, error)
	Delete(ctx context.Context, kind entity.EntityKind, id string) error
	Clear(ctx context.Context) error
}

var _ CacheRepository = &CacheSQLite{}

const cacheTable = "cache_records"

var cacheColumns = []string{"kind", "id", "payload", "last_modified", "synced", "remote_id"}

// CacheSQLite implements CacheRepository on a single SQLite file
type CacheSQLite struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// OpenCacheDB opens (creating if needed) the SQLite file at path and applies the cache schema.
// Use ":memory:" for a throwaway store.
func OpenCacheDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("make cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection serialises writers and keeps an in-memory database alive
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = FULL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if err := RunCacheMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func NewCacheSQLite(db *sql.DB) *CacheSQLite {
	return &CacheSQLite{
		db: db,
		sb: sq.StatementBuilder,
	}
}

// Put inserts or overwrites a record. The last writer wins; an empty RemoteID keeps the stored one.
func (r *CacheSQLite) Put(ctx context.Context, record entity.CacheRecord) error {
	query, args, err := r.sb.
		Insert(cacheTable).
		Columns(cacheColumns...).
		Values(
			string(record.Kind),
			record.ID,
			[]byte(record.Payload),
			record.LastModified.UnixNano(),
			record.Synced,
			record.RemoteID,
		).
		Suffix(`ON CONFLICT(kind, id) DO UPDATE SET
			payload = excluded.payload,
			last_modified = excluded.last_modified,
			synced = excluded.synced,
			remote_id = CASE WHEN excluded.remote_id <> '' THEN excluded.remote_id ELSE cache_records.remote_id END`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build put query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put cache record: %w", err)
	}

	return nil
}

func (r *CacheSQLite) Get(ctx context.Context, kind entity.EntityKind, id string) (*entity.CacheRecord, error) {
	return r.getOne(ctx, sq.Eq{"kind": string(kind), "id": id})
}

func (r *CacheSQLite) GetByRemoteID(ctx context.Context, kind entity.EntityKind, remoteID string) (*entity.CacheRecord, error) {
	if remoteID == "" {
		return nil, entity.ErrRecordNotFound
	}
	return r.getOne(ctx, sq.Eq{"kind": string(kind), "remote_id": remoteID})
}

func (r *CacheSQLite) getOne(ctx context.Context, where sq.Eq) (*entity.CacheRecord, error) {
	query, args, err := r.sb.
		Select(cacheColumns...).
		From(cacheTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get cache record: %w", err)
	}

	return record, nil
}

// List returns every record of kind, most recently modified first
func (r *CacheSQLite) List(ctx context.Context, kind entity.EntityKind) ([]*entity.CacheRecord, error) {
	return r.list(ctx, sq.Eq{"kind": string(kind)})
}

func (r *CacheSQLite) ListUnsynced(ctx context.Context, kind entity.EntityKind) ([]*entity.CacheRecord, error) {
	return r.list(ctx, sq.Eq{"kind": string(kind), "synced": false})
}

func (r *CacheSQLite) list(ctx context.Context, where sq.Eq) ([]*entity.CacheRecord, error) {
	query, args, err := r.sb.
		Select(cacheColumns...).
		From(cacheTable).
		Where(where).
		OrderBy("last_modified DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cache records: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.CacheRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cache record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache records: %w", err)
	}

	return records, nil
}

func (r *CacheSQLite) CountUnsynced(ctx context.Context) (map[entity.EntityKind]int, error) {
	query, args, err := r.sb.
		Select("kind", "COUNT(*)").
		From(cacheTable).
		Where(sq.Eq{"synced": false}).
		GroupBy("kind").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count unsynced records: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.EntityKind]int, len(entity.EntityKinds))
	for _, kind := range entity.EntityKinds {
		counts[kind] = 0
	}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[entity.EntityKind(kind)] = n
	}

	return counts, rows.Err()
}

// MarkSynced records a confirmed push of the record version modified at version.
// The remote id is always stored; the synced flag only flips when no newer local write
// happened since that version. Returns whether the flag flipped.
func (r *CacheSQLite) MarkSynced(
	ctx context.Context,
	kind entity.EntityKind,
	id, remoteID string,
	version time.Time,
) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin mark synced: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if remoteID != "" {
		query, args, err := r.sb.
			Update(cacheTable).
			Set("remote_id", remoteID).
			Where(sq.Eq{"kind": string(kind), "id": id}).
			ToSql()
		if err != nil {
			return false, fmt.Errorf("build remote id update: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("store remote id: %w", err)
		}
	}

	query, args, err := r.sb.
		Update(cacheTable).
		Set("synced", true).
		Where(sq.Eq{"kind": string(kind), "id": id, "last_modified": version.UnixNano()}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build mark synced query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark synced: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark synced rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit mark synced: %w", err)
	}

	return affected == 1, nil
}

func (r *CacheSQLite) Delete(ctx context.Context, kind entity.EntityKind, id string) error {
	query, args, err := r.sb.
		Delete(cacheTable).
		Where(sq.Eq{"kind": string(kind), "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete cache record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrRecordNotFound
	}

	return nil
}

func (r *CacheSQLite) Clear(ctx context.Context) error {
	query, args, err := r.sb.Delete(cacheTable).ToSql()
	if err != nil {
		return fmt.Errorf("build clear query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entity.CacheRecord, error) {
	var (
		kind         string
		payload      []byte
		lastModified int64
	)
	record := &entity.CacheRecord{}
	if err := row.Scan(&kind, &record.ID, &payload, &lastModified, &record.Synced, &record.RemoteID); err != nil {
		return nil, err
	}
	record.Kind = entity.EntityKind(kind)
	record.Payload = payload
	record.LastModified = time.Unix(0, lastModified).UTC()
	return record, nil
}
