package offline

import (
	"context"

	"github.com/futig/resomate/internal/entity"
)

// RemoteWriter creates or updates the remote copy of a record and returns its remote id
type RemoteWriter interface {
	Write(ctx context.Context, record *entity.CacheRecord) (string, error)
}

// RemoteReader lists the authoritative entities of one kind
type RemoteReader interface {
	ReadAll(ctx context.Context, kind entity.EntityKind) ([]*entity.RemoteEntity, error)
}

// Prober checks whether the remote store is reachable
type Prober interface {
	Ping(ctx context.Context) error
}

// Connectivity reports whether the remote store is believed reachable
type Connectivity interface {
	Online() bool
}

type RemoteWriterFunc func(ctx context.Context, record *entity.CacheRecord) (string, error)

func (f RemoteWriterFunc) Write(ctx context.Context, record *entity.CacheRecord) (string, error) {
	return f(ctx, record)
}

type RemoteReaderFunc func(ctx context.Context, kind entity.EntityKind) ([]*entity.RemoteEntity, error)

func (f RemoteReaderFunc) ReadAll(ctx context.Context, kind entity.EntityKind) ([]*entity.RemoteEntity, error) {
	return f(ctx, kind)
}

type alwaysOnline struct{}

func (alwaysOnline) Online() bool { return true }
