package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/futig/resomate/internal/config"
	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/integration/common"
	pkghttp "github.com/futig/resomate/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const pageSize = 500

// Connector is the delegate-side client of the remote document store
type Connector struct {
	config    config.RemoteStoreConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RemoteStoreConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Write patches the remote copy when the record was pushed before, otherwise creates it.
// A patch of a document the server no longer has falls back to a create.
func (c *Connector) Write(ctx context.Context, record *entity.CacheRecord) (string, error) {
	if record.RemoteID != "" {
		id, err := c.patch(ctx, record)
		if err == nil {
			return id, nil
		}
		if !pkghttp.IsStatus(err, http.StatusNotFound) {
			return "", err
		}
		ctxzap.Info(ctx, "remote copy is gone, recreating", zap.String("remote_id", record.RemoteID))
	}

	return c.create(ctx, record)
}

func (c *Connector) create(ctx context.Context, record *entity.CacheRecord) (string, error) {
	req := &entity.CreateDocumentRequest{
		LocalID: record.ID,
		Payload: record.Payload,
	}

	var resp entity.DocumentResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.kindPath(record.Kind), req, &resp)
	if err != nil {
		return "", fmt.Errorf("create remote document: %w", err)
	}

	return resp.ID, nil
}

func (c *Connector) patch(ctx context.Context, record *entity.CacheRecord) (string, error) {
	req := &entity.PatchDocumentRequest{
		Payload: record.Payload,
	}

	var resp entity.DocumentResponse
	endpoint := c.kindPath(record.Kind) + "/" + url.PathEscape(record.RemoteID)
	if err := c.connector.DoRequest(ctx, http.MethodPatch, endpoint, req, &resp); err != nil {
		return "", fmt.Errorf("patch remote document: %w", err)
	}

	return resp.ID, nil
}

// ReadAll pages through every document of kind owned by the caller
func (c *Connector) ReadAll(ctx context.Context, kind entity.EntityKind) ([]*entity.RemoteEntity, error) {
	var entities []*entity.RemoteEntity

	for skip := 0; ; skip += pageSize {
		var resp entity.ListDocumentsResponse
		err := c.connector.DoRequest(ctx, http.MethodGet, c.kindPath(kind), nil, &resp,
			pkghttp.WithQuery("skip", strconv.Itoa(skip)),
			pkghttp.WithQuery("limit", strconv.Itoa(pageSize)),
		)
		if err != nil {
			return nil, fmt.Errorf("list remote documents: %w", err)
		}

		for _, doc := range resp.Documents {
			e, err := toRemoteEntity(doc)
			if err != nil {
				return nil, err
			}
			entities = append(entities, e)
		}

		if len(resp.Documents) < pageSize {
			break
		}
	}

	ctxzap.Debug(ctx, "remote documents listed", zap.String("entity_kind", string(kind)), zap.Int("count", len(entities)))

	return entities, nil
}

// Ping checks that the remote store answers its health endpoint
func (c *Connector) Ping(ctx context.Context) error {
	return c.connector.DoRequest(ctx, http.MethodGet, c.config.HealthEndpoint, nil, nil)
}

func (c *Connector) kindPath(kind entity.EntityKind) string {
	return c.config.DocumentsEndpoint + "/" + string(kind)
}

func toRemoteEntity(doc *entity.DocumentResponse) (*entity.RemoteEntity, error) {
	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(doc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &entity.RemoteEntity{
		ID:        doc.ID,
		Kind:      doc.Kind,
		LocalID:   doc.LocalID,
		Payload:   doc.Payload,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", entity.ErrInvalidFormat, s)
	}
	return t, nil
}
