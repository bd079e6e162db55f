package common

import (
	"net/http"

	"github.com/futig/resomate/internal/config"
	pkgHTTP "github.com/futig/resomate/pkg/http"
	"go.uber.org/zap"
)

const userAgent = "resomate/1.0"

func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(connCfg, clientOptions(cfg)...)
}

// NewBaseClient builds a bare client with the same transport settings for SDKs that bring their own request layer
func NewBaseClient(cfg config.HTTPClientConfig) *http.Client {
	return pkgHTTP.NewClient(clientOptions(cfg)...)
}

func clientOptions(cfg config.HTTPClientConfig) []pkgHTTP.HttpOpts {
	return []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
		pkgHTTP.WithUserAgent(userAgent),
	}
}
