package http

import (
	"net"
	"net/http"
	"time"
)

type TransportFunc func(http.RoundTripper) http.RoundTripper

type httpConfig struct {
	dialTimeout           time.Duration
	requestTimeout        time.Duration
	keepAlive             time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxIdleConns          int
	maxIdleConnsPerHost   int
	wrappers              []TransportFunc
}

func defaultHTTPConfig() *httpConfig {
	return &httpConfig{
		dialTimeout:           30 * time.Second,
		requestTimeout:        30 * time.Second,
		keepAlive:             90 * time.Second,
		tlsHandshakeTimeout:   10 * time.Second,
		responseHeaderTimeout: 10 * time.Second,
		idleConnTimeout:       90 * time.Second,
		maxIdleConns:          100,
		maxIdleConnsPerHost:   10,
	}
}

// NewClient builds an http.Client with a pooled transport wrapped by the registered round trippers.
// Proxy settings come from the environment.
func NewClient(opts ...HttpOpts) *http.Client {
	cfg := defaultHTTPConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: wrap(cfg.baseTransport(), cfg.wrappers...),
	}
}

func (c *httpConfig) baseTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   c.dialTimeout,
		KeepAlive: c.keepAlive,
	}

	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          c.maxIdleConns,
		MaxIdleConnsPerHost:   c.maxIdleConnsPerHost,
		TLSHandshakeTimeout:   c.tlsHandshakeTimeout,
		ResponseHeaderTimeout: c.responseHeaderTimeout,
		IdleConnTimeout:       c.idleConnTimeout,
	}
}

func wrap(base http.RoundTripper, wrappers ...TransportFunc) http.RoundTripper {
	rt := base
	for _, w := range wrappers {
		rt = w(rt)
	}
	return rt
}
