package http

import "time"

type HttpOpts func(*httpConfig)

func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.dialTimeout = timeout
	}
}

// WithRequestTimeout bounds a whole exchange, body included. Zero means no limit.
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.requestTimeout = timeout
	}
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.keepAlive = keepAlive
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.responseHeaderTimeout = timeout
	}
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) {
		c.idleConnTimeout = timeout
	}
}

// WithTransport wraps the base transport. Wrappers apply in registration order, so the last one
// registered sees the request first.
func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *httpConfig) {
		c.wrappers = append(c.wrappers, transport)
	}
}
