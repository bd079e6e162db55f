package http

import "net/http"

// headerTransport sets a header on every outbound request that does not carry it already
type headerTransport struct {
	name      string
	value     string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.value == "" || req.Header.Get(t.name) != "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.name, t.value)

	return t.transport.RoundTrip(reqCopy)
}

// WithDefaultHeader adds a header to every request. An empty value disables it.
func WithDefaultHeader(name, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			name:      name,
			value:     value,
			transport: rt,
		}
	})
}

// WithAuthToken sends token as a bearer credential. An empty token sends nothing.
func WithAuthToken(token string) HttpOpts {
	value := ""
	if token != "" {
		value = "Bearer " + token
	}
	return WithDefaultHeader("Authorization", value)
}

func WithUserAgent(userAgent string) HttpOpts {
	return WithDefaultHeader("User-Agent", userAgent)
}
