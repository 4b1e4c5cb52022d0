package http

import "net/http"

// headerTransport sets one credential header on every outbound request
type headerTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.value == "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.header, t.value)
	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends token as "Authorization: Bearer <token>"
func WithAuthToken(token string) HttpOpts {
	return WithAuthHeader("Authorization", token)
}

// WithAuthHeader sends a raw token in header. An Authorization header gets the Bearer scheme.
func WithAuthHeader(header, token string) HttpOpts {
	if header == "" {
		header = "Authorization"
	}
	value := token
	if token != "" && http.CanonicalHeaderKey(header) == "Authorization" {
		value = "Bearer " + token
	}

	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			header:    header,
			value:     value,
			transport: rt,
		}
	})
}
