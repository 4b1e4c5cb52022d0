package http

import (
	"net"
	"net/http"
	"time"
)

type TransportFunc func(http.RoundTripper) http.RoundTripper

type HttpOpts func(*httpConfig)

// Timeouts groups the dial and transport deadlines. Zero fields keep the defaults.
type Timeouts struct {
	Request        time.Duration
	Dial           time.Duration
	KeepAlive      time.Duration
	ResponseHeader time.Duration
	IdleConn       time.Duration
}

type httpConfig struct {
	timeouts       Timeouts
	maxIdlePerHost int
	transports     []TransportFunc
}

var defaultTimeouts = Timeouts{
	Request:        60 * time.Second,
	Dial:           10 * time.Second,
	KeepAlive:      90 * time.Second,
	ResponseHeader: 60 * time.Second,
	IdleConn:       90 * time.Second,
}

func WithTimeouts(t Timeouts) HttpOpts {
	return func(c *httpConfig) {
		c.timeouts = t.orDefault(c.timeouts)
	}
}

// WithMaxIdleConnsPerHost bounds the keep-alive pool used against the index and model APIs
func WithMaxIdleConnsPerHost(n int) HttpOpts {
	return func(c *httpConfig) {
		if n > 0 {
			c.maxIdlePerHost = n
		}
	}
}

// WithTransport wraps the base transport. Wrappers are applied in order, the last one runs first.
func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *httpConfig) {
		c.transports = append(c.transports, transport)
	}
}

func (t Timeouts) orDefault(def Timeouts) Timeouts {
	pick := func(v, d time.Duration) time.Duration {
		if v > 0 {
			return v
		}
		return d
	}
	return Timeouts{
		Request:        pick(t.Request, def.Request),
		Dial:           pick(t.Dial, def.Dial),
		KeepAlive:      pick(t.KeepAlive, def.KeepAlive),
		ResponseHeader: pick(t.ResponseHeader, def.ResponseHeader),
		IdleConn:       pick(t.IdleConn, def.IdleConn),
	}
}

func newClient(opts ...HttpOpts) *http.Client {
	cfg := &httpConfig{timeouts: defaultTimeouts, maxIdlePerHost: 10}
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := net.Dialer{
		Timeout:   cfg.timeouts.Dial,
		KeepAlive: cfg.timeouts.KeepAlive,
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   cfg.maxIdlePerHost,
		ResponseHeaderTimeout: cfg.timeouts.ResponseHeader,
		IdleConnTimeout:       cfg.timeouts.IdleConn,
	}
	for _, wrap := range cfg.transports {
		rt = wrap(rt)
	}

	return &http.Client{
		Timeout:   cfg.timeouts.Request,
		Transport: rt,
	}
}
