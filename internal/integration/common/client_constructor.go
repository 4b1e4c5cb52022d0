package common

import (
	"github.com/futig/assistant-backend/internal/config"
	pkgRetry "github.com/futig/assistant-backend/internal/pkg/retry"
	pkgHTTP "github.com/futig/assistant-backend/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a JSON connector with request logging, token auth and,
// when retryCfg is set, retries of network errors and 5xx responses.
func NewBaseConnector(cfg config.HTTPClientConfig, retryCfg *pkgRetry.RetryConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}
	if retryCfg != nil {
		connCfg.Retry = retryCfg.ToRetryOptions()
	}

	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithTimeouts(pkgHTTP.Timeouts{
			Request:        cfg.RequestTimeout,
			Dial:           cfg.ConnTimeout,
			KeepAlive:      cfg.KeepAlive,
			ResponseHeader: cfg.ResponseHeaderTimeout,
			IdleConn:       cfg.IdleConnTimeout,
		}),
		pkgHTTP.WithMaxIdleConnsPerHost(cfg.MaxIdleConnsPerHost),
		pkgHTTP.WithRequestLogging(),
	}
	if cfg.Token != "" {
		opts = append(opts, pkgHTTP.WithAuthHeader(cfg.TokenHeader, cfg.Token))
	}

	return pkgHTTP.NewConnector(connCfg, opts...)
}
