package network

import (
	"fmt"

	"github.com/samvad-hq/netlayer/internal/config"
	"github.com/samvad-hq/netlayer/internal/logger"
	"github.com/samvad-hq/netlayer/pkg/decoder"
	"github.com/samvad-hq/netlayer/pkg/httpclient"
	"github.com/samvad-hq/netlayer/pkg/request"
)

// Default bundles a Service built from environment configuration with the
// resources it owns.
type Default struct {
	*Service
	Config  *config.Config
	Decoder decoder.Decoder
	log     *logger.ZapLogger
}

// NewDefault is the application-boundary constructor: it loads NETLAYER_*
// settings, builds a zap logger and a resty session, and wraps them in a
// Service.
func NewDefault(envFiles ...string) (*Default, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dec, err := decoder.DefaultRegistry().DecoderFor(cfg.DefaultDecoder)
	if err != nil {
		return nil, fmt.Errorf("resolve default decoder: %w", err)
	}

	session := httpclient.NewRestySession(httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
		Debug:     cfg.HTTPDebug,
		Logger:    log,
	})

	svc, err := New(session)
	if err != nil {
		session.InvalidateAndCancel()
		return nil, err
	}

	log.DebugObj("network service ready", "config", cfg)
	return &Default{Service: svc, Config: cfg, Decoder: dec, log: log}, nil
}

// NewRequest builds a request that decodes with the configured default
// format. Later options win, so request.WithDecoder still overrides it.
func (d *Default) NewRequest(host, path string, opts ...request.Option) request.Request {
	opts = append([]request.Option{request.WithDecoder(d.Decoder)}, opts...)
	return request.New(host, path, opts...)
}

// Close releases the session and flushes the logger.
func (d *Default) Close() error {
	if err := d.Service.Close(); err != nil {
		return err
	}
	// Sync on stdout returns EINVAL on some platforms; nothing to recover.
	_ = d.log.Close()
	return nil
}
