package app

import (
	"context"
	"fmt"

	"github.com/semmidev/fileup/internal/adapter/transport"
	"github.com/semmidev/fileup/internal/config"
	"github.com/semmidev/fileup/internal/domain"
	"github.com/semmidev/fileup/internal/infrastructure/logger"
	"github.com/semmidev/fileup/internal/usecase"
)

// UploaderFactory builds the transport for one operation.
type UploaderFactory func(ctx context.Context, target *config.Target) (domain.Uploader, error)

type App struct {
	config      *config.Config
	logger      *logger.Logger
	newUploader UploaderFactory
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return newApp(cfg, log, NewUploader), nil
}

func newApp(cfg *config.Config, log *logger.Logger, factory UploaderFactory) *App {
	return &App{
		config:      cfg,
		logger:      log,
		newUploader: factory,
	}
}

// NewUploader selects the transport configured for target.
func NewUploader(ctx context.Context, target *config.Target) (domain.Uploader, error) {
	switch target.Protocol {
	case config.ProtocolFTP:
		stor, err := transport.NewFTP(ctx, target)
		if err != nil {
			return nil, err
		}
		return stor, nil

	case config.ProtocolSCP:
		return transport.NewSCP(target, transport.ExecRunner{}), nil

	case config.ProtocolS3:
		stor, err := transport.NewS3(ctx, target)
		if err != nil {
			return nil, err
		}
		return stor, nil

	case config.ProtocolLocal:
		stor, err := transport.NewLocal(target.RemoteDir())
		if err != nil {
			return nil, err
		}
		return stor, nil

	default:
		return nil, &domain.ConfigError{Field: "protocol", Reason: fmt.Sprintf("unsupported protocol: %s", target.Protocol)}
	}
}

// Publish uploads one file with its retention marker and returns the base
// URL. The uploader is released on every path.
func (a *App) Publish(ctx context.Context, req usecase.PublishRequest) (string, error) {
	var url string
	err := a.withLifecycle(ctx, func(lc *usecase.Lifecycle) error {
		var err error
		url, err = lc.Publish(ctx, req)
		return err
	})
	return url, err
}

// Sweep removes expired files without uploading anything.
func (a *App) Sweep(ctx context.Context) (int, error) {
	var removed int
	err := a.withLifecycle(ctx, func(lc *usecase.Lifecycle) error {
		var err error
		removed, err = lc.Sweep(ctx, lc.Today())
		return err
	})
	return removed, err
}

func (a *App) withLifecycle(ctx context.Context, fn func(*usecase.Lifecycle) error) error {
	target := a.config.Target()

	uploader, err := a.newUploader(ctx, target)
	if err != nil {
		return fmt.Errorf("initialize %s uploader: %w", target.Protocol, err)
	}
	defer a.release(uploader)

	a.logger.Debugf("Using %s uploader for %s", target.Protocol, target.RemoteDir())
	return fn(usecase.NewLifecycle(uploader, a.logger, a.config.URL, a.config.FileUpFolder))
}

func (a *App) release(uploader domain.Uploader) {
	if err := uploader.Close(); err != nil {
		a.logger.Warnf("Failed to release uploader: %v", err)
	}
}

func (a *App) Shutdown() {
	a.logger.Close()
}
