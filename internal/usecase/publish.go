package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/semmidev/fileup/internal/domain"
	"github.com/semmidev/fileup/internal/link"
)

type PublishRequest struct {
	LocalPath string
	// RemoteName defaults to the base name of LocalPath.
	RemoteName string
	// RetentionDays of zero keeps the file forever; negative values produce
	// a marker that is already expired.
	RetentionDays int
}

// Lifecycle drives one uploader through sweeping and publishing. It only
// depends on the domain.Uploader capability set.
type Lifecycle struct {
	uploader  domain.Uploader
	logger    Logger
	publicURL string
	folder    string
	now       func() time.Time
}

func NewLifecycle(uploader domain.Uploader, logger Logger, publicURL, folder string) *Lifecycle {
	return &Lifecycle{
		uploader:  uploader,
		logger:    logger,
		publicURL: publicURL,
		folder:    folder,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to compute today.
func (uc *Lifecycle) WithClock(now func() time.Time) *Lifecycle {
	uc.now = now
	return uc
}

// Today is the current UTC calendar day.
func (uc *Lifecycle) Today() time.Time {
	return domain.Day(uc.now())
}

// Publish sweeps expired files, replaces any retention marker of the target,
// uploads a new marker when requested and then the content. It returns the
// public URL of the content.
func (uc *Lifecycle) Publish(ctx context.Context, req PublishRequest) (string, error) {
	info, err := os.Stat(req.LocalPath)
	if err != nil {
		return "", fmt.Errorf("local file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("local file: %s is not a regular file", req.LocalPath)
	}

	name := req.RemoteName
	if name == "" {
		name = filepath.Base(req.LocalPath)
	}
	name = ValidFilename(name)
	if name == "" || strings.Trim(name, ".") == "" {
		return "", fmt.Errorf("no usable remote name for %q", req.LocalPath)
	}

	today := uc.Today()

	if _, err := uc.Sweep(ctx, today); err != nil {
		return "", err
	}

	if err := uc.clearMarkers(ctx, name); err != nil {
		return "", err
	}

	if req.RetentionDays != 0 {
		if err := uc.uploadMarker(ctx, name, today.AddDate(0, 0, req.RetentionDays)); err != nil {
			return "", err
		}
	}

	uc.logger.Infof("upload %s", name)
	if err := uc.uploader.Upload(ctx, req.LocalPath, name); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	return link.Base(uc.publicURL, uc.folder, name), nil
}

// clearMarkers deletes every marker whose name starts with name, so one
// file never carries two deletion dates.
func (uc *Lifecycle) clearMarkers(ctx context.Context, name string) error {
	files, err := uc.uploader.List(ctx)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	for _, filename := range files {
		if !strings.HasPrefix(filename, name) || !domain.IsMarker(filename) {
			continue
		}

		uc.logger.Debugf("Removing previous marker %s", filename)
		if err := uc.uploader.Delete(ctx, filename); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete previous marker: %w", err)
		}
	}

	return nil
}

func (uc *Lifecycle) uploadMarker(ctx context.Context, name string, expiry time.Time) error {
	markerName := domain.MarkerName(name, expiry)

	empty, err := os.CreateTemp("", "fileup-marker-*")
	if err != nil {
		return fmt.Errorf("create marker file: %w", err)
	}
	empty.Close()
	defer os.Remove(empty.Name())

	uc.logger.Infof("upload %s", markerName)
	if err := uc.uploader.Upload(ctx, empty.Name(), markerName); err != nil {
		return fmt.Errorf("upload marker: %w", err)
	}

	return nil
}
