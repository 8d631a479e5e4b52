package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/semmidev/fileup/internal/domain"
)

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Sweep removes every entry whose marker date is strictly before ref,
// then the marker itself. The content always goes first, so a failure leaves
// at most an orphan marker for the next sweep. Per entry failures are logged
// and skipped; only a listing failure is returned.
func (uc *Lifecycle) Sweep(ctx context.Context, ref time.Time) (int, error) {
	files, err := uc.uploader.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list files: %w", err)
	}

	removed := 0
	for _, filename := range files {
		if !domain.IsMarker(filename) {
			continue
		}

		marker, err := domain.ParseMarker(filename)
		if err != nil {
			uc.logger.Warnf("Skipping marker %s: %v", filename, err)
			continue
		}

		if !marker.ExpiredAt(ref) {
			continue
		}

		uc.logger.Infof("Removing %q because the date passed", marker.Name)

		if err := uc.uploader.Delete(ctx, marker.Name); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				// Keep the marker so the next sweep retries.
				uc.logger.Errorf("Failed to delete %s: %v", marker.Name, err)
				continue
			}
			uc.logger.Debugf("%s already gone", marker.Name)
		}

		if err := uc.uploader.Delete(ctx, marker.Entry); err != nil && !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Errorf("Failed to delete marker %s: %v", marker.Entry, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		uc.logger.Infof("Removed %d expired file(s)", removed)
	}
	return removed, nil
}
