package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/internal/service/notify"
)

var (
	// ErrLocationDenied indicates the foreground location permission was refused.
	ErrLocationDenied = errors.New("location permission denied")
	// ErrLocationUnavailable indicates no position could be read.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// Locator is the device location capability.
type Locator interface {
	RequestForegroundPermission(ctx context.Context) (models.PermissionStatus, error)
	CurrentPosition(ctx context.Context) (models.Position, error)
}

// Service attaches the device position to a freshly scanned draft.
type Service struct {
	locator  Locator
	notifier notify.Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewService wires an enrichment service. A non-positive timeout leaves the
// caller's deadline in charge.
func NewService(locator Locator, notifier notify.Notifier, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		locator:  locator,
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}
}

// Enrich asks for location permission and reads the current position. The
// returned coordinates are complete or absent, never partial. Failures are
// reported to the operator and returned; they never abort the session.
func (s *Service) Enrich(ctx context.Context) (models.Coordinates, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	status, err := s.locator.RequestForegroundPermission(ctx)
	if err != nil {
		s.report(ctx, "Location unavailable", "Could not request location permission.")
		return models.Coordinates{}, fmt.Errorf("%w: request permission: %v", ErrLocationUnavailable, err)
	}
	if status != models.PermissionGranted {
		s.logger.Info("location permission denied")
		s.report(ctx, "Location permission denied", "The asset will be saved without coordinates.")
		return models.Coordinates{}, ErrLocationDenied
	}

	position, err := s.locator.CurrentPosition(ctx)
	if err != nil {
		s.logger.Warn("position read failed", zap.Error(err))
		s.report(ctx, "Location unavailable", "The asset will be saved without coordinates.")
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}

	coords := models.Coordinates{Latitude: position.Latitude, Longitude: position.Longitude}
	s.logger.Debug("position read", zap.String("coordinates", coords.String()))
	return coords, nil
}

func (s *Service) report(ctx context.Context, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.Notice{Level: models.NoticeWarning, Title: title, Message: message})
}
