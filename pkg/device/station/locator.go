package station

import (
	"context"
	"errors"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// ErrNoPosition is returned when the station has no configured position.
var ErrNoPosition = errors.New("station position not configured")

// FixedLocator reports the surveyed position of a fixed capture station.
type FixedLocator struct {
	permissions *Permissions
	position    *models.Position
}

// NewFixedLocator builds a locator. Nil coordinates mean no fix is available.
func NewFixedLocator(permissions *Permissions, latitude, longitude *float64) *FixedLocator {
	l := &FixedLocator{permissions: permissions}
	if latitude != nil && longitude != nil {
		l.position = &models.Position{Latitude: *latitude, Longitude: *longitude}
	}
	return l
}

// RequestForegroundPermission follows the station's location grant.
func (l *FixedLocator) RequestForegroundPermission(context.Context) (models.PermissionStatus, error) {
	if l.permissions != nil && l.permissions.Granted(models.CapabilityFineLocation) {
		return models.PermissionGranted, nil
	}
	return models.PermissionDenied, nil
}

// CurrentPosition returns the configured position.
func (l *FixedLocator) CurrentPosition(ctx context.Context) (models.Position, error) {
	if err := ctx.Err(); err != nil {
		return models.Position{}, err
	}
	if l.position == nil {
		return models.Position{}, ErrNoPosition
	}
	return *l.position, nil
}
