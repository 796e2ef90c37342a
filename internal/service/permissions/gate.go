package permissions

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/internal/service/notify"
)

// Requester asks the platform for a batch of capability grants.
type Requester interface {
	RequestMultiple(ctx context.Context, capabilities []models.Capability) (map[models.Capability]models.PermissionStatus, error)
}

// Result is the outcome of the bootstrap permission check.
type Result struct {
	Granted bool                `json:"granted"`
	Missing []models.Capability `json:"missing,omitempty"`
}

// Err returns a DeniedError for a denied result and nil otherwise.
func (r Result) Err() error {
	if r.Granted {
		return nil
	}
	return &DeniedError{Capabilities: r.Missing}
}

// DeniedError names the capabilities that were not granted.
type DeniedError struct {
	Capabilities []models.Capability
}

func (e *DeniedError) Error() string {
	names := make([]string, len(e.Capabilities))
	for i, c := range e.Capabilities {
		names[i] = string(c)
	}
	return fmt.Sprintf("permissions denied: %s", strings.Join(names, ", "))
}

// Gate requests the capture capabilities once and caches the outcome.
type Gate struct {
	platform  models.Platform
	requester Requester
	notifier  notify.Notifier
	logger    *zap.Logger

	mu     sync.Mutex
	cached *Result
}

// NewGate wires a permission gate for the given platform.
func NewGate(platform models.Platform, requester Requester, notifier notify.Notifier, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		platform:  platform,
		requester: requester,
		notifier:  notifier,
		logger:    logger,
	}
}

// EnsurePermissions requests camera, fine location and storage read as one
// batch on first use. Only Android prompts explicitly; other platforms are
// reported as granted and prompt implicitly on first capability use.
func (g *Gate) EnsurePermissions(ctx context.Context) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cached != nil {
		return *g.cached, nil
	}

	if g.platform != models.PlatformAndroid {
		g.logger.Debug("skipping explicit permission request", zap.String("platform", string(g.platform)))
		result := Result{Granted: true}
		g.cached = &result
		return result, nil
	}

	statuses, err := g.requester.RequestMultiple(ctx, models.RequiredCapabilities)
	if err != nil {
		g.logger.Warn("permission request failed", zap.Error(err))
		return Result{}, fmt.Errorf("request permissions: %w", err)
	}

	result := Result{Granted: true}
	for _, capability := range models.RequiredCapabilities {
		if statuses[capability] != models.PermissionGranted {
			result.Granted = false
			result.Missing = append(result.Missing, capability)
		}
	}
	g.cached = &result

	if result.Granted {
		g.logger.Info("permissions granted")
		return result, nil
	}

	g.logger.Warn("permissions denied", zap.Any("missing", result.Missing))
	if g.notifier != nil {
		g.notifier.Notify(ctx, models.Notice{
			Level:   models.NoticeWarning,
			Title:   "Permissions denied",
			Message: result.Err().Error(),
		})
	}
	return result, nil
}
