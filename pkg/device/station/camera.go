package station

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// Camera tracks the view state of a tethered scanner. Decode events reach the
// agent over HTTP, so mounting only records the active settings.
type Camera struct {
	logger *zap.Logger

	mu       sync.Mutex
	mounted  bool
	settings models.ScannerSettings
}

// NewCamera builds a station camera.
func NewCamera(logger *zap.Logger) *Camera {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Camera{logger: logger}
}

func (c *Camera) Mount(_ context.Context, settings models.ScannerSettings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = true
	c.settings = settings
	c.logger.Info("camera mounted",
		zap.Int("symbologies", len(settings.Symbologies)),
		zap.String("facing", settings.Facing),
		zap.Bool("torch", settings.Torch))
	return nil
}

func (c *Camera) Unmount(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
	c.logger.Info("camera unmounted")
	return nil
}

func (c *Camera) SetTorch(_ context.Context, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.Torch = on
	c.logger.Info("torch switched", zap.Bool("on", on))
	return nil
}

// Mounted reports whether the live view is active.
func (c *Camera) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Haptics logs vibration pulses; stations have no vibration motor.
type Haptics struct {
	logger *zap.Logger
}

// NewHaptics builds a logging haptics adapter.
func NewHaptics(logger *zap.Logger) *Haptics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Haptics{logger: logger}
}

func (h *Haptics) Vibrate(_ context.Context, d time.Duration) error {
	h.logger.Debug("haptic pulse", zap.Duration("duration", d))
	return nil
}
