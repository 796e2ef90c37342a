package scanning

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// ErrDecodeIgnored is returned for decode events that arrive while the
// scanner is not actively scanning, or that carry nothing usable.
var ErrDecodeIgnored = errors.New("decode event ignored")

// State is the scanner state.
type State string

const (
	StateHidden   State = "hidden"
	StateScanning State = "scanning"
	StateCaptured State = "captured"
)

const cameraFacing = "back"

// Camera controls the live camera view.
type Camera interface {
	Mount(ctx context.Context, settings models.ScannerSettings) error
	Unmount(ctx context.Context) error
	SetTorch(ctx context.Context, on bool) error
}

// Haptics emits vibration feedback.
type Haptics interface {
	Vibrate(ctx context.Context, d time.Duration) error
}

// Capture is a consumed decode event.
type Capture struct {
	Payload    string
	Symbology  models.Symbology
	Activation uint64
}

// Status is a point-in-time view of the scanner.
type Status struct {
	State State `json:"state"`
	Torch bool  `json:"torch"`
}

// Session owns the scanner state machine. At most one decode is consumed per
// activation: the first accepted event moves the session out of scanning
// before the handler returns.
type Session struct {
	camera  Camera
	haptics Haptics
	logger  *zap.Logger

	mu         sync.Mutex
	state      State
	torch      bool
	activation uint64
}

// NewSession creates a hidden scanner session.
func NewSession(camera Camera, haptics Haptics, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		camera:  camera,
		haptics: haptics,
		logger:  logger,
		state:   StateHidden,
	}
}

// Settings returns the decoder configuration used when mounting the camera.
func Settings(torch bool) models.ScannerSettings {
	symbologies := make([]models.Symbology, len(models.SupportedSymbologies))
	copy(symbologies, models.SupportedSymbologies)
	return models.ScannerSettings{
		Symbologies: symbologies,
		Facing:      cameraFacing,
		Torch:       torch,
	}
}

// Status reports the current state and torch setting.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.state, Torch: s.torch}
}

// Toggle opens the scanner when it is not scanning and hides it otherwise.
func (s *Session) Toggle(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateScanning {
		s.hideLocked(ctx)
		return Status{State: s.state, Torch: s.torch}, nil
	}

	if err := s.camera.Mount(ctx, Settings(s.torch)); err != nil {
		return Status{State: s.state, Torch: s.torch}, fmt.Errorf("mount camera: %w", err)
	}
	s.state = StateScanning
	s.activation++
	s.logger.Debug("scanner opened", zap.Uint64("activation", s.activation))

	return Status{State: s.state, Torch: s.torch}, nil
}

// ToggleTorch flips the torch. The camera is only told while scanning; the
// setting is applied on the next mount otherwise.
func (s *Session) ToggleTorch(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := !s.torch
	if s.state == StateScanning {
		if err := s.camera.SetTorch(ctx, next); err != nil {
			return Status{State: s.state, Torch: s.torch}, fmt.Errorf("set torch: %w", err)
		}
	}
	s.torch = next

	return Status{State: s.state, Torch: s.torch}, nil
}

// HandleDecode consumes the first usable decode event of an activation.
// Anything else returns ErrDecodeIgnored and leaves the session untouched.
func (s *Session) HandleDecode(ctx context.Context, event models.DecodeEvent) (Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateScanning {
		s.logger.Debug("decode ignored", zap.String("state", string(s.state)))
		return Capture{}, ErrDecodeIgnored
	}
	if event.Payload == "" {
		s.logger.Debug("decode ignored", zap.String("reason", "empty payload"))
		return Capture{}, ErrDecodeIgnored
	}
	if !event.Symbology.Supported() {
		s.logger.Debug("decode ignored", zap.String("symbology", string(event.Symbology)))
		return Capture{}, ErrDecodeIgnored
	}

	s.state = StateCaptured
	if err := s.camera.Unmount(ctx); err != nil {
		s.logger.Warn("failed to unmount camera after decode", zap.Error(err))
	}
	if s.haptics != nil {
		if err := s.haptics.Vibrate(ctx, models.HapticPulse); err != nil {
			s.logger.Warn("haptic pulse failed", zap.Error(err))
		}
	}

	s.logger.Info("code captured",
		zap.String("symbology", string(event.Symbology)),
		zap.Uint64("activation", s.activation))

	return Capture{
		Payload:    event.Payload,
		Symbology:  event.Symbology,
		Activation: s.activation,
	}, nil
}

// Hide returns the session to hidden from any state.
func (s *Session) Hide(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideLocked(ctx)
}

func (s *Session) hideLocked(ctx context.Context) {
	if s.state == StateScanning {
		if err := s.camera.Unmount(ctx); err != nil {
			s.logger.Warn("failed to unmount camera", zap.Error(err))
		}
	}
	s.state = StateHidden
}
