package media

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// Picker is the photo library capability.
type Picker interface {
	Launch(ctx context.Context, opts models.PickerOptions) (models.PickResult, error)
}

// Selection is the outcome of a pick. Cancelled selections carry no URI.
type Selection struct {
	URI       string
	Cancelled bool
}

// Attacher launches the picker for a single still image.
type Attacher struct {
	picker Picker
	logger *zap.Logger
}

// NewAttacher wires a media attacher.
func NewAttacher(picker Picker, logger *zap.Logger) *Attacher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Attacher{picker: picker, logger: logger}
}

// Options returns the picker configuration: still images, editable crop at 4:3, full quality.
func Options() models.PickerOptions {
	return models.PickerOptions{
		MediaTypes:    models.MediaTypeImages,
		AllowsEditing: true,
		AspectX:       4,
		AspectY:       3,
		Quality:       1,
	}
}

// PickImage launches the picker. A result without assets counts as cancelled.
func (a *Attacher) PickImage(ctx context.Context) (Selection, error) {
	result, err := a.picker.Launch(ctx, Options())
	if err != nil {
		return Selection{}, fmt.Errorf("launch picker: %w", err)
	}

	if result.Cancelled || len(result.Assets) == 0 || result.Assets[0].URI == "" {
		a.logger.Debug("image pick cancelled")
		return Selection{Cancelled: true}, nil
	}

	a.logger.Info("image selected", zap.String("uri", result.Assets[0].URI))
	return Selection{URI: result.Assets[0].URI}, nil
}
