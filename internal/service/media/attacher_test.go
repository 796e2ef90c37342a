package media

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

type stubPicker struct {
	result models.PickResult
	err    error
	opts   models.PickerOptions
}

func (s *stubPicker) Launch(_ context.Context, opts models.PickerOptions) (models.PickResult, error) {
	s.opts = opts
	return s.result, s.err
}

func TestPickImageSelected(t *testing.T) {
	picker := &stubPicker{result: models.PickResult{Assets: []models.PickedAsset{{URI: "file:///photos/a.jpg"}, {URI: "file:///photos/b.jpg"}}}}
	attacher := NewAttacher(picker, nil)

	sel, err := attacher.PickImage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Selection{URI: "file:///photos/a.jpg"}, sel)

	assert.Equal(t, models.MediaTypeImages, picker.opts.MediaTypes)
	assert.True(t, picker.opts.AllowsEditing)
	assert.Equal(t, 4, picker.opts.AspectX)
	assert.Equal(t, 3, picker.opts.AspectY)
	assert.Equal(t, 1.0, picker.opts.Quality)
}

func TestPickImageCancelled(t *testing.T) {
	for _, result := range []models.PickResult{{Cancelled: true}, {}} {
		attacher := NewAttacher(&stubPicker{result: result}, nil)
		sel, err := attacher.PickImage(context.Background())
		require.NoError(t, err)
		assert.True(t, sel.Cancelled)
		assert.Empty(t, sel.URI)
	}
}

func TestPickImageError(t *testing.T) {
	attacher := NewAttacher(&stubPicker{err: errors.New("gallery unavailable")}, nil)

	_, err := attacher.PickImage(context.Background())
	assert.ErrorContains(t, err, "gallery unavailable")
}
