package submission

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/assetcapture/internal/config"
	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/pkg/clients/inventory"
)

type stubCreator struct {
	resp    *inventory.CreateAssetResponse
	err     error
	got     inventory.CreateAssetRequest
	release chan struct{}
	entered chan struct{}
}

func (s *stubCreator) CreateAsset(_ context.Context, req inventory.CreateAssetRequest) (*inventory.CreateAssetResponse, error) {
	s.got = req
	if s.entered != nil {
		close(s.entered)
	}
	if s.release != nil {
		<-s.release
	}
	return s.resp, s.err
}

func fullDraft() models.CaptureDraft {
	image := "file:///photos/drill.jpg"
	return models.CaptureDraft{
		Name:             "Drill",
		CategoryID:       "c1",
		EmployeeID:       "e1",
		Description:      "Cordless drill",
		Code:             "ABC123",
		SerialNumber:     "SN-42",
		Status:           models.StatusAvailable,
		PurchaseDate:     "2024-01-10",
		WarrantyDate:     "2026-01-10",
		DecommissionDate: "2030-01-10",
		Image:            &image,
		Coordinates:      &models.Coordinates{Latitude: 9.5, Longitude: -13.7},
	}
}

func newTestController(creator AssetCreator) *Controller {
	c := NewController(creator, nil)
	c.newID = func() string { return "req-1" }
	return c
}

func TestSubmitCreated(t *testing.T) {
	creator := &stubCreator{resp: &inventory.CreateAssetResponse{StatusCode: http.StatusCreated}}
	c := newTestController(creator)

	result, err := c.Submit(context.Background(), fullDraft())
	require.NoError(t, err)

	success, ok := result.Outcome.(Success)
	require.True(t, ok)
	assert.Equal(t, "req-1", result.RequestID)
	assert.Equal(t, "req-1", creator.got.RequestID)
	assert.Equal(t, creator.got.Body, success.Payload)
	assert.JSONEq(t, `{
		"name": "Drill",
		"category_id": "c1",
		"employee_id": "e1",
		"description": "Cordless drill",
		"code": "ABC123",
		"serial_number": "SN-42",
		"status": "available",
		"purchase_date": "2024-01-10",
		"warranty_date": "2026-01-10",
		"decommission_date": "2030-01-10",
		"image": "file:///photos/drill.jpg",
		"coordinates": "9.5, -13.7"
	}`, string(success.Payload))
}

func TestSubmitEmptyDraftIsPassedThrough(t *testing.T) {
	creator := &stubCreator{resp: &inventory.CreateAssetResponse{StatusCode: http.StatusCreated}}
	c := newTestController(creator)

	_, err := c.Submit(context.Background(), models.NewCaptureDraft())
	require.NoError(t, err)
	assert.Contains(t, string(creator.got.Body), `"image":null`)
	assert.Contains(t, string(creator.got.Body), `"coordinates":null`)
}

func TestSubmitValidationFailed(t *testing.T) {
	creator := &stubCreator{resp: &inventory.CreateAssetResponse{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"serial_number": ["must be unique", "too short"], "name": "required"}`),
	}}
	c := newTestController(creator)

	result, err := c.Submit(context.Background(), fullDraft())
	require.NoError(t, err)

	failed, ok := result.Outcome.(ValidationFailed)
	require.True(t, ok)
	assert.Equal(t, "required\nmust be unique\ntoo short", failed.Message)
	assert.Equal(t, []string{"required"}, failed.FieldErrors["name"])
	assert.Len(t, failed.FieldErrors["serial_number"], 2)
}

func TestSubmitValidationFailedNonObjectBody(t *testing.T) {
	creator := &stubCreator{resp: &inventory.CreateAssetResponse{StatusCode: http.StatusBadRequest}}
	c := newTestController(creator)

	result, err := c.Submit(context.Background(), fullDraft())
	require.NoError(t, err)
	assert.Equal(t, "Validation failed", result.Outcome.(ValidationFailed).Message)
}

func TestSubmitServerError(t *testing.T) {
	creator := &stubCreator{resp: &inventory.CreateAssetResponse{StatusCode: http.StatusInternalServerError, Body: []byte("boom")}}
	c := newTestController(creator)

	result, err := c.Submit(context.Background(), fullDraft())
	require.NoError(t, err)
	assert.Equal(t, ServerError{Status: 500, Body: "boom"}, result.Outcome)
	assert.Equal(t, "server_error", result.Outcome.Kind())
}

func TestSubmitTreatsOtherSuccessCodesAsServerError(t *testing.T) {
	creator := &stubCreator{resp: &inventory.CreateAssetResponse{StatusCode: http.StatusOK}}
	c := newTestController(creator)

	result, err := c.Submit(context.Background(), fullDraft())
	require.NoError(t, err)
	assert.IsType(t, ServerError{}, result.Outcome)
}

func TestSubmitNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	creator := &stubCreator{err: cause}
	c := newTestController(creator)

	result, err := c.Submit(context.Background(), fullDraft())
	require.NoError(t, err)

	netErr, ok := result.Outcome.(NetworkError)
	require.True(t, ok)
	assert.ErrorIs(t, netErr, cause)
}

func TestSubmitRejectsReentry(t *testing.T) {
	creator := &stubCreator{
		resp:    &inventory.CreateAssetResponse{StatusCode: http.StatusCreated},
		release: make(chan struct{}),
		entered: make(chan struct{}),
	}
	c := newTestController(creator)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), fullDraft())
		done <- err
	}()
	<-creator.entered

	assert.True(t, c.InFlight())
	_, err := c.Submit(context.Background(), fullDraft())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(creator.release)
	require.NoError(t, <-done)
	assert.False(t, c.InFlight())
}

func TestSubmitAgainstInventoryClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"code":"ABC123"`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"name":"required"}`)
	}))
	defer srv.Close()

	client := inventory.NewClient(config.InventoryConfig{BaseURL: srv.URL, Timeout: time.Second})
	c := NewController(client, nil)

	result, err := c.Submit(context.Background(), fullDraft())
	require.NoError(t, err)
	assert.Equal(t, "required", result.Outcome.(ValidationFailed).Message)
}
