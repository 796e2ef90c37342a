package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/internal/server/handlers"
	"github.com/mamadbah2/assetcapture/internal/service/capture"
	"github.com/mamadbah2/assetcapture/internal/service/permissions"
	"github.com/mamadbah2/assetcapture/internal/service/scanning"
)

type idleCapture struct{}

func (idleCapture) Bootstrap(context.Context) (permissions.Result, error) {
	return permissions.Result{Granted: true}, nil
}
func (idleCapture) Draft() models.CaptureDraft { return models.NewCaptureDraft() }
func (idleCapture) Edit(context.Context, models.DraftEdit) (models.CaptureDraft, error) {
	return models.NewCaptureDraft(), nil
}
func (idleCapture) ScannerStatus() scanning.Status { return scanning.Status{State: scanning.StateHidden} }
func (idleCapture) ToggleScanner(context.Context) (scanning.Status, error) {
	return scanning.Status{State: scanning.StateScanning}, nil
}
func (idleCapture) ToggleTorch(context.Context) (scanning.Status, error) {
	return scanning.Status{}, nil
}
func (idleCapture) HandleDecode(context.Context, models.DecodeEvent) (models.CaptureDraft, error) {
	return models.CaptureDraft{}, scanning.ErrDecodeIgnored
}
func (idleCapture) PickImage(context.Context) (models.CaptureDraft, error) {
	return models.NewCaptureDraft(), nil
}
func (idleCapture) Submit(context.Context) (capture.SubmitReport, error) {
	return capture.SubmitReport{}, nil
}

type emptyReferences struct{}

func (emptyReferences) Categories() models.ReferenceList { return models.ReferenceList{} }
func (emptyReferences) Employees() models.ReferenceList  { return models.ReferenceList{} }
func (emptyReferences) Reload(context.Context) error     { return nil }
func (emptyReferences) Drain() []models.Notice           { return []models.Notice{} }

func TestRouterRegistersRoutes(t *testing.T) {
	engine := New(
		handlers.NewCaptureHandler(idleCapture{}, nil),
		handlers.NewReferenceHandler(emptyReferences{}, emptyReferences{}, nil),
		nil,
		nil,
	)

	routes := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/draft", http.StatusOK},
		{http.MethodGet, "/scanner", http.StatusOK},
		{http.MethodPost, "/scanner/toggle", http.StatusOK},
		{http.MethodPost, "/reference/reload", http.StatusNoContent},
		{http.MethodGet, "/notices", http.StatusOK},
		{http.MethodGet, "/submissions?code=ABC123", http.StatusNotFound},
		{http.MethodGet, "/webhook", http.StatusNotFound},
	}

	for _, route := range routes {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, route.status, w.Code, "%s %s", route.method, route.path)
	}
}

type noHistory struct{}

func (noHistory) ListSubmissionsByCode(context.Context, string) ([]models.SubmissionRecord, error) {
	return nil, nil
}

func TestRouterRegistersHistoryWhenEnabled(t *testing.T) {
	engine := New(
		handlers.NewCaptureHandler(idleCapture{}, nil),
		handlers.NewReferenceHandler(emptyReferences{}, emptyReferences{}, nil),
		handlers.NewHistoryHandler(noHistory{}, nil),
		nil,
	)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions?code=ABC123", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
