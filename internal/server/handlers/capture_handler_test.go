package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/internal/service/capture"
	"github.com/mamadbah2/assetcapture/internal/service/permissions"
	"github.com/mamadbah2/assetcapture/internal/service/scanning"
	"github.com/mamadbah2/assetcapture/internal/service/submission"
)

type fakeCapture struct {
	draft     models.CaptureDraft
	status    scanning.Status
	editErr   error
	decodeErr error
	pickErr   error
	report    capture.SubmitReport
	submitErr error

	lastEdit  models.DraftEdit
	lastEvent models.DecodeEvent
}

func (f *fakeCapture) Bootstrap(context.Context) (permissions.Result, error) {
	return permissions.Result{Granted: false, Missing: []models.Capability{models.CapabilityCamera}}, nil
}

func (f *fakeCapture) Draft() models.CaptureDraft { return f.draft }

func (f *fakeCapture) Edit(_ context.Context, edit models.DraftEdit) (models.CaptureDraft, error) {
	f.lastEdit = edit
	if f.editErr != nil {
		return models.CaptureDraft{}, f.editErr
	}
	edit.Apply(&f.draft)
	return f.draft, nil
}

func (f *fakeCapture) ScannerStatus() scanning.Status { return f.status }

func (f *fakeCapture) ToggleScanner(context.Context) (scanning.Status, error) {
	f.status.State = scanning.StateScanning
	return f.status, nil
}

func (f *fakeCapture) ToggleTorch(context.Context) (scanning.Status, error) {
	f.status.Torch = !f.status.Torch
	return f.status, nil
}

func (f *fakeCapture) HandleDecode(_ context.Context, event models.DecodeEvent) (models.CaptureDraft, error) {
	f.lastEvent = event
	if f.decodeErr != nil {
		return models.CaptureDraft{}, f.decodeErr
	}
	f.draft.Code = event.Payload
	return f.draft, nil
}

func (f *fakeCapture) PickImage(context.Context) (models.CaptureDraft, error) {
	return f.draft, f.pickErr
}

func (f *fakeCapture) Submit(context.Context) (capture.SubmitReport, error) {
	return f.report, f.submitErr
}

func newTestEngine(svc CaptureService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCaptureHandler(svc, nil)
	r := gin.New()
	r.POST("/session/permissions", h.Bootstrap)
	r.GET("/draft", h.GetDraft)
	r.PATCH("/draft", h.EditDraft)
	r.POST("/scanner/toggle", h.ToggleScanner)
	r.POST("/scanner/torch", h.ToggleTorch)
	r.POST("/scanner/decode", h.Decode)
	r.POST("/media/pick", h.PickImage)
	r.POST("/submit", h.Submit)
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBootstrapReportsMissingCapabilities(t *testing.T) {
	w := perform(newTestEngine(&fakeCapture{}), http.MethodPost, "/session/permissions", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"granted":false,"missing":["camera"]}`, w.Body.String())
}

func TestEditDraftAppliesFields(t *testing.T) {
	svc := &fakeCapture{draft: models.NewCaptureDraft()}
	w := perform(newTestEngine(svc), http.MethodPatch, "/draft", `{"name":"Laptop","status":"assigned"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Laptop", body["name"])
	assert.Equal(t, "assigned", body["status"])
	assert.Nil(t, svc.lastEdit.SerialNumber)
}

func TestEditDraftRejectsUnknownValues(t *testing.T) {
	svc := &fakeCapture{editErr: capture.ErrUnknownStatus}
	w := perform(newTestEngine(svc), http.MethodPatch, "/draft", `{"status":"lost"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = perform(newTestEngine(svc), http.MethodPatch, "/draft", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScannerToggles(t *testing.T) {
	svc := &fakeCapture{}
	r := newTestEngine(svc)

	w := perform(r, http.MethodPost, "/scanner/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"scanning","torch":false}`, w.Body.String())

	w = perform(r, http.MethodPost, "/scanner/torch", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"scanning","torch":true}`, w.Body.String())
}

func TestDecodeConsumedAndIgnored(t *testing.T) {
	svc := &fakeCapture{draft: models.NewCaptureDraft()}
	r := newTestEngine(svc)

	w := perform(r, http.MethodPost, "/scanner/decode", `{"payload":"ABC123","symbology":"qr"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "ABC123", decodeBody(t, w)["code"])
	assert.Equal(t, models.DecodeEvent{Payload: "ABC123", Symbology: models.SymbologyQR}, svc.lastEvent)

	svc.decodeErr = scanning.ErrDecodeIgnored
	w = perform(r, http.MethodPost, "/scanner/decode", `{"payload":"XYZ","symbology":"qr"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ignored":true}`, w.Body.String())
}

func TestPickImageFailure(t *testing.T) {
	svc := &fakeCapture{pickErr: errors.New("library unavailable")}
	w := perform(newTestEngine(svc), http.MethodPost, "/media/pick", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubmitMapsOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		outcome submission.Outcome
		status  int
		kind    string
	}{
		{"success", submission.Success{Payload: []byte(`{"code":"ABC123"}`)}, http.StatusCreated, "success"},
		{"validation", submission.ValidationFailed{FieldErrors: map[string][]string{"name": {"required"}}, Message: "required"}, http.StatusUnprocessableEntity, "validation_failed"},
		{"server", submission.ServerError{Status: 500, Body: "boom"}, http.StatusBadGateway, "server_error"},
		{"network", submission.NetworkError{Err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, "network_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeCapture{report: capture.SubmitReport{
				Result: submission.Result{RequestID: "req-1", Outcome: tc.outcome},
				Draft:  models.NewCaptureDraft(),
			}}
			w := perform(newTestEngine(svc), http.MethodPost, "/submit", "")

			require.Equal(t, tc.status, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tc.kind, body["outcome"])
			assert.Equal(t, "req-1", body["request_id"])
		})
	}
}

func TestSubmitSuccessEmbedsPayload(t *testing.T) {
	svc := &fakeCapture{report: capture.SubmitReport{
		Result: submission.Result{Outcome: submission.Success{Payload: []byte(`{"code":"ABC123"}`)}},
	}}
	w := perform(newTestEngine(svc), http.MethodPost, "/submit", "")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]any{"code": "ABC123"}, decodeBody(t, w)["payload"])
}

func TestSubmitInFlightConflict(t *testing.T) {
	svc := &fakeCapture{submitErr: submission.ErrSubmissionInFlight}
	w := perform(newTestEngine(svc), http.MethodPost, "/submit", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}
