package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

type fakeHistory struct {
	records []models.SubmissionRecord
	err     error
	asked   string
}

func (f *fakeHistory) ListSubmissionsByCode(_ context.Context, code string) ([]models.SubmissionRecord, error) {
	f.asked = code
	return f.records, f.err
}

func newHistoryEngine(history SubmissionHistory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/submissions", NewHistoryHandler(history, nil).ListByCode)
	return r
}

func TestHistoryListByCode(t *testing.T) {
	history := &fakeHistory{records: []models.SubmissionRecord{{RequestID: "req-1", Code: "ABC123", Outcome: "success"}}}
	w := perform(newHistoryEngine(history), http.MethodGet, "/submissions?code=ABC123", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ABC123", history.asked)
	assert.Contains(t, w.Body.String(), `"req-1"`)
}

func TestHistoryRequiresCode(t *testing.T) {
	w := perform(newHistoryEngine(&fakeHistory{}), http.MethodGet, "/submissions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEmptyAndFailure(t *testing.T) {
	w := perform(newHistoryEngine(&fakeHistory{}), http.MethodGet, "/submissions?code=NONE", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = perform(newHistoryEngine(&fakeHistory{err: errors.New("mongo down")}), http.MethodGet, "/submissions?code=X", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
