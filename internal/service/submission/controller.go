package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/pkg/clients/inventory"
)

// ErrSubmissionInFlight is returned when submit is called while a previous
// submission has not finished.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// AssetCreator performs the asset-creation call.
type AssetCreator interface {
	CreateAsset(ctx context.Context, req inventory.CreateAssetRequest) (*inventory.CreateAssetResponse, error)
}

// Result describes one submission attempt.
type Result struct {
	RequestID string
	Payload   []byte
	Outcome   Outcome
}

// Controller serializes a draft, posts it once and classifies the response.
// It does not validate content; the inventory service is the judge.
type Controller struct {
	creator  AssetCreator
	logger   *zap.Logger
	newID    func() string
	inFlight atomic.Bool
}

// NewController wires a submission controller.
func NewController(creator AssetCreator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		creator: creator,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// InFlight reports whether a submission is running.
func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

// Submit posts the draft as-is. There is no retry; a second call while one is
// running fails with ErrSubmissionInFlight.
func (c *Controller) Submit(ctx context.Context, draft models.CaptureDraft) (Result, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	payload, err := json.Marshal(draft)
	if err != nil {
		return Result{}, fmt.Errorf("serialize draft: %w", err)
	}

	result := Result{RequestID: c.newID(), Payload: payload}
	logger := c.logger.With(zap.String("request_id", result.RequestID), zap.String("code", draft.Code))

	resp, err := c.creator.CreateAsset(ctx, inventory.CreateAssetRequest{RequestID: result.RequestID, Body: payload})
	if err != nil {
		logger.Warn("asset submission failed before a response", zap.Error(err))
		result.Outcome = NetworkError{Err: err}
		return result, nil
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		logger.Info("asset created")
		result.Outcome = Success{Payload: payload}
	case http.StatusBadRequest:
		failed := parseValidation(resp.Body)
		logger.Info("asset rejected by validation", zap.Any("fields", failed.FieldErrors))
		result.Outcome = failed
	default:
		logger.Warn("asset submission failed", zap.Int("status", resp.StatusCode))
		result.Outcome = ServerError{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	return result, nil
}

// parseValidation reads a field -> message body. Values may be a single
// string or a list of strings. Messages are joined one per line in field
// name order.
func parseValidation(body []byte) ValidationFailed {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = "Validation failed"
		}
		return ValidationFailed{FieldErrors: map[string][]string{}, Message: message}
	}

	fields := make([]string, 0, len(raw))
	for field := range raw {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	fieldErrors := make(map[string][]string, len(raw))
	var lines []string
	for _, field := range fields {
		messages := decodeMessages(raw[field])
		fieldErrors[field] = messages
		lines = append(lines, messages...)
	}

	message := strings.Join(lines, "\n")
	if message == "" {
		message = "Validation failed"
	}
	return ValidationFailed{FieldErrors: fieldErrors, Message: message}
}

func decodeMessages(value json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(value, &single); err == nil {
		return []string{single}
	}

	var list []string
	if err := json.Unmarshal(value, &list); err == nil {
		return list
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err == nil {
		return []string{compact.String()}
	}
	return []string{string(value)}
}
