package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/internal/service/media"
	"github.com/mamadbah2/assetcapture/internal/service/notify"
	"github.com/mamadbah2/assetcapture/internal/service/permissions"
	"github.com/mamadbah2/assetcapture/internal/service/scanning"
	"github.com/mamadbah2/assetcapture/internal/service/submission"
)

var (
	// ErrUnknownStatus indicates a manual edit carried an unsupported status.
	ErrUnknownStatus = errors.New("unknown asset status")
	// ErrUnknownReference indicates a manual edit selected an id missing from its lookup list.
	ErrUnknownReference = errors.New("unknown reference id")
)

const recordTimeout = 5 * time.Second

// PermissionChecker runs the bootstrap permission check.
type PermissionChecker interface {
	EnsurePermissions(ctx context.Context) (permissions.Result, error)
}

// Scanner is the scanner state machine.
type Scanner interface {
	Status() scanning.Status
	Toggle(ctx context.Context) (scanning.Status, error)
	ToggleTorch(ctx context.Context) (scanning.Status, error)
	HandleDecode(ctx context.Context, event models.DecodeEvent) (scanning.Capture, error)
	Hide(ctx context.Context)
}

// Enricher reads the device position for a scan.
type Enricher interface {
	Enrich(ctx context.Context) (models.Coordinates, error)
}

// ImagePicker picks the asset photo.
type ImagePicker interface {
	PickImage(ctx context.Context) (media.Selection, error)
}

// ReferenceData serves the lookup lists.
type ReferenceData interface {
	EnsureLoaded(ctx context.Context) error
	Categories() models.ReferenceList
	Employees() models.ReferenceList
}

// Submitter sends a draft to the inventory service.
type Submitter interface {
	Submit(ctx context.Context, draft models.CaptureDraft) (submission.Result, error)
}

// Recorder keeps an audit trail of submission attempts.
type Recorder interface {
	RecordSubmission(ctx context.Context, record models.SubmissionRecord) error
}

// Dependencies groups the collaborators of a Session. Notifier and Recorders
// are optional.
type Dependencies struct {
	Permissions PermissionChecker
	Scanner     Scanner
	Enricher    Enricher
	Media       ImagePicker
	References  ReferenceData
	Submitter   Submitter
	Notifier    notify.Notifier
	Recorders   []Recorder
}

// SubmitReport is what a submit action produced.
type SubmitReport struct {
	Result submission.Result
	Draft  models.CaptureDraft
}

// Session is the single owner of the capture draft. Every write goes through
// one of its merge operations: scan result, enrichment result, media result
// or manual edit.
type Session struct {
	id     string
	deps   Dependencies
	logger *zap.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	draft models.CaptureDraft
	// scanGen changes on every accepted scan and on reset; enrichment results
	// for an older generation are dropped.
	scanGen uint64
	// epoch changes on reset; media results picked for an older draft are dropped.
	epoch uint64
}

// NewSession starts a capture session with a default draft.
func NewSession(deps Dependencies, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &Session{
		id:     id,
		deps:   deps,
		logger: logger.With(zap.String("session_id", id)),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		draft:  models.NewCaptureDraft(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Close cancels outstanding enrichment and waits for it to finish.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until outstanding enrichment calls have been merged or dropped.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Bootstrap runs the permission gate and loads the lookup lists. Neither
// failure aborts the session.
func (s *Session) Bootstrap(ctx context.Context) (permissions.Result, error) {
	result, err := s.deps.Permissions.EnsurePermissions(ctx)
	if err != nil {
		return permissions.Result{}, fmt.Errorf("ensure permissions: %w", err)
	}

	if s.deps.References != nil {
		if err := s.deps.References.EnsureLoaded(ctx); err != nil {
			s.notify(ctx, models.NoticeWarning, "Reference data unavailable", "Categories and employees could not be loaded.")
		}
	}

	return result, nil
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() models.CaptureDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// ScannerStatus reports the scanner state.
func (s *Session) ScannerStatus() scanning.Status {
	return s.deps.Scanner.Status()
}

// ToggleScanner opens or hides the camera view.
func (s *Session) ToggleScanner(ctx context.Context) (scanning.Status, error) {
	return s.deps.Scanner.Toggle(ctx)
}

// ToggleTorch flips the torch.
func (s *Session) ToggleTorch(ctx context.Context) (scanning.Status, error) {
	return s.deps.Scanner.ToggleTorch(ctx)
}

// Edit applies a manual edit of the user-editable fields.
func (s *Session) Edit(ctx context.Context, edit models.DraftEdit) (models.CaptureDraft, error) {
	if edit.Status != nil && !edit.Status.Valid() {
		return models.CaptureDraft{}, fmt.Errorf("%w: %q", ErrUnknownStatus, *edit.Status)
	}
	if s.deps.References != nil {
		if err := checkReference("category_id", edit.CategoryID, s.deps.References.Categories()); err != nil {
			return models.CaptureDraft{}, err
		}
		if err := checkReference("employee_id", edit.EmployeeID, s.deps.References.Employees()); err != nil {
			return models.CaptureDraft{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	edit.Apply(&s.draft)
	return s.draft.Clone(), nil
}

func checkReference(field string, id *string, list models.ReferenceList) error {
	if id == nil || *id == "" || !list.Loaded() {
		return nil
	}
	if !list.Contains(*id) {
		return fmt.Errorf("%w: %s=%q", ErrUnknownReference, field, *id)
	}
	return nil
}

// HandleDecode forwards a decode event to the scanner. An accepted event has
// already hidden the camera when the scanner returns; the code is merged into
// the draft and enrichment starts in the background.
func (s *Session) HandleDecode(ctx context.Context, event models.DecodeEvent) (models.CaptureDraft, error) {
	capture, err := s.deps.Scanner.HandleDecode(ctx, event)
	if err != nil {
		return models.CaptureDraft{}, err
	}

	s.mu.Lock()
	s.scanGen++
	gen := s.scanGen
	s.draft.Code = capture.Payload
	s.draft.Coordinates = nil
	draft := s.draft.Clone()
	s.mu.Unlock()

	s.logger.Info("scan merged into draft", zap.String("code", capture.Payload), zap.Uint64("scan", gen))

	if s.deps.Enricher != nil {
		s.wg.Add(1)
		go s.enrich(gen)
	}

	return draft, nil
}

func (s *Session) enrich(gen uint64) {
	defer s.wg.Done()

	coords, err := s.deps.Enricher.Enrich(s.ctx)
	if err != nil {
		s.logger.Info("draft left without coordinates", zap.Uint64("scan", gen), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.scanGen {
		s.logger.Debug("stale enrichment dropped", zap.Uint64("scan", gen), zap.Uint64("current", s.scanGen))
		return
	}
	s.draft.Coordinates = &coords
}

// PickImage launches the picker and stores the selected image, replacing any
// previous one. A cancelled pick leaves the draft unchanged.
func (s *Session) PickImage(ctx context.Context) (models.CaptureDraft, error) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	selection, err := s.deps.Media.PickImage(ctx)
	if err != nil {
		s.notify(ctx, models.NoticeError, "Image unavailable", "The photo library could not be opened.")
		return models.CaptureDraft{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if selection.Cancelled {
		return s.draft.Clone(), nil
	}
	if epoch != s.epoch {
		s.logger.Info("image picked for a submitted draft dropped", zap.String("uri", selection.URI))
		return s.draft.Clone(), nil
	}
	uri := selection.URI
	s.draft.Image = &uri
	return s.draft.Clone(), nil
}

// Submit sends the draft as it is at this moment. Writes that land while the
// request is in flight do not affect it. Only a Success resets the draft and
// hides the scanner.
func (s *Session) Submit(ctx context.Context) (SubmitReport, error) {
	s.mu.Lock()
	snapshot := s.draft.Clone()
	s.mu.Unlock()

	result, err := s.deps.Submitter.Submit(ctx, snapshot)
	if err != nil {
		if errors.Is(err, submission.ErrSubmissionInFlight) {
			s.logger.Info("duplicate submit rejected")
		}
		return SubmitReport{}, err
	}

	switch outcome := result.Outcome.(type) {
	case submission.Success:
		s.reset(ctx)
		s.notify(ctx, models.NoticeInfo, "Asset Details Submitted", string(outcome.Payload))
	case submission.ValidationFailed:
		s.notify(ctx, models.NoticeError, "Validation failed", outcome.Message)
	case submission.ServerError:
		s.notify(ctx, models.NoticeError, "Submission failed", "The inventory service could not save the asset. Please try again.")
	case submission.NetworkError:
		s.notify(ctx, models.NoticeError, "Connection problem", "Could not reach the inventory service. Check your connection and try again.")
	}

	s.record(ctx, snapshot, result)

	return SubmitReport{Result: result, Draft: s.Draft()}, nil
}

func (s *Session) reset(ctx context.Context) {
	s.mu.Lock()
	s.draft = models.NewCaptureDraft()
	s.scanGen++
	s.epoch++
	s.mu.Unlock()

	s.deps.Scanner.Hide(ctx)
	s.logger.Info("draft reset after submission")
}

func (s *Session) record(ctx context.Context, draft models.CaptureDraft, result submission.Result) {
	if len(s.deps.Recorders) == 0 {
		return
	}

	record := models.SubmissionRecord{
		RequestID:  result.RequestID,
		SessionID:  s.id,
		Outcome:    result.Outcome.Kind(),
		Code:       draft.Code,
		Name:       draft.Name,
		CategoryID: draft.CategoryID,
		EmployeeID: draft.EmployeeID,
		Payload:    string(result.Payload),
		CreatedAt:  s.now().UTC(),
	}
	if draft.Coordinates != nil {
		record.Coordinates = draft.Coordinates.String()
	}
	switch outcome := result.Outcome.(type) {
	case submission.Success:
		record.StatusCode = 201
	case submission.ValidationFailed:
		record.StatusCode = 400
		record.Detail = outcome.Message
	case submission.ServerError:
		record.StatusCode = outcome.Status
		record.Detail = outcome.Body
	case submission.NetworkError:
		record.Detail = outcome.Err.Error()
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	for _, recorder := range s.deps.Recorders {
		if err := recorder.RecordSubmission(recordCtx, record); err != nil {
			s.logger.Error("failed to record submission", zap.Error(err), zap.String("request_id", record.RequestID))
		}
	}
}

func (s *Session) notify(ctx context.Context, level models.NoticeLevel, title, message string) {
	if s.deps.Notifier == nil {
		return
	}
	s.deps.Notifier.Notify(ctx, models.Notice{Level: level, Title: title, Message: message})
}
