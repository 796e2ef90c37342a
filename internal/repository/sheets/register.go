package sheets

import (
	"context"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/internal/service/submission"
)

const (
	registerRange = "Assets!A:H"
	dateLayout    = "2006-01-02 15:04:05"
)

// Register mirrors successfully created assets into the register sheet.
// Attempts that did not create an asset are skipped.
type Register struct {
	repo Repository
}

// NewRegister wraps a sheet repository.
func NewRegister(repo Repository) *Register {
	return &Register{repo: repo}
}

// RecordSubmission appends a register row for a created asset.
func (r *Register) RecordSubmission(ctx context.Context, record models.SubmissionRecord) error {
	if record.Outcome != (submission.Success{}).Kind() {
		return nil
	}
	values := []interface{}{
		record.CreatedAt.Format(dateLayout),
		record.Code,
		record.Name,
		record.CategoryID,
		record.EmployeeID,
		record.Coordinates,
		record.RequestID,
		record.SessionID,
	}
	return r.repo.WriteRow(ctx, registerRange, values)
}
