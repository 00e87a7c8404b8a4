package port

import (
	"context"
	"encoding/json"
)

// ValidateInput carries the candidate ids for one validation call.
type ValidateInput struct {
	IDs []string
}

// ValidateOutput is the validation service's verdict. Together ValidIDs and
// InvalidIDs are expected to cover every requested id exactly once.
type ValidateOutput struct {
	ValidIDs   []string
	InvalidIDs []string
}

// RecordValidator checks which record ids exist and may be updated.
type RecordValidator interface {
	ValidateRecords(ctx context.Context, input ValidateInput) (*ValidateOutput, error)
}

// UpdateInput is a single bulk update request. CSVData holds the ids
// joined by newlines; Options holds the selected option names.
type UpdateInput struct {
	CSVData string
	Options []string
}

// UpdateOutput is the opaque payload returned by the update service.
type UpdateOutput struct {
	Result json.RawMessage
}

// RecordUpdater applies a bulk update to the backing record store.
type RecordUpdater interface {
	UpdateRecords(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
}
