package domain

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawUpload is the user-selected file as received, before any parsing.
type RawUpload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

// ReconciliationResult partitions a candidate id list into valid and
// invalid ids. Each candidate appears in exactly one of the two slices.
type ReconciliationResult struct {
	ValidIDs   []string `json:"valid_ids"`
	InvalidIDs []string `json:"invalid_ids"`
}

// Total returns the number of reconciled ids.
func (r *ReconciliationResult) Total() int {
	return len(r.ValidIDs) + len(r.InvalidIDs)
}

// UpdateOptions is the set of option names selected for a bulk update.
type UpdateOptions struct {
	names []string
}

// NewUpdateOptions builds an option set, dropping blanks and duplicates.
func NewUpdateOptions(names ...string) UpdateOptions {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return UpdateOptions{names: out}
}

// Names returns the selected option names in sorted order.
func (o UpdateOptions) Names() []string {
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// Has reports whether name was selected.
func (o UpdateOptions) Has(name string) bool {
	i := sort.SearchStrings(o.names, name)
	return i < len(o.names) && o.names[i] == name
}

// Len returns the number of selected options.
func (o UpdateOptions) Len() int {
	return len(o.names)
}

// MarshalJSON encodes the option set as a sorted array of names.
func (o UpdateOptions) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Names())
}

// UpdateOutcome is the opaque payload returned by a successful update call.
type UpdateOutcome struct {
	Result json.RawMessage `json:"result,omitempty"`
}

// Notification is a user-facing message about a pipeline event.
type Notification struct {
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Severity Severity         `json:"severity"`
	Mode     NotificationMode `json:"mode"`
}

// ReportArtifact is a rendered invalid id report. Data is only populated
// when the report is delivered inline rather than through object storage.
type ReportArtifact struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Rows        int    `json:"rows"`
	Data        []byte `json:"data,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// RunSnapshot is an immutable view of a pipeline run at one transition.
type RunSnapshot struct {
	RunID        uuid.UUID `json:"run_id"`
	State        RunState  `json:"state"`
	FileName     string    `json:"file_name"`
	Options      []string  `json:"options"`
	Candidates   int       `json:"candidates"`
	ValidCount   int       `json:"valid_count"`
	InvalidCount int       `json:"invalid_count"`
	FailureCode  string    `json:"failure_code,omitempty"`
	At           time.Time `json:"at"`
}

// RunResult is everything a pipeline run produced once it reached a
// terminal state.
type RunResult struct {
	Final         RunSnapshot     `json:"final"`
	History       []RunSnapshot   `json:"history"`
	Notifications []Notification  `json:"notifications"`
	Report        *ReportArtifact `json:"report,omitempty"`
	Outcome       *UpdateOutcome  `json:"outcome,omitempty"`
	Err           error           `json:"-"`
	ResetAfter    time.Duration   `json:"-"`
}

// Succeeded reports whether the run ended in the done state.
func (r *RunResult) Succeeded() bool {
	return r.Final.State == RunStateDone
}
