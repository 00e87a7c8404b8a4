package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"eposupdate/internal/port"
	"eposupdate/internal/recordid"
)

// RecordRepo validates and bulk updates rows of the epos_records table.
type RecordRepo struct {
	db *sqlx.DB
}

var (
	_ port.RecordValidator = (*RecordRepo)(nil)
	_ port.RecordUpdater   = (*RecordRepo)(nil)
)

// NewRecordRepo creates a new PostgreSQL-backed record store.
func NewRecordRepo(db *sqlx.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// ValidateRecords reports an id as valid when it is a well-formed canonical
// id that exists in epos_records.
func (r *RecordRepo) ValidateRecords(ctx context.Context, input port.ValidateInput) (*port.ValidateOutput, error) {
	lookup := uniqueWellFormed(input.IDs)

	existing := make(map[string]struct{}, len(lookup))
	if len(lookup) > 0 {
		query, args, err := sqlx.In("SELECT id FROM epos_records WHERE id IN (?)", lookup)
		if err != nil {
			return nil, fmt.Errorf("recordRepo.ValidateRecords build: %w", err)
		}
		var found []string
		if err := r.db.SelectContext(ctx, &found, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("recordRepo.ValidateRecords: %w", err)
		}
		for _, id := range found {
			existing[id] = struct{}{}
		}
	}

	out := &port.ValidateOutput{ValidIDs: []string{}, InvalidIDs: []string{}}
	for _, id := range input.IDs {
		if _, ok := existing[id]; ok {
			out.ValidIDs = append(out.ValidIDs, id)
		} else {
			out.InvalidIDs = append(out.InvalidIDs, id)
		}
	}
	return out, nil
}

type updateResult struct {
	Requested int      `json:"requested"`
	Updated   int64    `json:"updated"`
	Options   []string `json:"options"`
}

// UpdateRecords stamps the selected options on every listed record inside a
// single transaction.
func (r *RecordRepo) UpdateRecords(ctx context.Context, input port.UpdateInput) (*port.UpdateOutput, error) {
	ids := splitCSVData(input.CSVData)
	if len(ids) == 0 {
		return nil, fmt.Errorf("recordRepo.UpdateRecords: no ids in request")
	}

	now := time.Now().UTC()
	query, args, err := sqlx.In(
		`UPDATE epos_records
		 SET update_options = ?, mass_updated_at = ?, updated_at = ?
		 WHERE id IN (?)`,
		strings.Join(input.Options, ","), now, now, ids)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.UpdateRecords build: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.UpdateRecords begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.UpdateRecords: %w", err)
	}
	updated, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("recordRepo.UpdateRecords commit: %w", err)
	}

	options := input.Options
	if options == nil {
		options = []string{}
	}
	payload, err := json.Marshal(updateResult{Requested: len(ids), Updated: updated, Options: options})
	if err != nil {
		return nil, fmt.Errorf("recordRepo.UpdateRecords result: %w", err)
	}
	return &port.UpdateOutput{Result: payload}, nil
}

// Ping checks database connectivity.
func (r *RecordRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// uniqueWellFormed returns the distinct canonical-length alphanumeric ids.
// Anything else cannot exist in the table and is never queried.
func uniqueWellFormed(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !wellFormed(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func wellFormed(id string) bool {
	if len(id) != recordid.CanonicalLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// splitCSVData splits the newline-joined update payload into ids.
func splitCSVData(data string) []string {
	var ids []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids
}
