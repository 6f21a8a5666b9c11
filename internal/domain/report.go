package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Report submission statuses recorded in the report log.
const (
	ReportStatusQueued    = "queued"
	ReportStatusSubmitted = "submitted"
	ReportStatusFailed    = "failed"
)

// ErrReportDateRequired rejects reports without an observation date.
var ErrReportDateRequired = errors.New("report date is required")

// PrecipReport is one observer's daily precipitation report for the campus
// CoCoRaHS station. Amount fields are strings so the trace marker "T" passes
// through to CoCoRaHS unchanged; empty means unmeasured.
type PrecipReport struct {
	ID              string    `json:"id,omitempty"`
	ReportDate      time.Time `json:"reportDate"`
	GaugeCatch      string    `json:"gaugeCatch,omitempty"`
	SnowfallAmount  string    `json:"snowfallAmount,omitempty"`
	SnowfallSWE     string    `json:"snowfallSWE,omitempty"`
	SnowpackDepth   string    `json:"snowpackDepth,omitempty"`
	SnowpackSWE     string    `json:"snowpackSWE,omitempty"`
	AdditionalNotes string    `json:"additionalNotes,omitempty"`

	Station     string    `json:"station,omitempty"`
	Status      string    `json:"status,omitempty"`
	SubmittedAt time.Time `json:"submittedAt,omitzero"`
}

// Validate checks the report before it is logged or relayed. The date is the
// only required field; amount fields must be a decimal number, the trace
// marker "T", or empty.
func (r PrecipReport) Validate() error {
	if r.ReportDate.IsZero() {
		return ErrReportDateRequired
	}
	fields := map[string]string{
		"gaugeCatch":     r.GaugeCatch,
		"snowfallAmount": r.SnowfallAmount,
		"snowfallSWE":    r.SnowfallSWE,
		"snowpackDepth":  r.SnowpackDepth,
		"snowpackSWE":    r.SnowpackSWE,
	}
	for name, v := range fields {
		if err := validateAmount(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// validateAmount accepts "", the trace marker, or a non-negative decimal.
func validateAmount(v string) error {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "T") {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", v)
	}
	if f < 0 {
		return fmt.Errorf("negative amount %q", v)
	}
	return nil
}

// NewReportID produces a deterministic ID from the report's key fields.
// Resubmitting an identical report yields the same ID, so the report log can
// upsert idempotently and relays are replay-safe.
func NewReportID(station string, r PrecipReport) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		station,
		r.ReportDate.UTC().Format(time.RFC3339),
		r.GaugeCatch,
		r.SnowfallAmount,
		r.SnowfallSWE,
		r.SnowpackDepth,
		r.SnowpackSWE,
	)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}

// Stamp fills the derived fields before the report enters the log.
func (r PrecipReport) Stamp(station string) PrecipReport {
	r.Station = station
	r.ID = NewReportID(station, r)
	r.SubmittedAt = clock.Now().UTC()
	if r.Status == "" {
		r.Status = ReportStatusQueued
	}
	return r
}
