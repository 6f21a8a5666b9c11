package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() PrecipReport {
	return PrecipReport{
		ReportDate:     time.Date(2026, time.February, 3, 7, 0, 0, 0, time.UTC),
		GaugeCatch:     "0.25",
		SnowfallAmount: "2.5",
		SnowpackDepth:  "14",
	}
}

func TestPrecipReport_Validate(t *testing.T) {
	require.NoError(t, validReport().Validate())
}

func TestPrecipReport_Validate_MissingDate(t *testing.T) {
	r := validReport()
	r.ReportDate = time.Time{}
	err := r.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReportDateRequired))
}

func TestPrecipReport_Validate_Amounts(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"", true},
		{"0", true},
		{"0.01", true},
		{"T", true},
		{"t", true},
		{" 1.5 ", true},
		{"-0.1", false},
		{"two inches", false},
	}
	for _, tt := range tests {
		r := validReport()
		r.GaugeCatch = tt.value
		err := r.Validate()
		if tt.ok {
			assert.NoError(t, err, "value %q", tt.value)
		} else {
			assert.Error(t, err, "value %q", tt.value)
		}
	}
}

func TestNewReportID_Deterministic(t *testing.T) {
	a := NewReportID("VT-CL-14", validReport())
	b := NewReportID("VT-CL-14", validReport())
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestNewReportID_SensitiveToFields(t *testing.T) {
	base := NewReportID("VT-CL-14", validReport())

	changed := validReport()
	changed.GaugeCatch = "0.26"
	assert.NotEqual(t, base, NewReportID("VT-CL-14", changed))

	assert.NotEqual(t, base, NewReportID("VT-CL-15", validReport()))
}

func TestNewReportID_IgnoresNotes(t *testing.T) {
	withNotes := validReport()
	withNotes.AdditionalNotes = "light drizzle overnight"
	assert.Equal(t, NewReportID("VT-CL-14", validReport()), NewReportID("VT-CL-14", withNotes))
}

func TestStamp(t *testing.T) {
	frozen := time.Date(2026, time.February, 3, 7, 15, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	r := validReport().Stamp("VT-CL-14")

	assert.Equal(t, "VT-CL-14", r.Station)
	assert.Equal(t, NewReportID("VT-CL-14", validReport()), r.ID)
	assert.Equal(t, frozen, r.SubmittedAt)
	assert.Equal(t, ReportStatusQueued, r.Status)
}

func TestPrecipReport_JSON(t *testing.T) {
	// An unstamped report (as clients submit them) carries no timestamp.
	data, err := json.Marshal(validReport())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "submittedAt")

	frozen := time.Date(2026, time.February, 3, 7, 15, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	data, err = json.Marshal(validReport().Stamp("VT-CL-14"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"submittedAt":"2026-02-03T07:15:00Z"`)
	assert.Contains(t, string(data), `"reportDate"`)
	assert.Contains(t, string(data), `"gaugeCatch"`)
}

func TestClockText(t *testing.T) {
	frozen := time.Date(2026, time.February, 3, 14, 3, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	assert.Equal(t, "14:03", ClockText(time.UTC))

	// Monotonic display: a later tick never renders an earlier time.
	fake := clockwork.NewFakeClockAt(frozen)
	SetClock(fake)
	first := ClockText(time.UTC)
	fake.Advance(time.Minute)
	assert.Equal(t, "14:04", ClockText(time.UTC))
	assert.Less(t, first, ClockText(time.UTC))
}
