package kafka

import (
	"testing"
	"time"

	"github.com/lyndonwx/dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, time.February, 3, 7, 15, 0, 0, time.UTC)
	report := domain.PrecipReport{
		ID:          "rep-1",
		ReportDate:  time.Date(2026, time.February, 3, 7, 0, 0, 0, time.UTC),
		GaugeCatch:  "0.25",
		Station:     "VT-CL-14",
		Status:      domain.ReportStatusSubmitted,
		SubmittedAt: now,
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("rep-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"gaugeCatch":"0.25"`)
	assert.Contains(t, string(msg.Value), `"station":"VT-CL-14"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "station", msg.Headers[0].Key)
	assert.Equal(t, []byte("VT-CL-14"), msg.Headers[0].Value)
	assert.Equal(t, "submitted_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
