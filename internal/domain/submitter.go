package domain

import (
	"context"
	"errors"
)

// Relay failure modes, distinguished so the API can map them to the right
// status codes.
var (
	// ErrRelayLogin means the upstream rejected the observer credentials.
	ErrRelayLogin = errors.New("relay login failed")

	// ErrRelayRejected means the upstream accepted the session but refused
	// the report form.
	ErrRelayRejected = errors.New("relay rejected report")
)

// ReportSubmitter relays an observer's precipitation report to the upstream
// reporting network.
type ReportSubmitter interface {
	Submit(ctx context.Context, report PrecipReport) error
}
