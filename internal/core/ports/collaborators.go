package ports

import (
	"context"
	"time"
)

// GuestTracker records minted guest tokens for observability. Guest tokens
// are never backed by an account, so the tracker is the only server-side
// trace they leave.
type GuestTracker interface {
	Record(ctx context.Context, tokenID string, ttl time.Duration) error
}

// LoginRecorder is notified after a successful login so bookkeeping (the
// lastLogged touch) can happen off the request path.
type LoginRecorder interface {
	RecordLogin(userID string)
}
