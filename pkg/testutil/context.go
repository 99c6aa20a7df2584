package testutil

import (
	"net/http"
	"time"

	id "timecapsule/pkg/domain"
	"timecapsule/pkg/requestcontext"
)

// WithIdentity adds a caller identity to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithIdentity(req *http.Request, identity id.IdentityKey) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), identity))
}

// WithRequestTime pins the request-scoped "now".
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
