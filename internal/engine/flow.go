package engine

import (
	"github.com/google/uuid"
)

// RequestIDGenerator issues the request id stamped on each journal entry.
// Request ids correlate a call with the host's logs; they are not part of
// the entry hash.
type RequestIDGenerator interface {
	Generate() string
}

// UUIDv7Generator issues time-sortable UUIDv7 request ids. It is stateless
// and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate panics if the UUID source fails, which does not happen in
// practice.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
