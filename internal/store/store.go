package store

import "context"

// Store is the decision audit repository: every evaluated scenario and its
// ranked response are kept as opaque JSON blobs for post-incident review.
type Store interface {
	// SaveDecision stores one request/response pair.
	SaveDecision(ctx context.Context, request, response []byte) error
	// RecentDecisions returns up to limit response blobs, newest first.
	RecentDecisions(ctx context.Context, limit int) ([][]byte, error)
	// Migrate creates the backing tables.
	Migrate(ctx context.Context) error
}
