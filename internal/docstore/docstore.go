// Package docstore implements core.DocumentStore over Postgres, Redis and process memory.
// Every backend stores the full document as one JSON value and scopes handles to
// the credential subject that created them.
package docstore

import (
	"fmt"
	"time"

	"jewelry-ledger/internal/core"
)

// authorize rejects missing or expired credentials before touching the backend.
func authorize(cred core.Credential, now time.Time) error {
	if !cred.Valid(now) {
		return core.ErrUnauthenticated
	}
	if cred.Subject == "" {
		return fmt.Errorf("credential has no subject: %w", core.ErrUnauthenticated)
	}
	return nil
}

func handleNotFound(h core.Handle) error {
	return fmt.Errorf("document %s: %w", h.ID, core.ErrNotFound)
}
