// Package maintenance holds one-shot operator jobs run from the command
// line, such as removing expired bearer tokens.
package maintenance

import (
	"context"
	"fmt"
	"time"
)

// ExpiredTokenDeleter removes token records that expired at or before the
// given instant and reports how many were removed.
type ExpiredTokenDeleter interface {
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}

// PruneExpiredTokens deletes every token expired by now. Expired tokens are
// rejected by authentication whether or not they were pruned.
func PruneExpiredTokens(ctx context.Context, store ExpiredTokenDeleter, now time.Time) (int64, error) {
	n, err := store.DeleteExpiredTokens(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune expired tokens: %w", err)
	}
	return n, nil
}
