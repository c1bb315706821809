// Package ledger keeps the redemption overlays that sit on top of computed
// stats: cumulative point deductions and temporary level persistence.
package ledger

import (
	"context"
	"time"
)

// Store is the key-value storage the ledger needs. A missing key reads as
// an empty string with a nil error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// counter is implemented by stores that can increment atomically.
type counter interface {
	IncrBy(ctx context.Context, key string, value int64) (int64, error)
}

const (
	deductionKeyPrefix   = "points:deducted:"
	persistenceKeyPrefix = "level:persistence:"
)

// Keys are scoped by household so the same user id in two households never
// shares a counter or a persistence entry.
func deductionKey(householdID, userID string) string {
	return deductionKeyPrefix + householdID + ":" + userID
}

func persistenceKey(householdID, userID string) string {
	return persistenceKeyPrefix + householdID + ":" + userID
}
