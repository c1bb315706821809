package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/homequest/chorequest/pkg/logger"
)

// ErrNegativeDeduction is returned when asked to deduct a negative amount.
var ErrNegativeDeduction = errors.New("deduction must not be negative")

// Deductions tracks the cumulative points each user has redeemed.
type Deductions struct {
	store Store
	log   *logger.Logger
}

// NewDeductions creates a deduction ledger over store.
func NewDeductions(store Store, log *logger.Logger) *Deductions {
	return &Deductions{store: store, log: log}
}

// UpdateUserPoints adds points to the user's deduction counter and returns
// the new total. Adding zero is a no-op.
func (d *Deductions) UpdateUserPoints(ctx context.Context, householdID, userID string, points int) (int, error) {
	if points < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeDeduction, points)
	}
	if points == 0 {
		return d.Get(ctx, householdID, userID)
	}

	key := deductionKey(householdID, userID)
	if c, ok := d.store.(counter); ok {
		total, err := c.IncrBy(ctx, key, int64(points))
		if err != nil {
			return 0, fmt.Errorf("failed to increment deduction for %s: %w", userID, err)
		}
		d.log.Debug().Str("household", householdID).Str("user_id", userID).Int("points", points).Int64("total", total).Msg("Recorded point deduction")
		return int(total), nil
	}

	current, err := d.Get(ctx, householdID, userID)
	if err != nil {
		return 0, err
	}
	total := current + points
	if err := d.store.Set(ctx, key, strconv.Itoa(total), 0); err != nil {
		return 0, fmt.Errorf("failed to store deduction for %s: %w", userID, err)
	}

	d.log.Debug().Str("household", householdID).Str("user_id", userID).Int("points", points).Int("total", total).Msg("Recorded point deduction")
	return total, nil
}

// Get returns the user's cumulative deduction, 0 when none is recorded.
func (d *Deductions) Get(ctx context.Context, householdID, userID string) (int, error) {
	raw, err := d.store.Get(ctx, deductionKey(householdID, userID))
	if err != nil {
		return 0, fmt.Errorf("failed to read deduction for %s: %w", userID, err)
	}
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		d.log.Warn().Str("household", householdID).Str("user_id", userID).Str("value", raw).Msg("Ignoring malformed deduction value")
		return 0, nil
	}
	return n, nil
}

// GetMany returns deductions for every user that has one.
func (d *Deductions) GetMany(ctx context.Context, householdID string, userIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(userIDs))
	for _, id := range userIDs {
		n, err := d.Get(ctx, householdID, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

// Reset removes the user's deduction counter.
func (d *Deductions) Reset(ctx context.Context, householdID, userID string) error {
	if err := d.store.Del(ctx, deductionKey(householdID, userID)); err != nil {
		return fmt.Errorf("failed to reset deduction for %s: %w", userID, err)
	}
	return nil
}
