package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/pkg/logger"
)

// Persistence stores level persistence entries as JSON, one key per user.
type Persistence struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

// NewPersistence creates a persistence store over store.
func NewPersistence(store Store, log *logger.Logger) *Persistence {
	return &Persistence{store: store, log: log, now: time.Now}
}

// SetLevelPersistence freezes the user's displayed level for graceDays
// (scoring.DefaultGracePeriodDays when graceDays is not positive).
func (p *Persistence) SetLevelPersistence(ctx context.Context, householdID, userID string, level, pointsAtRedemption, graceDays int) (scoring.PersistenceEntry, error) {
	now := p.now()
	entry := scoring.NewPersistenceEntry(level, pointsAtRedemption, graceDays, now)

	data, err := json.Marshal(entry)
	if err != nil {
		return scoring.PersistenceEntry{}, fmt.Errorf("failed to encode persistence entry: %w", err)
	}
	if err := p.store.Set(ctx, persistenceKey(householdID, userID), string(data), entry.ExpiresAt.Sub(now)); err != nil {
		return scoring.PersistenceEntry{}, fmt.Errorf("failed to store persistence for %s: %w", userID, err)
	}

	p.log.Info().
		Str("household", householdID).Str("user_id", userID).
		Int("level", level).
		Int("points_at_redemption", pointsAtRedemption).
		Time("expires_at", entry.ExpiresAt).
		Msg("Level persistence set")
	return entry, nil
}

// ClearLevelPersistence removes the user's entry.
func (p *Persistence) ClearLevelPersistence(ctx context.Context, householdID, userID string) error {
	if err := p.store.Del(ctx, persistenceKey(householdID, userID)); err != nil {
		return fmt.Errorf("failed to clear persistence for %s: %w", userID, err)
	}
	return nil
}

// Get returns the user's active entry, or nil. Expired entries are removed
// as they are found.
func (p *Persistence) Get(ctx context.Context, householdID, userID string) (*scoring.PersistenceEntry, error) {
	raw, err := p.store.Get(ctx, persistenceKey(householdID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read persistence for %s: %w", userID, err)
	}
	if raw == "" {
		return nil, nil
	}

	var entry scoring.PersistenceEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		p.log.Warn().Err(err).Str("household", householdID).Str("user_id", userID).Msg("Dropping unreadable persistence entry")
		return nil, p.ClearLevelPersistence(ctx, householdID, userID)
	}

	if !entry.Active(p.now()) {
		p.log.Debug().Str("household", householdID).Str("user_id", userID).Msg("Clearing expired level persistence")
		return nil, p.ClearLevelPersistence(ctx, householdID, userID)
	}
	return &entry, nil
}

// GetMany returns the active entries for the given users.
func (p *Persistence) GetMany(ctx context.Context, householdID string, userIDs []string) (map[string]scoring.PersistenceEntry, error) {
	out := make(map[string]scoring.PersistenceEntry)
	for _, id := range userIDs {
		entry, err := p.Get(ctx, householdID, id)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			out[id] = *entry
		}
	}
	return out, nil
}
