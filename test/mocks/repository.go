package mocks

import (
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/homequest/chorequest/internal/models"
)

// MockChoreRepository is an in-memory chore repository.
type MockChoreRepository struct {
	mu     sync.Mutex
	chores []models.Chore

	// Carried records points moved by UpdateWithCarryover, keyed by member id.
	Carried map[string]int

	// Err, when set, is returned by every call.
	Err error
}

// NewMockChoreRepository creates a repository seeded with chores.
func NewMockChoreRepository(chores ...models.Chore) *MockChoreRepository {
	return &MockChoreRepository{
		chores:  append([]models.Chore(nil), chores...),
		Carried: map[string]int{},
	}
}

func (m *MockChoreRepository) Create(chore *models.Chore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.chores = append(m.chores, *chore)
	return nil
}

func (m *MockChoreRepository) GetByID(householdID, id string) (*models.Chore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.chores {
		if c.HouseholdID == householdID && c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, fmt.Errorf("chore %s: %w", id, gorm.ErrRecordNotFound)
}

func (m *MockChoreRepository) ListByHousehold(householdID string) ([]models.Chore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Chore
	for _, c := range m.chores {
		if c.HouseholdID == householdID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockChoreRepository) Update(chore *models.Chore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.chores {
		if m.chores[i].ID == chore.ID {
			m.chores[i] = *chore
			return nil
		}
	}
	return fmt.Errorf("chore %s: %w", chore.ID, gorm.ErrRecordNotFound)
}

func (m *MockChoreRepository) UpdateWithCarryover(chore *models.Chore, memberID string, points int) error {
	if err := m.Update(chore); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Carried[memberID] += points
	return nil
}

func (m *MockChoreRepository) UpdateMany(chores []models.Chore) error {
	for i := range chores {
		if err := m.Update(&chores[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockChoreRepository) Delete(householdID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i, c := range m.chores {
		if c.HouseholdID == householdID && c.ID == id {
			m.chores = append(m.chores[:i], m.chores[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("chore %s: %w", id, gorm.ErrRecordNotFound)
}

// ListHouseholds returns the distinct household ids of stored chores.
func (m *MockChoreRepository) ListHouseholds() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	seen := map[string]bool{}
	var out []string
	for _, c := range m.chores {
		if !seen[c.HouseholdID] {
			seen[c.HouseholdID] = true
			out = append(out, c.HouseholdID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// MockMemberRepository is an in-memory member repository.
type MockMemberRepository struct {
	mu      sync.Mutex
	members []models.Member

	// Err, when set, is returned by every call.
	Err error
}

// NewMockMemberRepository creates a repository seeded with members.
func NewMockMemberRepository(members ...models.Member) *MockMemberRepository {
	return &MockMemberRepository{members: append([]models.Member(nil), members...)}
}

func (m *MockMemberRepository) Create(member *models.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.members = append(m.members, *member)
	return nil
}

func (m *MockMemberRepository) GetByID(householdID, id string) (*models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, mem := range m.members {
		if mem.HouseholdID == householdID && mem.ID == id {
			found := mem
			return &found, nil
		}
	}
	return nil, fmt.Errorf("member %s: %w", id, gorm.ErrRecordNotFound)
}

func (m *MockMemberRepository) ListByHousehold(householdID string, includeInactive bool) ([]models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Member
	for _, mem := range m.members {
		if mem.HouseholdID == householdID && (includeInactive || mem.IsActive) {
			out = append(out, mem)
		}
	}
	return out, nil
}

// MockResetRepository is an in-memory reset state repository.
type MockResetRepository struct {
	mu     sync.Mutex
	States map[string]models.ResetState
}

// NewMockResetRepository creates an empty reset state repository.
func NewMockResetRepository() *MockResetRepository {
	return &MockResetRepository{States: map[string]models.ResetState{}}
}

func (m *MockResetRepository) Get(householdID string) (*models.ResetState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.States[householdID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *MockResetRepository) Save(state *models.ResetState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.States[state.HouseholdID] = *state
	return nil
}
