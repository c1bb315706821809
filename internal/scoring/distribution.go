package scoring

import (
	"github.com/homequest/chorequest/internal/models"
)

// Distribution is the result of assigning every chore to one owning member.
type Distribution struct {
	// Order lists bucket ids: current members in input order, then former
	// members in the order they were first seen.
	Order   []string
	Buckets map[string][]models.Chore
	// Members holds a record for every id in Order. Former members get a
	// minimal record whose name is their id.
	Members map[string]models.Member
	// Unassigned holds chores that had no possible owner, which only happens
	// when there are no members and nobody completed the chore.
	Unassigned []models.Chore
}

// Distribute assigns each chore to exactly one owner.
//
// With a single member every chore belongs to that member. Otherwise a
// completed chore goes to whoever completed it, then to its assignee when
// that id has a bucket, and finally round-robin by input position.
func Distribute(chores []models.Chore, members []models.Member) Distribution {
	d := Distribution{
		Buckets: make(map[string][]models.Chore, len(members)),
		Members: make(map[string]models.Member, len(members)),
	}

	for _, m := range members {
		if _, ok := d.Members[m.ID]; ok {
			continue
		}
		d.Order = append(d.Order, m.ID)
		d.Members[m.ID] = m
		d.Buckets[m.ID] = nil
	}
	current := len(d.Order)

	for _, c := range chores {
		if c.CompletedBy == nil || *c.CompletedBy == "" {
			continue
		}
		id := *c.CompletedBy
		if _, ok := d.Members[id]; ok {
			continue
		}
		d.Order = append(d.Order, id)
		d.Members[id] = models.Member{ID: id, Name: id}
		d.Buckets[id] = nil
	}

	if current == 1 {
		only := d.Order[0]
		d.Buckets[only] = append(d.Buckets[only], chores...)
		return d
	}

	for i, c := range chores {
		owner, ok := ownerOf(c, d.Buckets)
		if !ok {
			if current == 0 {
				d.Unassigned = append(d.Unassigned, c)
				continue
			}
			owner = d.Order[i%current]
		}
		d.Buckets[owner] = append(d.Buckets[owner], c)
	}

	return d
}

func ownerOf(c models.Chore, buckets map[string][]models.Chore) (string, bool) {
	if c.Completed && c.CompletedBy != nil && *c.CompletedBy != "" {
		return *c.CompletedBy, true
	}
	if c.AssignedTo != nil {
		if _, ok := buckets[*c.AssignedTo]; ok {
			return *c.AssignedTo, true
		}
	}
	return "", false
}
