package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Activity is a category of work that time can be logged against.
type Activity struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Catalog is the immutable, ordered list of known activities.
// It is shared read-only by every day of a session.
type Catalog struct {
	activities []Activity
	byID       map[uuid.UUID]int
}

// NewCatalog builds a Catalog, rejecting duplicate activity IDs.
func NewCatalog(activities []Activity) (Catalog, error) {
	c := Catalog{
		activities: make([]Activity, 0, len(activities)),
		byID:       make(map[uuid.UUID]int, len(activities)),
	}
	for _, a := range activities {
		if _, dup := c.byID[a.ID]; dup {
			return Catalog{}, NewParsingError("catalog", fmt.Sprintf("duplicate activity id %s", a.ID), nil)
		}
		c.byID[a.ID] = len(c.activities)
		c.activities = append(c.activities, a)
	}
	return c, nil
}

// Activities returns a copy of the catalog in catalog order.
func (c Catalog) Activities() []Activity {
	return append([]Activity(nil), c.activities...)
}

// Len returns the number of activities.
func (c Catalog) Len() int {
	return len(c.activities)
}

// Lookup returns the activity with the given ID.
func (c Catalog) Lookup(id uuid.UUID) (Activity, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Activity{}, false
	}
	return c.activities[i], true
}

// FindByName returns the first activity whose name matches, ignoring case.
func (c Catalog) FindByName(name string) (Activity, bool) {
	name = strings.TrimSpace(name)
	for _, a := range c.activities {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Activity{}, false
}
