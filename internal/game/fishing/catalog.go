package fishing

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultLocationID names the location whose candidates every other location
// inherits as a fallback.
const DefaultLocationID = "Default"

// RawLocation is a location as declared by content.
type RawLocation struct {
	ID         string
	Areas      []string
	Candidates []RawCandidate
}

// Location is a fishing location with resolved candidates.
type Location struct {
	ID string
	// Areas lists the declared sub-area IDs in declaration order.
	Areas      []string
	Candidates []Candidate
}

// IsDefault reports whether l is the location every other location inherits
// from.
func (l *Location) IsDefault() bool {
	return l.ID == DefaultLocationID
}

// AreaCandidates returns the candidates assigned to areaID, in declaration
// order. An empty areaID selects the none bucket.
func (l *Location) AreaCandidates(areaID string) []Candidate {
	var out []Candidate
	for _, c := range l.Candidates {
		if c.Area == areaID {
			out = append(out, c)
		}
	}
	return out
}

// Catalog holds all items, profiles and locations known to a query.
// A Catalog is populated once and only read afterwards, so it may be shared by
// concurrent resolutions.
type Catalog struct {
	items     map[string]*Item
	profiles  map[string]*Profile
	locations map[string]*Location
}

// NewCatalog returns an empty Catalog.
//
// Postcondition: all internal maps are initialised.
func NewCatalog() *Catalog {
	return &Catalog{
		items:     make(map[string]*Item),
		profiles:  make(map[string]*Profile),
		locations: make(map[string]*Location),
	}
}

// RegisterItem adds i to the catalog.
//
// Precondition: i must not be nil.
// Postcondition: Item(i.ID) returns (i, true); returns error if i.ID is already registered.
func (c *Catalog) RegisterItem(i *Item) error {
	if _, exists := c.items[i.ID]; exists {
		return fmt.Errorf("fishing: Catalog.RegisterItem: item ID %q already registered", i.ID)
	}
	c.items[i.ID] = i
	return nil
}

// RegisterProfile adds p to the catalog.
//
// Precondition: p must not be nil.
// Postcondition: Profile(p.ID) returns (p, true); returns error if p.ID is already registered.
func (c *Catalog) RegisterProfile(p *Profile) error {
	if _, exists := c.profiles[p.ID]; exists {
		return fmt.Errorf("fishing: Catalog.RegisterProfile: profile ID %q already registered", p.ID)
	}
	c.profiles[p.ID] = p
	return nil
}

// AddLocation resolves every candidate of raw against the catalog and stores
// the resulting Location.
//
// Precondition: all items and profiles have been registered.
// Postcondition: Location(raw.ID) returns the resolved location; returns error
// if raw.ID is empty or already registered.
func (c *Catalog) AddLocation(raw RawLocation) (*Location, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("fishing: Catalog.AddLocation: location ID must not be empty")
	}
	if _, exists := c.locations[raw.ID]; exists {
		return nil, fmt.Errorf("fishing: Catalog.AddLocation: location ID %q already registered", raw.ID)
	}
	loc := &Location{
		ID:         raw.ID,
		Areas:      append([]string(nil), raw.Areas...),
		Candidates: make([]Candidate, 0, len(raw.Candidates)),
	}
	for _, rc := range raw.Candidates {
		cand := Resolve(rc, c)
		cand.LocationID = raw.ID
		loc.Candidates = append(loc.Candidates, cand)
	}
	c.locations[raw.ID] = loc
	return loc, nil
}

// Item returns the Item for id and whether it was found.
func (c *Catalog) Item(id string) (*Item, bool) {
	i, ok := c.items[id]
	return i, ok
}

// Profile returns the Profile for the item id and whether it was found.
func (c *Catalog) Profile(id string) (*Profile, bool) {
	p, ok := c.profiles[id]
	return p, ok
}

// Location returns the Location for id and whether it was found.
func (c *Catalog) Location(id string) (*Location, bool) {
	l, ok := c.locations[id]
	return l, ok
}

// Default returns the Default location, if one was loaded.
func (c *Catalog) Default() (*Location, bool) {
	return c.Location(DefaultLocationID)
}

// LocationIDs returns every location ID in ascending order.
func (c *Catalog) LocationIDs() []string {
	ids := make([]string, 0, len(c.locations))
	for id := range c.locations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Items returns every registered item ordered by ID.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, i := range c.items {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Item) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
