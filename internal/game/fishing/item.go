package fishing

import (
	"errors"
	"fmt"
	"slices"
)

// TagLegendary marks a legendary fish, which pays five times the experience.
const TagLegendary = "fish_legendary"

// Item is a base reward record.
type Item struct {
	ID    string
	Name  string
	Price int
	Tags  []string
}

// HasTag reports whether the item carries tag.
func (i *Item) HasTag(tag string) bool {
	return slices.Contains(i.Tags, tag)
}

// Legendary reports whether the item is tagged as a legendary fish.
func (i *Item) Legendary() bool {
	return i.HasTag(TagLegendary)
}

// Validate checks that the Item satisfies its invariants.
//
// Precondition: i is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (i *Item) Validate() error {
	var errs []error
	if i.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if i.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if i.Price < 0 {
		errs = append(errs, errors.New("Price must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %w", i.ID, errors.Join(errs...))
	}
	return nil
}
