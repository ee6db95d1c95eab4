package fishing

import "strings"

// RandomLocationPrefix introduces a reward that picks a random fish from
// another location. Such candidates are never expanded.
const RandomLocationPrefix = "LOCATION_FISH"

// RawCandidate is a catch outcome as declared by content, before its reward
// references are linked to items and profiles.
type RawCandidate struct {
	// RewardIDs holds one reward, or several when the catch picks one of them
	// at random.
	RewardIDs []string
	// Chance is the base selection chance; content defaults it to 1.
	Chance float64
	// Area is the sub-area ID; "" places the candidate in the none bucket.
	Area       string
	Precedence int

	Boss             bool
	RequireMagicBait bool
	// SetFlagOnCatch is non-empty for one-time-only catches.
	SetFlagOnCatch string
	Condition      Condition
	Season         string

	ChanceModifiers    []ChanceModifier
	ChanceModifierMode ModifierMode

	IgnoreProfileRequirements bool
	ApplyDailyLuck            bool
	// CuriosityLureBuff, when non-nil and >= 0, is added to low chances while
	// the curiosity lure is equipped. Otherwise low chances are rescaled.
	CuriosityLureBuff *float64
}

// Candidate is a RawCandidate whose rewards have been resolved against a
// Catalog. Candidates are immutable once resolved.
type Candidate struct {
	RawCandidate

	// LocationID is the location that declared the candidate. Set by
	// Catalog.AddLocation; empty for candidates resolved directly.
	LocationID string
	Rewards    []*Item
	// Profile belongs to the first reward, when that reward is fishable.
	Profile *Profile
	// RandomPick is set when the reward is a random fish from RandomLocation.
	RandomPick     bool
	RandomLocation string
	// Unresolved is set when any reward ID is unknown to the catalog.
	Unresolved bool
}

// ItemSource looks up reward items and their catchable profiles by item ID.
type ItemSource interface {
	Item(id string) (*Item, bool)
	Profile(id string) (*Profile, bool)
}

// ParseRewardIDs splits a declared reward string into reward IDs.
// "a|b|c" is a random pick between a, b and c. A LOCATION_FISH placeholder is
// kept whole.
func ParseRewardIDs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, RandomLocationPrefix) {
		return []string{raw}
	}
	var ids []string
	for _, id := range strings.Split(raw, "|") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Resolve links raw against src and returns the resolved Candidate.
//
// Postcondition: Unresolved is true iff raw has no rewards or any reward ID is
// unknown to src; RandomPick is true iff the reward is a LOCATION_FISH
// placeholder. Neither case is an error.
func Resolve(raw RawCandidate, src ItemSource) Candidate {
	c := Candidate{RawCandidate: raw}
	c.RewardIDs = append([]string(nil), raw.RewardIDs...)
	c.ChanceModifiers = append([]ChanceModifier(nil), raw.ChanceModifiers...)

	if len(raw.RewardIDs) == 1 && strings.HasPrefix(raw.RewardIDs[0], RandomLocationPrefix) {
		c.RandomPick = true
		if fields := strings.Fields(raw.RewardIDs[0]); len(fields) > 1 {
			c.RandomLocation = fields[1]
		}
		return c
	}
	if len(raw.RewardIDs) == 0 {
		c.Unresolved = true
		return c
	}

	for _, id := range raw.RewardIDs {
		item, ok := src.Item(id)
		if !ok {
			c.Unresolved = true
			continue
		}
		c.Rewards = append(c.Rewards, item)
	}
	if p, ok := src.Profile(raw.RewardIDs[0]); ok {
		c.Profile = p
	}
	return c
}

// PrimaryID returns the ID of the first declared reward.
func (c Candidate) PrimaryID() string {
	if len(c.RewardIDs) == 0 {
		return ""
	}
	return c.RewardIDs[0]
}

// Name returns a display name: the first reward's name, or its ID when the
// reward could not be resolved.
func (c Candidate) Name() string {
	if len(c.Rewards) > 0 {
		return c.Rewards[0].Name
	}
	return c.PrimaryID()
}
