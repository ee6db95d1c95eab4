package fishing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

const tolerance = 1e-9

func rodProfile(id string) *fishing.Profile {
	return &fishing.Profile{
		ID:         id,
		Kind:       fishing.ProfileRod,
		Difficulty: 50,
		MinSize:    5,
		MaxSize:    20,
		MaxDepth:   4,
		SpawnMult:  0.5,
		DepthMult:  0.1,
		Times:      []int{600, 1900},
		Weather:    fishing.ProfileWeatherBoth,
	}
}

func trapProfile(id string, chance float64) *fishing.Profile {
	return &fishing.Profile{ID: id, Kind: fishing.ProfileTrap, Chance: chance}
}

func baseContext() fishing.Context {
	return fishing.Context{
		Season:     fishing.SeasonSpring,
		Weather:    fishing.WeatherSunny,
		Time:       1200,
		Depth:      4,
		Profession: fishing.ProfessionNone,
	}
}

func rodCandidate(p *fishing.Profile) fishing.Candidate {
	return fishing.Candidate{
		RawCandidate: fishing.RawCandidate{RewardIDs: []string{p.ID}, Chance: 1},
		Rewards:      []*fishing.Item{{ID: p.ID, Name: p.ID, Price: 100}},
		Profile:      p,
	}
}

func newCatalog(t *testing.T) *fishing.Catalog {
	t.Helper()
	c := fishing.NewCatalog()
	require.NoError(t, c.RegisterItem(&fishing.Item{ID: "carp", Name: "Carp", Price: 30}))
	require.NoError(t, c.RegisterItem(&fishing.Item{ID: "trash", Name: "Trash", Price: 0}))
	require.NoError(t, c.RegisterItem(&fishing.Item{ID: "crab", Name: "Crab", Price: 100}))
	require.NoError(t, c.RegisterProfile(rodProfile("carp")))
	require.NoError(t, c.RegisterProfile(trapProfile("crab", 0.1)))
	return c
}

func TestParseRewardIDs(t *testing.T) {
	assert.Nil(t, fishing.ParseRewardIDs("  "))
	assert.Equal(t, []string{"carp"}, fishing.ParseRewardIDs("carp"))
	assert.Equal(t, []string{"a", "b", "c"}, fishing.ParseRewardIDs("a| b |c|"))
	assert.Equal(t, []string{"LOCATION_FISH Beach"}, fishing.ParseRewardIDs("LOCATION_FISH Beach"))
}

func TestResolve_LinksRewardsAndProfile(t *testing.T) {
	c := fishing.Resolve(fishing.RawCandidate{RewardIDs: []string{"carp", "trash"}, Chance: 1}, newCatalog(t))
	assert.False(t, c.Unresolved)
	require.Len(t, c.Rewards, 2)
	assert.Equal(t, "Carp", c.Name())
	require.NotNil(t, c.Profile)
	assert.Equal(t, "carp", c.Profile.ID)
}

func TestResolve_UnknownRewardIsUnresolved(t *testing.T) {
	c := fishing.Resolve(fishing.RawCandidate{RewardIDs: []string{"carp", "ghost"}}, newCatalog(t))
	assert.True(t, c.Unresolved)
	assert.Len(t, c.Rewards, 1)

	empty := fishing.Resolve(fishing.RawCandidate{}, newCatalog(t))
	assert.True(t, empty.Unresolved)
	assert.Equal(t, "", empty.Name())
}

func TestResolve_RandomLocationPlaceholder(t *testing.T) {
	c := fishing.Resolve(fishing.RawCandidate{RewardIDs: []string{"LOCATION_FISH Beach BOBBER_X"}}, newCatalog(t))
	assert.True(t, c.RandomPick)
	assert.Equal(t, "Beach", c.RandomLocation)
	assert.Nil(t, c.Profile)
}

func TestResolve_DoesNotAliasRawSlices(t *testing.T) {
	raw := fishing.RawCandidate{RewardIDs: []string{"carp"}}
	c := fishing.Resolve(raw, newCatalog(t))
	raw.RewardIDs[0] = "trash"
	assert.Equal(t, "carp", c.PrimaryID())
}

func TestCatalog_DuplicateRegistration(t *testing.T) {
	c := newCatalog(t)
	assert.Error(t, c.RegisterItem(&fishing.Item{ID: "carp", Name: "Carp"}))
	assert.Error(t, c.RegisterProfile(trapProfile("crab", 0.2)))

	_, err := c.AddLocation(fishing.RawLocation{ID: "Town"})
	require.NoError(t, err)
	_, err = c.AddLocation(fishing.RawLocation{ID: "Town"})
	assert.Error(t, err)
	_, err = c.AddLocation(fishing.RawLocation{})
	assert.Error(t, err)
}

func TestCatalog_AddLocationResolvesCandidates(t *testing.T) {
	c := newCatalog(t)
	loc, err := c.AddLocation(fishing.RawLocation{
		ID:    "Town",
		Areas: []string{"river"},
		Candidates: []fishing.RawCandidate{
			{RewardIDs: []string{"carp"}, Chance: 1, Area: "river"},
			{RewardIDs: []string{"trash"}, Chance: 1},
			{RewardIDs: []string{"ghost"}, Chance: 1, Area: "river"},
		},
	})
	require.NoError(t, err)
	assert.False(t, loc.IsDefault())
	river := loc.AreaCandidates("river")
	require.Len(t, river, 2)
	assert.NotNil(t, river[0].Profile)
	assert.True(t, river[1].Unresolved)
	assert.Len(t, loc.AreaCandidates(""), 1)
	assert.Equal(t, []string{"Town"}, c.LocationIDs())

	_, ok := c.Default()
	assert.False(t, ok)
}

func TestProfile_Validate(t *testing.T) {
	require.NoError(t, rodProfile("carp").Validate())
	require.NoError(t, trapProfile("crab", 0.35).Validate())

	cases := map[string]*fishing.Profile{
		"no id":           {Kind: fishing.ProfileTrap},
		"unknown kind":    {ID: "x", Kind: "net"},
		"trap chance":     trapProfile("x", 1.5),
		"trap rod fields": {ID: "x", Kind: fishing.ProfileTrap, Chance: 0.1, Difficulty: 40},
	}
	bad := rodProfile("x")
	bad.Difficulty = 120
	cases["difficulty"] = bad
	odd := rodProfile("x")
	odd.Times = []int{600}
	cases["odd times"] = odd
	empty := rodProfile("x")
	empty.Times = []int{1900, 600}
	cases["empty interval"] = empty
	weather := rodProfile("x")
	weather.Weather = "foggy"
	cases["weather"] = weather
	sizes := rodProfile("x")
	sizes.MinSize = 30
	cases["sizes"] = sizes
	fixed := rodProfile("x")
	fixed.Chance = 0.2
	cases["rod chance"] = fixed

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, p.Validate())
		})
	}
}

func TestProfile_Available(t *testing.T) {
	p := rodProfile("carp")
	p.Times = []int{600, 1200, 1800, 2600}
	ctx := baseContext()

	for clock, want := range map[int]bool{559: false, 600: true, 1159: true, 1200: false, 1800: true, 2500: true, 2600: false} {
		ctx.Time = clock
		assert.Equal(t, want, p.Available(ctx), "time %d", clock)
	}

	ctx.Time = 700
	p.Weather = fishing.ProfileWeatherRainy
	assert.False(t, p.Available(ctx))
	for _, w := range []string{fishing.WeatherRain, fishing.WeatherStorm, fishing.WeatherGreenRain, "Rain"} {
		ctx.Weather = w
		assert.True(t, p.Available(ctx), "weather %s", w)
	}
	p.Weather = fishing.ProfileWeatherSunny
	assert.False(t, p.Available(ctx))
	ctx.Weather = fishing.WeatherSnow
	assert.True(t, p.Available(ctx))

	ctx.Time = 300
	assert.True(t, trapProfile("crab", 0.1).Available(ctx))
}

func TestCondition_Clauses(t *testing.T) {
	c := fishing.Condition("LOCATION_SEASON Here spring Fall, WEATHER Here Rain storm,SCRIPT night_only Deep")

	tokens, ok := c.Tokens(fishing.ClauseLocationSeason)
	require.True(t, ok)
	assert.Equal(t, []string{"here", "spring", "fall"}, tokens)

	assert.True(t, c.Allows(fishing.ClauseLocationSeason, "FALL"))
	assert.False(t, c.Allows(fishing.ClauseLocationSeason, "winter"))
	assert.True(t, c.Allows(fishing.ClauseWeather, "storm"))
	assert.False(t, c.Allows(fishing.ClauseWeather, "sunny"))
	assert.True(t, c.Allows(fishing.ClauseFestival, "anything"))

	hook, args, ok := c.Script()
	require.True(t, ok)
	assert.Equal(t, "night_only", hook)
	assert.Equal(t, []string{"Deep"}, args)

	_, _, ok = fishing.Condition("SCRIPT").Script()
	assert.False(t, ok)
	assert.False(t, fishing.Condition("").Has(fishing.ClauseWeather))
	assert.True(t, fishing.Condition(",,garbage,,").Allows(fishing.ClauseWeather, "rain"))
}

func TestApplyModifiers(t *testing.T) {
	cases := []struct {
		name string
		mods []fishing.ChanceModifier
		mode fishing.ModifierMode
		want float64
	}{
		{"none", nil, "bogus", 0.5},
		{"add", []fishing.ChanceModifier{{Amount: 0.1, Op: fishing.OpAdd}}, fishing.ModeStack, 0.6},
		{"subtract", []fishing.ChanceModifier{{Amount: 0.1, Op: "Subtract"}}, "", 0.4},
		{"multiply", []fishing.ChanceModifier{{Amount: 2, Op: fishing.OpMultiply}}, fishing.ModeStack, 1.0},
		{"divide", []fishing.ChanceModifier{{Amount: 4, Op: fishing.OpDivide}}, fishing.ModeStack, 0.125},
		{"set", []fishing.ChanceModifier{{Amount: 0.05, Op: fishing.OpSet}}, fishing.ModeStack, 0.05},
		{"stack in order", []fishing.ChanceModifier{{Amount: 0.1, Op: fishing.OpAdd}, {Amount: 2, Op: fishing.OpMultiply}}, fishing.ModeStack, 1.2},
		{"minimum ignores increase", []fishing.ChanceModifier{{Amount: 0.3, Op: fishing.OpAdd}, {Amount: 0.2, Op: fishing.OpSet}}, fishing.ModeMinimum, 0.2},
		{"maximum ignores decrease", []fishing.ChanceModifier{{Amount: 0.3, Op: fishing.OpSubtract}, {Amount: 0.7, Op: fishing.OpSet}}, "MAXIMUM", 0.7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fishing.ApplyModifiers(0.5, tc.mods, tc.mode)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, tolerance)
		})
	}
}

func TestApplyModifiers_Errors(t *testing.T) {
	_, err := fishing.ApplyModifiers(0.5, []fishing.ChanceModifier{{Amount: 1, Op: "pow"}}, fishing.ModeStack)
	assert.ErrorIs(t, err, fishing.ErrUnknownModifier)

	_, err = fishing.ApplyModifiers(0.5, []fishing.ChanceModifier{{Amount: 1, Op: fishing.OpAdd}}, "average")
	assert.ErrorIs(t, err, fishing.ErrUnknownModifier)

	_, err = fishing.ApplyModifiers(0.5, []fishing.ChanceModifier{{Amount: 0, Op: fishing.OpDivide}}, fishing.ModeStack)
	assert.ErrorIs(t, err, fishing.ErrInvalidModifier)

	assert.ErrorIs(t, fishing.ValidateModifiers([]fishing.ChanceModifier{{Op: "nope"}}, ""), fishing.ErrUnknownModifier)
	assert.NoError(t, fishing.ValidateModifiers([]fishing.ChanceModifier{{Op: "Set"}}, "Minimum"))
}

// TestChance_SingleRodCandidate checks a rod candidate with spawn 0.5, depth
// multiplier 0.1 and max depth 4 cast at depth 4 by a level 0 player.
func TestChance_SingleRodCandidate(t *testing.T) {
	got, err := fishing.Chance(rodCandidate(rodProfile("carp")), baseContext())
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)
}

func TestProfileChance_Formula(t *testing.T) {
	buff := 0.1
	negative := -1.0
	low := rodProfile("low")
	low.SpawnMult = 0.2

	cases := []struct {
		name string
		cand func() fishing.Candidate
		ctx  func(fishing.Context) fishing.Context
		want float64
	}{
		{"depth drop-off", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context { c.Depth = 1; return c }, 0.5 - 3*0.05},
		{"deeper than max depth", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context { c.Depth = 9; return c }, 0.5},
		{"level", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context { c.Level = 10; return c }, 0.7},
		{"cap", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context { c.Level = 30; return c }, 0.9},
		{"training rod", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context { c.Rod = fishing.RodTraining; return c }, 0.55},
		{"targeted bait", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context {
				c.Bait, c.BaitTarget = fishing.BaitTargeted, "carp"
				return c
			}, 0.5 * 4 / 3},
		{"targeted bait elsewhere", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context {
				c.Bait, c.BaitTarget = fishing.BaitTargeted, "eel"
				return c
			}, 0.5},
		{"daily luck ignored", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context { c.DailyLuck = 0.1; return c }, 0.5},
		{"daily luck applied", func() fishing.Candidate {
			c := rodCandidate(rodProfile("carp"))
			c.ApplyDailyLuck = true
			return c
		}, func(c fishing.Context) fishing.Context { c.DailyLuck = 0.1; return c }, 0.6},
		{"curiosity rescale", func() fishing.Candidate { return rodCandidate(low) },
			func(c fishing.Context) fishing.Context { c.Lure = fishing.LureCuriosity; return c }, 0.68*0.2 + 0.085},
		{"curiosity negative buff rescales", func() fishing.Candidate {
			c := rodCandidate(low)
			c.CuriosityLureBuff = &negative
			return c
		}, func(c fishing.Context) fishing.Context { c.Lure = fishing.LureCuriosity; return c }, 0.68*0.2 + 0.085},
		{"curiosity fixed buff", func() fishing.Candidate {
			c := rodCandidate(low)
			c.CuriosityLureBuff = &buff
			return c
		}, func(c fishing.Context) fishing.Context { c.Lure = fishing.LureCuriosity; return c }, 0.3},
		{"curiosity above threshold", func() fishing.Candidate { return rodCandidate(rodProfile("carp")) },
			func(c fishing.Context) fishing.Context { c.Lure = fishing.LureCuriosity; return c }, 0.5},
		{"modifiers", func() fishing.Candidate {
			c := rodCandidate(rodProfile("carp"))
			c.ChanceModifiers = []fishing.ChanceModifier{{Amount: 0.5, Op: fishing.OpMultiply}}
			return c
		}, func(c fishing.Context) fishing.Context { return c }, 0.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fishing.ProfileChance(tc.cand(), tc.ctx(baseContext()))
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, tolerance)
		})
	}
}

func TestChance_ClampsAndScales(t *testing.T) {
	c := rodCandidate(rodProfile("carp"))
	c.Chance = 0.5
	got, err := fishing.Chance(c, baseContext())
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, tolerance)

	c = rodCandidate(rodProfile("carp"))
	c.ChanceModifiers = []fishing.ChanceModifier{{Amount: 3, Op: fishing.OpAdd}}
	got, err = fishing.Chance(c, baseContext())
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	c.ChanceModifiers = []fishing.ChanceModifier{{Amount: 3, Op: fishing.OpSubtract}}
	got, err = fishing.Chance(c, baseContext())
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	item := fishing.Candidate{RawCandidate: fishing.RawCandidate{RewardIDs: []string{"trash"}, Chance: 0.3}}
	got, err = fishing.Chance(item, baseContext())
	require.NoError(t, err)
	assert.Equal(t, 0.3, got)
}

func TestChance_UnknownModifierIsFatal(t *testing.T) {
	c := rodCandidate(rodProfile("carp"))
	c.ChanceModifiers = []fishing.ChanceModifier{{Amount: 1, Op: "teleport"}}
	_, err := fishing.Chance(c, baseContext())
	assert.ErrorIs(t, err, fishing.ErrUnknownModifier)
}

// TestChance_TrapIgnoresContext_Property verifies a trap candidate always
// reports its fixed chance.
func TestChance_TrapIgnoresContext_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fixed := rapid.Float64Range(0, 1).Draw(rt, "chance")
		c := rodCandidate(trapProfile("crab", fixed))
		ctx := fishing.Context{
			Season:     rapid.SampledFrom([]string{"spring", "summer", "fall", "winter"}).Draw(rt, "season"),
			Weather:    rapid.SampledFrom([]string{"sunny", "rain", "storm"}).Draw(rt, "weather"),
			Time:       rapid.IntRange(600, 2600).Draw(rt, "time"),
			Level:      rapid.IntRange(0, 14).Draw(rt, "level"),
			Depth:      rapid.IntRange(0, 5).Draw(rt, "depth"),
			Rod:        rapid.SampledFrom([]string{"training", "iridium"}).Draw(rt, "rod"),
			Lure:       rapid.SampledFrom([]string{"none", "curiosity"}).Draw(rt, "lure"),
			Bait:       fishing.BaitTargeted,
			BaitTarget: "crab",
			DailyLuck:  rapid.Float64Range(-0.1, 0.1).Draw(rt, "luck"),
		}
		got, err := fishing.Chance(c, ctx)
		require.NoError(rt, err)
		assert.Equal(rt, fixed, got)
	})
}
