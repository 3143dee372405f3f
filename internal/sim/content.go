package sim

import (
	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/relationship"
	"github.com/talgya/townlife/internal/stats"
	"github.com/talgya/townlife/internal/traits"
)

// DefaultTraits returns the built-in trait library.
func DefaultTraits() *traits.Library {
	library := traits.NewLibrary()

	library.Register(&traits.Trait{
		Name:        "gregarious",
		Description: "Seeks out company at every opportunity",
		Effects: []traits.StatEffect{
			{Stat: "sociability", Modifier: stats.Modifier{Value: 20, Kind: stats.Flat}},
		},
		Conflicts: []string{"recluse"},
	})
	library.Register(&traits.Trait{
		Name:        "recluse",
		Description: "Prefers a closed door and a quiet evening",
		Effects: []traits.StatEffect{
			{Stat: "sociability", Modifier: stats.Modifier{Value: -25, Kind: stats.Flat}},
		},
		Conflicts: []string{"gregarious"},
	})
	library.Register(&traits.Trait{
		Name:        "charming",
		Description: "Leaves a good impression without trying",
		Conflicts:   []string{"grumpy"},
	})
	library.Register(&traits.Trait{
		Name:        "grumpy",
		Description: "Finds fault in most things and says so",
		Effects: []traits.StatEffect{
			{Stat: "sociability", Modifier: stats.Modifier{Value: -5, Kind: stats.Flat}},
		},
		Conflicts: []string{"charming"},
	})
	library.Register(&traits.Trait{
		Name:        "kind",
		Description: "Remembers birthdays and returns borrowed tools",
	})

	return library
}

// DefaultSocialRules returns the built-in social rule library. Rules read
// trait state on either endpoint and contribute modifiers to the relationship
// entity's stats.
func DefaultSocialRules() *relationship.SocialRuleLibrary {
	library := relationship.NewSocialRuleLibrary()

	library.Add(relationship.StatRule("charmed-by-target",
		func(owner, target, rel *ecs.GameObject) bool {
			return traits.HasTrait(target, "charming")
		},
		map[string]stats.Modifier{
			"reputation": {Value: 10, Kind: stats.Flat},
			"romance":    {Value: 12, Kind: stats.Flat},
		}))

	library.Add(relationship.StatRule("grumpy-owner",
		func(owner, target, rel *ecs.GameObject) bool {
			return traits.HasTrait(owner, "grumpy")
		},
		map[string]stats.Modifier{
			"reputation": {Value: -10, Kind: stats.Flat},
		}))

	library.Add(relationship.StatRule("kind-target",
		func(owner, target, rel *ecs.GameObject) bool {
			return traits.HasTrait(target, "kind")
		},
		map[string]stats.Modifier{
			"reputation": {Value: 6, Kind: stats.Flat},
		}))

	library.Add(relationship.StatRule("kindred-spirits",
		func(owner, target, rel *ecs.GameObject) bool {
			return sharesTrait(owner, target)
		},
		map[string]stats.Modifier{
			"reputation": {Value: 8, Kind: stats.Flat},
		}))

	return library
}

// sharesTrait reports whether the two entities hold at least one trait in
// common.
func sharesTrait(a, b *ecs.GameObject) bool {
	trackerA, ok := ecs.Try[*traits.Traits](a)
	if !ok {
		return false
	}
	trackerB, ok := ecs.Try[*traits.Traits](b)
	if !ok {
		return false
	}
	for _, name := range trackerA.Names() {
		if trackerB.Has(name) {
			return true
		}
	}
	return false
}
