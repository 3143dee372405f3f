package relationship

import (
	"sort"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/stats"
)

// SocialRule derives relationship modifiers from the state of the two
// endpoints. A rule's contributions are always tagged with the rule itself as
// their modifier source, so stripping the rule from a relationship needs no
// per-modifier bookkeeping.
type SocialRule struct {
	// Name identifies the rule in logs and serialized output.
	Name string
	// Check reports whether the rule's effects apply to the relationship.
	Check func(owner, target, rel *ecs.GameObject) bool
	// Apply adds the rule's modifiers to the relationship's stats. Every
	// modifier it adds must carry the rule as its Source.
	Apply func(rule *SocialRule, rel *ecs.GameObject)
}

// StatRule builds a rule from a precondition and a set of stat adjustments,
// covering the common case where a rule only contributes modifiers.
func StatRule(name string, check func(owner, target, rel *ecs.GameObject) bool, effects map[string]stats.Modifier) *SocialRule {
	// Deterministic application order regardless of map iteration.
	names := make([]string, 0, len(effects))
	for stat := range effects {
		names = append(names, stat)
	}
	sort.Strings(names)

	return &SocialRule{
		Name:  name,
		Check: check,
		Apply: func(rule *SocialRule, rel *ecs.GameObject) {
			tracker, ok := ecs.Try[*stats.Stats](rel)
			if !ok {
				return
			}
			for _, statName := range names {
				stat, ok := tracker.Get(statName)
				if !ok {
					continue
				}
				m := effects[statName]
				m.Source = rule
				stat.AddModifier(m)
			}
		},
	}
}

// Remove strips every modifier this rule contributed to the relationship.
func (r *SocialRule) Remove(rel *ecs.GameObject) {
	if tracker, ok := ecs.Try[*stats.Stats](rel); ok {
		tracker.RemoveModifiersFromSource(r)
	}
}

// SocialRuleLibrary is the resource holding the active rule set, evaluated in
// registration order.
type SocialRuleLibrary struct {
	rules []*SocialRule
}

// NewSocialRuleLibrary creates an empty rule library.
func NewSocialRuleLibrary() *SocialRuleLibrary {
	return &SocialRuleLibrary{}
}

// Add appends a rule to the active set. Rules registered after relationships
// already exist only affect those relationships on their next re-evaluation.
func (l *SocialRuleLibrary) Add(rule *SocialRule) {
	l.rules = append(l.rules, rule)
}

// Remove unregisters the named rule from the active set. Existing
// relationships keep its modifiers until re-evaluated.
func (l *SocialRuleLibrary) Remove(name string) bool {
	for i, rule := range l.rules {
		if rule.Name == name {
			l.rules = append(l.rules[:i], l.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Rules returns the active rules in registration order.
func (l *SocialRuleLibrary) Rules() []*SocialRule {
	out := make([]*SocialRule, len(l.rules))
	copy(out, l.rules)
	return out
}

// applyMatching evaluates every rule against a fresh relationship and applies
// the ones whose precondition holds.
func (l *SocialRuleLibrary) applyMatching(owner, target, rel *ecs.GameObject) {
	for _, rule := range l.rules {
		if rule.Check == nil || rule.Apply == nil {
			continue
		}
		if rule.Check(owner, target, rel) {
			rule.Apply(rule, rel)
		}
	}
}

// reevaluate strips every rule-sourced modifier from the relationship, then
// re-applies the rules that currently match. Stripping keys on the source
// type rather than the registered set, so modifiers left behind by since
// unregistered rules are cleared too.
func (l *SocialRuleLibrary) reevaluate(rel *ecs.GameObject) error {
	r, err := ecs.Get[*Relationship](rel)
	if err != nil {
		return err
	}

	if tracker, ok := ecs.Try[*stats.Stats](rel); ok {
		tracker.EachStat(func(name string, stat *stats.Stat) {
			for _, m := range stat.Modifiers() {
				if _, fromRule := m.Source.(*SocialRule); fromRule {
					stat.RemoveModifier(m)
				}
			}
		})
	}

	l.applyMatching(r.Owner, r.Target, rel)
	return nil
}
