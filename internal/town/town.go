// Package town generates the settlement: a settlement entity with district
// children, and the characters that live in them. District desirability is
// sampled from layered simplex noise so neighboring districts form coherent
// good and bad ends of town, and residents are assigned with probability
// proportional to desirability.
package town

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/relationship"
	"github.com/talgya/townlife/internal/rng"
	"github.com/talgya/townlife/internal/stats"
	"github.com/talgya/townlife/internal/traits"
)

// Settlement marks the root town entity. Districts are its children.
type Settlement struct {
	ecs.TagComponent
	Name string
}

// ToMap serializes the settlement for downstream logging.
func (s *Settlement) ToMap() map[string]any {
	return map[string]any{"name": s.Name}
}

// District marks a neighborhood entity parented to the settlement.
type District struct {
	ecs.TagComponent
	Name string
	// Desirability in (0, 1), sampled from noise at generation time. Higher
	// values attract more residents.
	Desirability float64
}

// ToMap serializes the district for downstream logging.
func (d *District) ToMap() map[string]any {
	return map[string]any{"name": d.Name, "desirability": d.Desirability}
}

// Resident records which district a character lives in.
type Resident struct {
	District *ecs.GameObject
}

// ToMap serializes the residence for downstream logging.
func (r *Resident) ToMap() map[string]any {
	return map[string]any{"district": r.District.UID()}
}

// Character holds a character's identity.
type Character struct {
	FirstName string
	LastName  string
}

// FullName returns the character's display name.
func (c *Character) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ToMap serializes the character for downstream logging.
func (c *Character) ToMap() map[string]any {
	return map[string]any{"first_name": c.FirstName, "last_name": c.LastName}
}

// Sociability is a character stat in [0, 100] governing how often the
// character seeks out social contact.
type Sociability struct {
	stat stats.Stat
}

// NewSociability creates a sociability stat with the given base value.
func NewSociability(base float64) *Sociability {
	return &Sociability{stat: stats.NewBounded(base, 0, 100)}
}

// StatName implements stats.Provider.
func (s *Sociability) StatName() string { return "sociability" }

// Stat implements stats.Provider.
func (s *Sociability) Stat() *stats.Stat { return &s.stat }

// OnAdd registers the stat with the owner's tracker.
func (s *Sociability) OnAdd(g *ecs.GameObject) { stats.RegisterProvider(g, s) }

// OnRemove unregisters the stat from the owner's tracker.
func (s *Sociability) OnRemove(g *ecs.GameObject) { stats.UnregisterProvider(g, s) }

// ToMap serializes the stat for downstream logging.
func (s *Sociability) ToMap() map[string]any { return s.stat.ToMap() }

// GenConfig holds town generation parameters.
type GenConfig struct {
	Name       string // Settlement name
	Districts  int    // Number of district children
	Population int    // Number of characters to spawn
}

// DefaultGenConfig returns a small town suitable for quick runs.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Name:       "Brookside",
		Districts:  4,
		Population: 12,
	}
}

var districtNames = []string{
	"Old Quarter", "Riverside", "Hillcrest", "Market Row",
	"The Commons", "Lantern Street", "Foundry Yard", "Garden Walk",
}

var firstNames = []string{
	"Ada", "Bram", "Cora", "Dorian", "Edith", "Felix",
	"Greta", "Hugo", "Iris", "Jasper", "Lena", "Milo",
}

var lastNames = []string{
	"Ashford", "Birch", "Caldwell", "Dunmore", "Ellery", "Fenwick",
	"Grady", "Holloway", "Ingram", "Juniper", "Kestrel", "Loxley",
}

// Generate spawns the settlement, its districts, and the starting population,
// returning the settlement entity. Characters get identity, residence, stat
// and trait trackers, a sociability stat, and an empty relationship tracker;
// they form no relationships here, that is the social systems' job.
func Generate(w *ecs.World, cfg GenConfig, source *rng.Source) (*ecs.GameObject, error) {
	if cfg.Districts < 1 {
		return nil, fmt.Errorf("town needs at least one district, got %d", cfg.Districts)
	}

	settlement := w.Spawn(cfg.Name, &Settlement{Name: cfg.Name})

	noise := opensimplex.NewNormalized(source.Seed())
	districts := make([]*ecs.GameObject, 0, cfg.Districts)
	weights := make([]float64, 0, cfg.Districts)
	for i := 0; i < cfg.Districts; i++ {
		name := districtNames[i%len(districtNames)]
		if i >= len(districtNames) {
			name = fmt.Sprintf("%s %d", name, i/len(districtNames)+1)
		}
		desirability := districtDesirability(noise, i)
		d := w.Spawn(name, &District{Name: name, Desirability: desirability})
		settlement.AddChild(d)
		districts = append(districts, d)
		weights = append(weights, desirability)
	}

	for i := 0; i < cfg.Population; i++ {
		first := firstNames[source.IntRange(0, len(firstNames))]
		last := lastNames[source.IntRange(0, len(lastNames))]

		home := districts[0]
		if pick := source.WeightedChoice(weights); pick >= 0 {
			home = districts[pick]
		}

		character := w.Spawn(
			first+" "+last,
			stats.NewStats(),
			traits.NewTraits(),
			relationship.NewRelationships(),
			NewSociability(float64(source.IntRange(20, 81))),
			&Character{FirstName: first, LastName: last},
			&Resident{District: home},
		)
		home.AddChild(character)
	}

	return settlement, nil
}

// districtDesirability samples layered noise along a line, one sample per
// district. Multiple octaves keep adjacent districts correlated without being
// identical. The result is clamped away from zero so every district keeps a
// nonzero chance of attracting residents.
func districtDesirability(noise opensimplex.Noise, index int) float64 {
	x := float64(index)
	total := 0.0
	amplitude := 1.0
	frequency := 0.35
	maxVal := 0.0

	for i := 0; i < 3; i++ {
		total += noise.Eval2(x*frequency, float64(i)) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		frequency *= 2
	}

	desirability := total / maxVal
	if desirability < 0.05 {
		desirability = 0.05
	}
	return desirability
}

// Characters returns every character entity in the world, in spawn order.
func Characters(w *ecs.World) []*ecs.GameObject {
	var out []*ecs.GameObject
	for g := range w.Each(ecs.ID[*Character]()) {
		out = append(out, g)
	}
	return out
}
