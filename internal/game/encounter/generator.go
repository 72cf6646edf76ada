// Package encounter builds random encounters from a monster library.
// Monsters are picked greedily so their levels add up to roughly the
// party's total level scaled by the chosen difficulty tier.
package encounter

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/nimblegm/combattracker/internal/config"
	"github.com/nimblegm/combattracker/internal/model"
)

// Tier is the requested encounter difficulty.
type Tier int

const (
	TierTrivial Tier = iota // below the easy threshold
	TierEasy
	TierMedium
	TierHard
	TierDeadly
)

// Biome selectors besides a concrete biome name.
const (
	BiomeAll    = "all"
	BiomeRandom = "random"
)

// DefaultCount is the suggested monster count without heroes.
const DefaultCount = 3

var (
	// ErrNoCandidates is returned when filtering leaves no usable monster.
	ErrNoCandidates = errors.New("no monsters match the criteria")
	// ErrUnknownTier is returned by ParseTier.
	ErrUnknownTier = errors.New("unknown difficulty tier")
)

var tierNames = [...]string{"trivial", "easy", "medium", "hard", "deadly"}

// String returns the lower-case tier name.
func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "unknown"
	}
	return tierNames[t]
}

// ParseTier parses a tier name, case-insensitively.
func ParseTier(s string) (Tier, error) {
	idx := slices.Index(tierNames[:], strings.ToLower(strings.TrimSpace(s)))
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return Tier(idx), nil
}

// Options selects what Generate builds.
type Options struct {
	Tier Tier
	// Count is the number of monsters; <= 0 uses SuggestedCount.
	Count int
	// Biome is BiomeAll, BiomeRandom or an exact biome name.
	Biome            string
	ExcludeLegendary bool
}

// Generator picks monsters. Not safe for concurrent use (shares rng).
type Generator struct {
	cfg config.Tracker
	rng *rand.Rand
}

// NewGenerator creates a generator using the difficulty thresholds of cfg.
// A nil rng uses the global source.
func NewGenerator(cfg config.Tracker, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, rng: rng}
}

func (g *Generator) intN(n int) int {
	if g.rng == nil {
		return rand.IntN(n)
	}
	return g.rng.IntN(n)
}

// Multiplier returns the level multiplier of t.
func (g *Generator) Multiplier(t Tier) float64 {
	switch t {
	case TierTrivial:
		return g.cfg.EncounterDifficultyEasy * 0.8
	case TierEasy:
		return g.cfg.EncounterDifficultyEasy
	case TierHard:
		return g.cfg.EncounterDifficultyHard
	case TierDeadly:
		return g.cfg.EncounterDifficultyDeadlyMax
	default:
		return g.cfg.EncounterDifficultyMedium
	}
}

// TargetLevels is the level budget for heroes at tier t.
func (g *Generator) TargetLevels(t Tier, heroes []*model.Hero) int {
	return int(float64(PartyTotalLevel(heroes)) * g.Multiplier(t))
}

// PartyTotalLevel sums hero levels, with a floor of 1.
func PartyTotalLevel(heroes []*model.Hero) int {
	total := 0
	for _, h := range heroes {
		total += h.Level
	}
	return max(1, total)
}

// SuggestedCount returns a monster count for a party of partySize at tier t.
func SuggestedCount(t Tier, partySize int) int {
	if partySize <= 0 {
		return DefaultCount
	}
	switch t {
	case TierTrivial:
		return max(1, partySize-2)
	case TierEasy:
		return max(1, partySize-1)
	case TierHard:
		return partySize + 1
	case TierDeadly:
		return partySize + 2
	default:
		return partySize
	}
}

// Biomes returns the distinct non-empty biomes of library, sorted.
func Biomes(library []*model.MonsterTemplate) []string {
	var out []string
	for _, tpl := range library {
		if tpl.Biome != "" && !slices.Contains(out, tpl.Biome) {
			out = append(out, tpl.Biome)
		}
	}
	slices.Sort(out)
	return out
}

type candidate struct {
	tpl   *model.MonsterTemplate
	level int
}

// Generate returns opts.Count templates whose levels approach the party's
// target budget. Templates may repeat.
func (g *Generator) Generate(library []*model.MonsterTemplate, heroes []*model.Hero, opts Options) ([]*model.MonsterTemplate, error) {
	count := opts.Count
	if count <= 0 {
		count = SuggestedCount(opts.Tier, len(heroes))
	}

	pool, err := g.filter(library, opts)
	if err != nil {
		return nil, err
	}

	remaining := g.TargetLevels(opts.Tier, heroes)
	picked := make([]*model.MonsterTemplate, 0, count)

	for i := range count {
		avg := max(1, remaining/(count-i))
		lo := max(1, int(float64(avg)*0.5))
		hi := avg + 1
		if avg > 1 {
			hi = int(float64(avg) * 1.5)
		}

		window := make([]candidate, 0, len(pool))
		for _, c := range pool {
			if c.level >= lo && c.level <= hi {
				window = append(window, c)
			}
		}
		if len(window) == 0 {
			window = pool
		}

		choice := window[g.intN(len(window))]
		picked = append(picked, choice.tpl)
		remaining -= choice.level
	}
	return picked, nil
}

// filter applies the biome and legendary filters and keeps templates
// with a positive integer level.
func (g *Generator) filter(library []*model.MonsterTemplate, opts Options) ([]candidate, error) {
	biome := opts.Biome
	switch biome {
	case "", BiomeAll:
		biome = ""
	case BiomeRandom:
		biomes := Biomes(library)
		if len(biomes) == 0 {
			return nil, fmt.Errorf("%w: library has no biomes", ErrNoCandidates)
		}
		biome = biomes[g.intN(len(biomes))]
	}

	var pool []candidate
	for _, tpl := range library {
		if biome != "" && tpl.Biome != biome {
			continue
		}
		if opts.ExcludeLegendary && tpl.Legendary {
			continue
		}
		level, err := strconv.Atoi(strings.TrimSpace(tpl.Level))
		if err != nil || level <= 0 {
			continue
		}
		pool = append(pool, candidate{tpl: tpl, level: level})
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: biome=%q exclude_legendary=%t", ErrNoCandidates, opts.Biome, opts.ExcludeLegendary)
	}
	return pool, nil
}
