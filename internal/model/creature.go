package model

import "strings"

// Condition tags the engine itself adds and removes.
const (
	ConditionDying     = "Dying"
	ConditionLastStand = "Last Stand"
)

// Creature is the part of Hero and MonsterInstance the manager's
// notification hooks need.
type Creature interface {
	DisplayName() string
	EffectiveHP() int
	IsConcentrating() bool
}

// Thresholds holds HP-fraction bands for one creature kind.
// Bloodied must be >= Critical for the bands to be meaningful.
type Thresholds struct {
	Bloodied float64
	Critical float64
}

// DefaultThresholds returns the stock bands: bloodied at half, critical at a quarter.
func DefaultThresholds() Thresholds {
	return Thresholds{Bloodied: 0.5, Critical: 0.25}
}

// isCritical: alive and at or under hpMax*Critical.
func (t Thresholds) isCritical(current, hpMax int) bool {
	if hpMax <= 0 {
		return false
	}
	return current > 0 && float64(current) <= float64(hpMax)*t.Critical
}

// isBloodied: alive, at or under hpMax*Bloodied, and above the critical band.
func (t Thresholds) isBloodied(current, hpMax int) bool {
	if hpMax <= 0 {
		return false
	}
	cur := float64(current)
	return current > 0 &&
		cur <= float64(hpMax)*t.Bloodied &&
		cur > float64(hpMax)*t.Critical
}

// Status is the display band of a creature.
type Status int

const (
	StatusHealthy Status = iota
	StatusBloodied
	StatusCritical
	StatusDying
	StatusLastStand
	StatusDead
)

// String returns the human readable name of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "Healthy"
	case StatusBloodied:
		return "Bloodied"
	case StatusCritical:
		return "Critical"
	case StatusDying:
		return "Dying"
	case StatusLastStand:
		return "Last Stand"
	case StatusDead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// addCondition appends cond (trimmed) unless it is empty or already present.
func addCondition(conds []string, cond string) []string {
	cond = strings.TrimSpace(cond)
	if cond == "" || hasCondition(conds, cond) {
		return conds
	}
	return append(conds, cond)
}

// removeCondition drops the first occurrence of cond (trimmed).
func removeCondition(conds []string, cond string) []string {
	cond = strings.TrimSpace(cond)
	for i, c := range conds {
		if c == cond {
			return append(conds[:i], conds[i+1:]...)
		}
	}
	return conds
}

func hasCondition(conds []string, cond string) bool {
	for _, c := range conds {
		if c == cond {
			return true
		}
	}
	return false
}

// nonNil keeps empty lists serialized as [] instead of null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
