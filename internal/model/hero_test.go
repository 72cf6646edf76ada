package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHero_Defaults(t *testing.T) {
	h := NewHero("Aria")

	assert.Equal(t, "Aria", h.Name)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Heroes", h.Faction)
	assert.Equal(t, 10, h.HPMax)
	assert.Equal(t, 10, h.HPCurrent)
	assert.Equal(t, 0, h.TempHP)
	assert.NotNil(t, h.Conditions)
	assert.Empty(t, h.Conditions)
}

func TestHero_ApplyDamage(t *testing.T) {
	tests := []struct {
		name      string
		hp, temp  int
		amount    int
		wantHP    int
		wantTemp  int
		wantDying bool
	}{
		{name: "temp absorbs all", hp: 10, temp: 5, amount: 3, wantHP: 10, wantTemp: 2},
		{name: "temp then hp", hp: 10, temp: 5, amount: 8, wantHP: 7, wantTemp: 0},
		{name: "no temp", hp: 10, temp: 0, amount: 4, wantHP: 6, wantTemp: 0},
		{name: "exact kill", hp: 10, temp: 0, amount: 10, wantHP: 0, wantDying: true},
		{name: "overkill floors at zero", hp: 10, temp: 2, amount: 50, wantHP: 0, wantDying: true},
		{name: "zero is no-op", hp: 10, temp: 2, amount: 0, wantHP: 10, wantTemp: 2},
		{name: "negative is no-op", hp: 10, temp: 2, amount: -5, wantHP: 10, wantTemp: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHero("Aria")
			h.HPCurrent = tt.hp
			h.TempHP = tt.temp

			h.ApplyDamage(tt.amount)

			assert.Equal(t, tt.wantHP, h.HPCurrent)
			assert.Equal(t, tt.wantTemp, h.TempHP)
			assert.Equal(t, tt.wantDying, h.HasCondition(ConditionDying))
			assert.Equal(t, tt.wantDying, h.IsDying())
		})
	}
}

func TestHero_ApplyDamage_RemovedEqualsMin(t *testing.T) {
	for temp := 0; temp <= 6; temp++ {
		for hp := 1; hp <= 6; hp++ {
			for amount := 1; amount <= 15; amount++ {
				h := NewHero("Aria")
				h.HPMax = 6
				h.HPCurrent = hp
				h.TempHP = temp

				h.ApplyDamage(amount)

				removed := (temp + hp) - (h.TempHP + h.HPCurrent)
				assert.Equal(t, min(amount, temp+hp), removed, "temp=%d hp=%d amount=%d", temp, hp, amount)
				assert.GreaterOrEqual(t, h.TempHP, 0)
				assert.GreaterOrEqual(t, h.HPCurrent, 0)
			}
		}
	}
}

func TestHero_DyingClearedWhenAboveZero(t *testing.T) {
	h := NewHero("Aria")
	h.ApplyDamage(10)
	assert.True(t, h.HasCondition(ConditionDying))

	h.ApplyHealing(3)
	assert.Equal(t, 3, h.HPCurrent)
	assert.False(t, h.HasCondition(ConditionDying))

	// Урон, после которого HP > 0, тоже снимает Dying
	h.AddCondition(ConditionDying)
	h.ApplyDamage(1)
	assert.Equal(t, 2, h.HPCurrent)
	assert.False(t, h.HasCondition(ConditionDying))
}

func TestHero_ApplyHealing(t *testing.T) {
	h := NewHero("Aria")
	h.HPCurrent = 4
	h.TempHP = 3

	h.ApplyHealing(3)
	assert.Equal(t, 7, h.HPCurrent)
	assert.Equal(t, 3, h.TempHP, "healing never touches temp HP")

	h.ApplyHealing(100)
	assert.Equal(t, 10, h.HPCurrent, "clamped to max")

	h.ApplyHealing(0)
	h.ApplyHealing(-2)
	assert.Equal(t, 10, h.HPCurrent)
}

func TestHero_SetTempHP(t *testing.T) {
	h := NewHero("Aria")

	h.SetTempHP(5)
	assert.Equal(t, 5, h.TempHP)

	h.SetTempHP(3)
	assert.Equal(t, 3, h.TempHP, "replaces, not additive")

	h.SetTempHP(-4)
	assert.Equal(t, 0, h.TempHP)

	assert.Equal(t, 10, h.EffectiveHP())
	h.SetTempHP(4)
	assert.Equal(t, 14, h.EffectiveHP())
}

func TestHero_Conditions(t *testing.T) {
	h := NewHero("Aria")

	h.AddCondition("Prone")
	h.AddCondition("  Prone ")
	h.AddCondition("Dazed")
	h.AddCondition("   ")
	assert.Equal(t, []string{"Prone", "Dazed"}, h.Conditions)

	h.RemoveCondition("Grappled")
	assert.Equal(t, []string{"Prone", "Dazed"}, h.Conditions)

	h.RemoveCondition(" Prone")
	assert.Equal(t, []string{"Dazed"}, h.Conditions)
}

func TestHero_StatusBands(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		hp           int
		wantBloodied bool
		wantCritical bool
		wantStatus   Status
	}{
		{hp: 20, wantStatus: StatusHealthy},
		{hp: 11, wantStatus: StatusHealthy},
		{hp: 10, wantBloodied: true, wantStatus: StatusBloodied},
		{hp: 6, wantBloodied: true, wantStatus: StatusBloodied},
		{hp: 5, wantCritical: true, wantStatus: StatusCritical},
		{hp: 1, wantCritical: true, wantStatus: StatusCritical},
		{hp: 0, wantStatus: StatusDying},
	}

	for _, tt := range tests {
		h := NewHero("Aria")
		h.HPMax = 20
		h.HPCurrent = tt.hp

		assert.Equal(t, tt.wantBloodied, h.IsBloodied(th), "hp=%d bloodied", tt.hp)
		assert.Equal(t, tt.wantCritical, h.IsCritical(th), "hp=%d critical", tt.hp)
		assert.Equal(t, tt.wantStatus, h.Status(th), "hp=%d status", tt.hp)
	}
}

func TestHero_StatusZeroMax(t *testing.T) {
	h := NewHero("Ghost")
	h.HPMax = 0
	h.HPCurrent = 0

	assert.False(t, h.IsBloodied(DefaultThresholds()))
	assert.False(t, h.IsCritical(DefaultThresholds()))
}

func TestHero_Reset(t *testing.T) {
	h := NewHero("Aria")
	h.ApplyDamage(10)
	h.SetTempHP(3)
	h.AddCondition("Prone")

	h.Reset()

	assert.Equal(t, 10, h.HPCurrent)
	assert.Equal(t, 0, h.TempHP)
	assert.Empty(t, h.Conditions)
}
