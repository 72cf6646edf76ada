package combat

import "github.com/nimblegm/combattracker/internal/model"

// DamageHero applies damage to h (temp HP first). A concentrating hero
// triggers the concentration hook.
func (m *CombatManager) DamageHero(h *model.Hero, amount int) error {
	hpBefore, tempBefore := h.HPCurrent, h.TempHP
	h.ApplyDamage(amount)

	if m.cfg.LogDamageEvents {
		m.log("Hero %s takes %d damage (HP %d→%d, Temp %d→%d)",
			h.Name, amount, hpBefore, h.HPCurrent, tempBefore, h.TempHP)
	}
	if h.IsDying() && m.cfg.LogDeaths {
		m.log("⚠ Hero %s is DYING!", h.Name)
	}
	if h.Concentrating {
		m.notifyConcentration(h)
	}
	return m.changed()
}

// HealHero restores HP up to the hero's max.
func (m *CombatManager) HealHero(h *model.Hero, amount int) error {
	before := h.HPCurrent
	h.ApplyHealing(amount)

	if m.cfg.LogHealEvents {
		m.log("Hero %s heals %d HP (%d→%d)", h.Name, amount, before, h.HPCurrent)
	}
	return m.changed()
}

// SetHeroTempHP replaces the hero's temp HP.
func (m *CombatManager) SetHeroTempHP(h *model.Hero, amount int) error {
	h.SetTempHP(amount)
	if m.cfg.LogConditionChanges {
		m.log("Hero %s gains %d temporary HP.", h.Name, amount)
	}
	return m.changed()
}

// AddHeroCondition adds cond to h.
func (m *CombatManager) AddHeroCondition(h *model.Hero, cond string) error {
	h.AddCondition(cond)
	if m.cfg.LogConditionChanges {
		m.log("Hero %s gains condition: %s", h.Name, cond)
	}
	return m.changed()
}

// RemoveHeroCondition removes cond from h.
func (m *CombatManager) RemoveHeroCondition(h *model.Hero, cond string) error {
	h.RemoveCondition(cond)
	if m.cfg.LogConditionChanges {
		m.log("Hero %s loses condition: %s", h.Name, cond)
	}
	return m.changed()
}

// DamageMonster applies damage to mon, handling the last-stand and death
// transitions.
func (m *CombatManager) DamageMonster(mon *model.MonsterInstance, amount int) error {
	hpBefore, tempBefore := mon.HPCurrent, mon.TempHP
	wasLastStand, wasDead := mon.LastStandTriggered, mon.Dead
	mon.ApplyDamage(amount)

	if m.cfg.LogDamageEvents {
		m.log("Monster %s takes %d damage (HP %d→%d, Temp %d→%d)",
			mon.Name, amount, hpBefore, mon.HPCurrent, tempBefore, mon.TempHP)
	}
	if !wasLastStand && mon.IsLastStand() && m.cfg.LogLastStandTriggers {
		m.log("🔥 %s triggers LAST STAND (%d HP)!", mon.Name, mon.HPCurrent)
	}
	if !wasDead && mon.IsDead() && m.cfg.LogDeaths {
		m.log("💀 Monster %s is DEAD.", mon.Name)
	}
	if mon.Concentrating && !wasDead {
		m.notifyConcentration(mon)
	}
	return m.changed()
}

// HealMonster restores HP up to the monster's max. The dead stay dead.
func (m *CombatManager) HealMonster(mon *model.MonsterInstance, amount int) error {
	before := mon.HPCurrent
	mon.ApplyHealing(amount)

	if m.cfg.LogHealEvents {
		m.log("Monster %s heals %d HP (%d→%d)", mon.Name, amount, before, mon.HPCurrent)
	}
	return m.changed()
}

// SetMonsterTempHP replaces the monster's temp HP.
func (m *CombatManager) SetMonsterTempHP(mon *model.MonsterInstance, amount int) error {
	mon.SetTempHP(amount)
	if m.cfg.LogConditionChanges {
		m.log("Monster %s gains %d temporary HP.", mon.Name, amount)
	}
	return m.changed()
}

// AddMonsterCondition adds cond to mon.
func (m *CombatManager) AddMonsterCondition(mon *model.MonsterInstance, cond string) error {
	mon.AddCondition(cond)
	if m.cfg.LogConditionChanges {
		m.log("Monster %s gains condition: %s", mon.Name, cond)
	}
	return m.changed()
}

// RemoveMonsterCondition removes cond from mon.
func (m *CombatManager) RemoveMonsterCondition(mon *model.MonsterInstance, cond string) error {
	mon.RemoveCondition(cond)
	if m.cfg.LogConditionChanges {
		m.log("Monster %s loses condition: %s", mon.Name, cond)
	}
	return m.changed()
}
