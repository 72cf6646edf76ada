package combat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimblegm/combattracker/internal/config"
	"github.com/nimblegm/combattracker/internal/model"
	"github.com/nimblegm/combattracker/internal/persistence"
	"github.com/nimblegm/combattracker/internal/testutil"
)

// newTestManager creates a manager whose autosave goes to a temp dir.
func newTestManager(t *testing.T, opts ...func(*config.Tracker)) (*CombatManager, *[]string) {
	t.Helper()
	cfg := config.DefaultTracker(t.TempDir())
	for _, opt := range opts {
		opt(&cfg)
	}
	m := NewCombatManager(cfg)

	var logs []string
	m.SetLogFunc(func(msg string) { logs = append(logs, msg) })
	return m, &logs
}

func TestMarkers_GroupColorsAndPerColorNumbers(t *testing.T) {
	palette := []string{"#AA0000", "#00AA00", "#0000AA"}
	m, _ := newTestManager(t, func(c *config.Tracker) { c.MarkerPalette = palette })

	a1, err := m.AddMonsterFromTemplate(testutil.Goblin(), "A")
	require.NoError(t, err)
	a2, err := m.AddMonsterFromTemplate(testutil.Goblin(), "A")
	require.NoError(t, err)
	b1, err := m.AddMonsterFromTemplate(testutil.Goblin(), "B")
	require.NoError(t, err)

	assert.Equal(t, palette[0], a1.MarkerColor)
	assert.Equal(t, palette[0], a2.MarkerColor)
	assert.Equal(t, palette[1], b1.MarkerColor)

	assert.Equal(t, 1, a1.MarkerNumber)
	assert.Equal(t, 2, a2.MarkerNumber)
	assert.Equal(t, 1, b1.MarkerNumber, "numbering is per color, not global")

	assert.Equal(t, map[string]string{"A": palette[0], "B": palette[1]}, m.GroupColorMap())
}

func TestMarkers_PaletteWrapsAndSharedColorSharesSequence(t *testing.T) {
	palette := []string{"#111111", "#222222"}
	m, _ := newTestManager(t, func(c *config.Tracker) { c.MarkerPalette = palette })

	a, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "A")
	b, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "B")
	c, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "C")

	assert.Equal(t, palette[0], c.MarkerColor, "third group wraps to the first color")
	assert.Equal(t, 1, a.MarkerNumber)
	assert.Equal(t, 1, b.MarkerNumber)
	assert.Equal(t, 2, c.MarkerNumber, "different group, same color, same sequence")
}

func TestMarkers_StartNumberAndEmptyPalette(t *testing.T) {
	m, _ := newTestManager(t, func(c *config.Tracker) {
		c.MarkerPalette = nil
		c.MarkerStartNumber = 5
	})

	a, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "")
	b, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "other")

	assert.Equal(t, fallbackMarkerColor, a.MarkerColor)
	assert.Equal(t, fallbackMarkerColor, b.MarkerColor)
	assert.Equal(t, 5, a.MarkerNumber)
	assert.Equal(t, 6, b.MarkerNumber)
}

func TestMarkers_ExplicitValuesKept(t *testing.T) {
	m, _ := newTestManager(t)

	mon := model.NewMonsterInstance(testutil.Goblin())
	mon.MarkerColor = "#123456"
	require.NoError(t, m.AddMonsterInstance(mon))
	assert.Equal(t, "#123456", mon.MarkerColor)
	assert.Equal(t, 1, mon.MarkerNumber)

	fixed := model.NewMonsterInstance(testutil.Goblin())
	fixed.MarkerColor = "#123456"
	fixed.MarkerNumber = 9
	require.NoError(t, m.AddMonsterInstance(fixed))
	assert.Equal(t, 9, fixed.MarkerNumber)

	assert.Equal(t, 10, m.NextMarkerNumberForColor("#123456"))
	assert.Equal(t, 1, m.NextMarkerNumberForColor("#FFFFFF"))
}

func TestMarkers_RemoveDoesNotRenumber(t *testing.T) {
	m, _ := newTestManager(t)

	a, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "A")
	b, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "A")
	c, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "A")

	require.NoError(t, m.RemoveMonster(b))
	assert.Equal(t, 1, a.MarkerNumber)
	assert.Equal(t, 3, c.MarkerNumber)

	d, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "A")
	assert.Equal(t, 4, d.MarkerNumber)

	// удаление неизвестного монстра ничего не делает
	require.NoError(t, m.RemoveMonster(b))
	assert.Len(t, m.Monsters(), 3)
}

func TestMarkers_RebuildOnEncounterLoad(t *testing.T) {
	m, _ := newTestManager(t, func(c *config.Tracker) {
		c.MarkerPalette = []string{"#AA0000", "#00AA00", "#0000AA"}
	})

	mk := func(group, color string, number int) *model.MonsterInstance {
		mon := model.NewMonsterInstance(testutil.Goblin())
		mon.Group = group
		mon.MarkerColor = color
		mon.MarkerNumber = number
		return mon
	}
	enc := &model.Encounter{Name: "Saved", Monsters: []*model.MonsterInstance{
		mk("A", "#00AA00", 3),
		mk("A", "", 3),
		mk("B", "", 0),
	}}
	path := filepath.Join(t.TempDir(), "enc.json")
	require.NoError(t, persistence.SaveEncounter(path, enc))

	require.NoError(t, m.LoadEncounter(path))
	got := m.Monsters()
	require.Len(t, got, 3)

	assert.Equal(t, "#00AA00", got[1].MarkerColor, "group keeps its first seen color")
	assert.Equal(t, 3, got[1].MarkerNumber, "duplicates are preserved")
	assert.Equal(t, "#00AA00", got[2].MarkerColor, "new group takes palette[len(map)]")
	assert.Equal(t, 0, got[2].MarkerNumber, "rebuild never renumbers")
	assert.Equal(t, map[string]string{"A": "#00AA00", "B": "#00AA00"}, m.GroupColorMap())
}

func TestAssignMarkers(t *testing.T) {
	m, _ := newTestManager(t)

	a, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "A")
	b, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "A")
	c, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "B")

	require.NoError(t, m.AssignMarkers([]*model.MonsterInstance{b, c}, "#00FF00", 4))
	assert.Equal(t, 4, b.MarkerNumber)
	assert.Equal(t, 5, c.MarkerNumber)
	assert.Equal(t, "#00FF00", c.MarkerColor)
	assert.Equal(t, 1, a.MarkerNumber)

	require.NoError(t, m.AssignMarkers([]*model.MonsterInstance{a}, "#00FF00", 0))
	assert.Equal(t, 6, a.MarkerNumber)

	require.NoError(t, m.SetMonsterMarker(a, "#000000", -3))
	assert.Equal(t, "#000000", a.MarkerColor)
	assert.Equal(t, 0, a.MarkerNumber)
}

func TestDifficulty_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		levels []string
		want   Difficulty
	}{
		{"no monsters", nil, DifficultyNone},
		{"ratio 0.4", []string{"4"}, DifficultyEasy},
		{"ratio 0.5 is not easy", []string{"2", "3"}, DifficultyMedium},
		{"ratio 0.75 is not medium", []string{"7.5"}, DifficultyHard},
		{"ratio 1.0 is not hard", []string{"10"}, DifficultyDeadly},
		{"ratio 1.25 is deadly", []string{"12", "1/2"}, DifficultyDeadly},
		{"ratio 1.3", []string{"13"}, DifficultyVeryDeadly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t, func(c *config.Tracker) { c.AutosaveEnabled = false })

			for _, lvl := range []int{4, 6} {
				h := model.NewHero("h")
				h.Level = lvl
				require.NoError(t, m.AddHero(h))
			}
			for _, lvl := range tt.levels {
				tpl := testutil.Goblin()
				tpl.Level = lvl
				_, err := m.AddMonsterFromTemplate(tpl, "")
				require.NoError(t, err)
			}

			assert.Equal(t, 10, m.TotalHeroLevels())
			assert.Equal(t, tt.want, m.EncounterDifficultyLabel())
		})
	}
}

func TestDifficulty_NoHeroes(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.AddMonsterFromTemplate(testutil.Dragon(), "")
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.EncounterDifficultyRatio())
	assert.Equal(t, DifficultyNone, m.EncounterDifficultyLabel())
}

func TestTotalMonsterLevels(t *testing.T) {
	m, _ := newTestManager(t)

	for _, lvl := range []string{"3", "3.5", "1/2", "2 (swarm)", "", "n/a"} {
		tpl := testutil.Goblin()
		tpl.Level = lvl
		_, err := m.AddMonsterFromTemplate(tpl, "")
		require.NoError(t, err)
	}
	assert.InDelta(t, 9.0, m.TotalMonsterLevels(), 1e-9)

	dead, _ := m.AddMonsterFromTemplate(testutil.Dragon(), "")
	inactive, _ := m.AddMonsterFromTemplate(testutil.Dragon(), "")
	require.NoError(t, m.SetMonsterActive(inactive, false))
	assert.InDelta(t, 19.0, m.TotalMonsterLevels(), 1e-9, "inactive monsters count")

	dead.Dead = true
	assert.InDelta(t, 14.0, m.TotalMonsterLevels(), 1e-9, "dead monsters are excluded")
}

func TestDamageMonster_LastStandThenDeath(t *testing.T) {
	m, logs := newTestManager(t)
	mon, err := m.AddMonsterFromTemplate(testutil.Dragon(), "")
	require.NoError(t, err)
	*logs = nil

	require.NoError(t, m.DamageMonster(mon, 50))
	assert.True(t, mon.IsLastStand())
	assert.Equal(t, 15, mon.HPCurrent)
	assert.Equal(t, []string{
		"Monster Dragon takes 50 damage (HP 40→15, Temp 0→0)",
		"🔥 Dragon triggers LAST STAND (15 HP)!",
	}, *logs)

	*logs = nil
	require.NoError(t, m.DamageMonster(mon, 20))
	assert.True(t, mon.IsDead())
	assert.Equal(t, 0, mon.HPCurrent)
	assert.Equal(t, []string{
		"Monster Dragon takes 20 damage (HP 15→0, Temp 0→0)",
		"💀 Monster Dragon is DEAD.",
	}, *logs)
}

func TestDamageHero_LogsAndFlags(t *testing.T) {
	m, logs := newTestManager(t, func(c *config.Tracker) { c.LogHealEvents = false })
	h, err := m.NewHero("")
	require.NoError(t, err)
	assert.Equal(t, DefaultHeroName, h.Name)
	require.NoError(t, m.SetHeroTempHP(h, 3))
	*logs = nil

	require.NoError(t, m.DamageHero(h, 20))
	assert.Equal(t, 0, h.HPCurrent)
	assert.True(t, h.HasCondition(model.ConditionDying))
	assert.Equal(t, []string{
		"Hero New Hero takes 20 damage (HP 10→0, Temp 3→0)",
		"⚠ Hero New Hero is DYING!",
	}, *logs)

	*logs = nil
	require.NoError(t, m.HealHero(h, 4))
	assert.Equal(t, 4, h.HPCurrent)
	assert.False(t, h.HasCondition(model.ConditionDying))
	assert.Empty(t, *logs, "heal logging disabled")
}

func TestConditions_Logged(t *testing.T) {
	m, logs := newTestManager(t)
	h, _ := m.NewHero("Aria")
	mon, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "")
	*logs = nil

	require.NoError(t, m.AddHeroCondition(h, "Prone"))
	require.NoError(t, m.RemoveHeroCondition(h, "Prone"))
	require.NoError(t, m.AddMonsterCondition(mon, "Dazed"))
	require.NoError(t, m.RemoveMonsterCondition(mon, "Dazed"))
	require.NoError(t, m.SetMonsterTempHP(mon, 2))
	require.NoError(t, m.HealMonster(mon, 1))

	assert.Equal(t, []string{
		"Hero Aria gains condition: Prone",
		"Hero Aria loses condition: Prone",
		"Monster Goblin gains condition: Dazed",
		"Monster Goblin loses condition: Dazed",
		"Monster Goblin gains 2 temporary HP.",
		"Monster Goblin heals 1 HP (10→10)",
	}, *logs)
	assert.Empty(t, h.Conditions)
	assert.Equal(t, 2, mon.TempHP)
}

func TestConcentration_Hook(t *testing.T) {
	m, logs := newTestManager(t)
	h, _ := m.NewHero("Aria")
	mon, _ := m.AddMonsterFromTemplate(testutil.Goblin(), "")

	var notified []string
	m.SetConcentrationFunc(func(c model.Creature) { notified = append(notified, c.DisplayName()) })

	require.NoError(t, m.DamageHero(h, 1))
	assert.Empty(t, notified, "not concentrating")

	require.NoError(t, m.SetHeroConcentrating(h, true))
	require.NoError(t, m.SetMonsterConcentrating(mon, true))
	require.NoError(t, m.DamageHero(h, 1))
	require.NoError(t, m.DamageMonster(mon, 1))
	assert.Equal(t, []string{"Aria", "Goblin"}, notified)

	m.SetConcentrationFunc(func(model.Creature) { panic("boom") })
	*logs = nil
	require.NoError(t, m.DamageHero(h, 1))
	assert.Contains(t, *logs, "Concentration note handler failed: boom")
	assert.Equal(t, 7, h.HPCurrent)
}

func TestChanged_OrderAndAutosave(t *testing.T) {
	m, _ := newTestManager(t)

	var events []string
	m.SetLogFunc(func(msg string) { events = append(events, "log") })
	m.SetStateChangedFunc(func() {
		_, err := os.Stat(m.Config().AutosavePath)
		assert.NoError(t, err, "autosave runs before the state callback")
		events = append(events, "changed")
	})

	_, err := m.NewHero("Aria")
	require.NoError(t, err)
	assert.Equal(t, []string{"log", "changed"}, events)

	heroes, monsters, err := persistence.LoadSession(m.Config().AutosavePath)
	require.NoError(t, err)
	require.Len(t, heroes, 1)
	assert.Equal(t, "Aria", heroes[0].Name)
	assert.Empty(t, monsters)
}

func TestChanged_AutosaveDisabled(t *testing.T) {
	m, _ := newTestManager(t, func(c *config.Tracker) { c.AutosaveEnabled = false })

	calls := 0
	m.SetStateChangedFunc(func() { calls++ })
	_, err := m.NewHero("Aria")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.NoFileExists(t, m.Config().AutosavePath)
}

func TestChanged_AutosaveErrorSkipsCallback(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	m, _ := newTestManager(t, func(c *config.Tracker) {
		c.AutosavePath = filepath.Join(blocker, "session.json")
	})
	calls := 0
	m.SetStateChangedFunc(func() { calls++ })

	_, err := m.NewHero("Aria")
	require.Error(t, err)
	assert.Zero(t, calls)
	assert.Len(t, m.Heroes(), 1, "the mutation itself is kept")
}

func TestLoadSession_DoesNotAutosave(t *testing.T) {
	m, logs := newTestManager(t)
	calls := 0
	m.SetStateChangedFunc(func() { calls++ })

	require.NoError(t, m.LoadSession(""))
	assert.Equal(t, 1, calls)
	assert.Empty(t, m.Heroes())
	assert.NotNil(t, m.Monsters())
	assert.NoFileExists(t, m.Config().AutosavePath)
	assert.Equal(t, []string{"Session loaded: 0 heroes, 0 monsters"}, *logs)
}

func TestSession_RoundTripThroughAutosave(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.NewHero("Aria")
	require.NoError(t, err)
	mon, err := m.AddMonsterFromTemplate(testutil.Goblin(), "wave 1")
	require.NoError(t, err)
	require.NoError(t, m.DamageMonster(mon, 4))

	restored := NewCombatManager(m.Config())
	require.NoError(t, restored.LoadSession(""))

	require.Len(t, restored.Monsters(), 1)
	assert.Equal(t, mon, restored.Monsters()[0])
	assert.Equal(t, m.Heroes(), restored.Heroes())
	assert.Equal(t, m.GroupColorMap(), restored.GroupColorMap())
}

func TestPartyAndEncounter_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	m, logs := newTestManager(t)

	_, _ = m.NewHero("Aria")
	_, _ = m.NewHero("Bo")
	_, _ = m.AddMonsterFromTemplate(testutil.Goblin(), "")

	require.NoError(t, m.SaveParty(filepath.Join(dir, "party.json"), ""))
	require.NoError(t, m.SaveEncounter(filepath.Join(dir, "enc.json"), "Ambush"))
	assert.Contains(t, *logs, "Saved party: Party")
	assert.Contains(t, *logs, "Saved encounter: Ambush")

	other, logs2 := newTestManager(t)
	require.NoError(t, other.LoadParty(filepath.Join(dir, "party.json")))
	require.NoError(t, other.LoadEncounter(filepath.Join(dir, "enc.json")))

	assert.Len(t, other.Heroes(), 2)
	assert.Len(t, other.Monsters(), 1)
	assert.Contains(t, *logs2, "Loaded party: Party (2 heroes)")
	assert.Contains(t, *logs2, "Loaded encounter: Ambush (1 monsters)")

	err := other.LoadParty(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.Len(t, other.Heroes(), 2, "failed load keeps the roster")
}

func TestLibrary_LoadAndFind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bestiary.json")
	require.NoError(t, persistence.SaveMonsterLibrary(path, []*model.MonsterTemplate{testutil.Goblin(), testutil.Dragon()}))

	m, logs := newTestManager(t)
	require.NoError(t, m.LoadMonsterLibrary(path))
	assert.Len(t, m.Library(), 2)
	assert.Contains(t, *logs, "Loaded 2 monsters from library.")

	tpl := m.FindTemplateByFile("dragon.md")
	require.NotNil(t, tpl)
	assert.Equal(t, "Dragon", tpl.Name)
	assert.Nil(t, m.FindTemplateByFile("nope.md"))

	err := m.LoadMonsterLibrary(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.Len(t, m.Library(), 2)

	require.NoError(t, m.LoadMonsterLibraries(t.Context(), []string{path, path}))
	assert.Len(t, m.Library(), 4)
}

func TestRemoveHero(t *testing.T) {
	m, _ := newTestManager(t)
	a, _ := m.NewHero("A")
	b, _ := m.NewHero("B")

	require.NoError(t, m.RemoveHero(a))
	assert.Equal(t, []*model.Hero{b}, m.Heroes())

	require.NoError(t, m.RemoveHero(a))
	assert.Len(t, m.Heroes(), 1)
}

func TestResetCombatAndClear(t *testing.T) {
	m, _ := newTestManager(t)
	h, _ := m.NewHero("Aria")
	mon, _ := m.AddMonsterFromTemplate(testutil.Dragon(), "boss")

	require.NoError(t, m.DamageHero(h, 10))
	require.NoError(t, m.DamageMonster(mon, 100))
	require.NoError(t, m.MarkLastStandPopupShown(mon))
	require.NoError(t, m.MarkBloodiedPopupShown(mon))
	require.True(t, mon.IsLastStand())

	require.NoError(t, m.ResetCombat())
	assert.Equal(t, 10, h.HPCurrent)
	assert.Empty(t, h.Conditions)
	assert.Equal(t, 40, mon.HPCurrent)
	assert.False(t, mon.LastStandTriggered)
	assert.False(t, mon.ShownLastStandPopup)
	assert.False(t, mon.ShownBloodiedPopup)
	assert.Equal(t, 1, mon.MarkerNumber, "markers survive a reset")

	require.NoError(t, m.ClearEncounter())
	assert.Empty(t, m.Monsters())
	assert.Empty(t, m.GroupColorMap())
	assert.Len(t, m.Heroes(), 1)
}

func TestLootEntries(t *testing.T) {
	m, _ := newTestManager(t)

	forest := testutil.Goblin()
	forest.Biome = "Forest"
	forest.BiomeLoot = []string{" pelt ", "", "pelt", "berries"}
	bare := testutil.Goblin()
	bare.BiomeLoot = []string{"pelt"}

	_, _ = m.AddMonsterFromTemplate(forest, "")
	_, _ = m.AddMonsterFromTemplate(forest, "")
	_, _ = m.AddMonsterFromTemplate(bare, "")

	assert.Equal(t, []LootEntry{
		{Biome: "Forest", Text: "pelt"},
		{Biome: "Forest", Text: "berries"},
		{Biome: UnknownBiome, Text: "pelt"},
	}, m.LootEntries())
}
