// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nimblegm/combattracker/internal/model"
)

// Goblin returns a fresh non-legendary template: 10 HP, level 1/2.
// Every call returns a new value so tests may mutate it.
func Goblin() *model.MonsterTemplate {
	return &model.MonsterTemplate{Name: "Goblin", File: "goblin.md", HP: "10 HP", Level: "1/2"}
}

// Dragon returns a fresh legendary template: 40 HP, level 5, last stand at 15 HP.
func Dragon() *model.MonsterTemplate {
	return &model.MonsterTemplate{
		Name:        "Dragon",
		File:        "dragon.md",
		Legendary:   true,
		HP:          "40",
		Level:       "5",
		LastStand:   "The dragon roars.",
		LastStandHP: "15",
	}
}

// Template returns a bare template for generator and library tests.
func Template(name, level, biome string, legendary bool) *model.MonsterTemplate {
	return &model.MonsterTemplate{Name: name, Level: level, Biome: biome, Legendary: legendary}
}

// Heroes returns one default hero per level.
func Heroes(levels ...int) []*model.Hero {
	out := make([]*model.Hero, 0, len(levels))
	for _, lvl := range levels {
		h := model.NewHero("h")
		h.Level = lvl
		out = append(out, h)
	}
	return out
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}
