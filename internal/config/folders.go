package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Folder names used when nothing is configured.
const (
	vaultEncounterFolder = "Encounters"
	vaultPartyFolder     = "Heroes"
	vaultCombatLogFolder = "Combat Logs"

	rootEncounterFolder = "Encounters"
	rootPartyFolder     = "Party"
	rootCombatLogFolder = "Combat Logs"
)

// EncounterFolder returns where encounter files live.
func (c *Tracker) EncounterFolder() string {
	return c.resolveFolder(c.DefaultEncounterFolder, vaultEncounterFolder, rootEncounterFolder)
}

// PartyFolder returns where party files live.
func (c *Tracker) PartyFolder() string {
	return c.resolveFolder(c.DefaultPartyFolder, vaultPartyFolder, rootPartyFolder)
}

// CombatLogFolder returns where saved combat logs live.
func (c *Tracker) CombatLogFolder() string {
	return c.resolveFolder(c.DefaultCombatLogFolder, vaultCombatLogFolder, rootCombatLogFolder)
}

// resolveFolder: an existing vault is the base for relative folders,
// otherwise the project root is. Absolute folders win either way.
func (c *Tracker) resolveFolder(configured, vaultDefault, rootDefault string) string {
	base := c.Root
	fallback := rootDefault
	if c.ObsidianVaultPath != "" && isDir(c.ObsidianVaultPath) {
		base = c.ObsidianVaultPath
		fallback = vaultDefault
	}

	if configured == "" {
		return filepath.Join(base, fallback)
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(base, configured)
}

// splitVaultPaths splits DefaultMonsterVaultPath on ';' and newlines.
func (c *Tracker) splitVaultPaths() []string {
	raw := strings.ReplaceAll(c.DefaultMonsterVaultPath, "\n", ";")
	var parts []string
	for _, token := range strings.Split(raw, ";") {
		if token = strings.TrimSpace(token); token != "" {
			parts = append(parts, token)
		}
	}
	return parts
}

// MonsterVaultPaths returns every configured library path. A path that
// does not exist is swapped for its Bestiary/Beastiary twin when the
// twin does.
func (c *Tracker) MonsterVaultPaths() []string {
	parts := c.splitVaultPaths()
	resolved := make([]string, 0, len(parts))
	for _, raw := range parts {
		resolved = append(resolved, resolveSpelling(raw))
	}
	return resolved
}

// MonsterVaultPath returns the first configured library path, or "".
func (c *Tracker) MonsterVaultPath() string {
	paths := c.MonsterVaultPaths()
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

func resolveSpelling(raw string) string {
	candidates := []string{raw}
	switch {
	case strings.Contains(raw, "Beastiary"):
		candidates = append(candidates, strings.ReplaceAll(raw, "Beastiary", "Bestiary"))
	case strings.Contains(raw, "Bestiary"):
		candidates = append(candidates, strings.ReplaceAll(raw, "Bestiary", "Beastiary"))
	}
	for _, candidate := range candidates {
		if exists(candidate) {
			return candidate
		}
	}
	return candidates[0]
}

// AutoDetectVault sets ObsidianVaultPath from the first monster vault
// path when a directory component named like a vault exists on disk.
// Returns true when a vault was detected and set.
func (c *Tracker) AutoDetectVault() bool {
	if c.ObsidianVaultPath != "" {
		return false
	}
	parts := c.splitVaultPaths()
	if len(parts) == 0 {
		return false
	}

	type candidate struct {
		priority int
		path     string
	}
	var found []candidate

	for _, prefix := range pathPrefixes(parts[0]) {
		name := strings.ToLower(filepath.Base(prefix))
		if !strings.Contains(name, "vault") || !isDir(prefix) {
			continue
		}
		priority := 0
		switch {
		case strings.Contains(name, "nimble") || strings.Contains(name, "obsidian"):
			priority = 2
		case strings.Contains(name, "_vault") || strings.Contains(name, " vault"):
			priority = 1
		}
		found = append(found, candidate{priority: priority, path: prefix})
	}
	if len(found) == 0 {
		return false
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].priority != found[j].priority {
			return found[i].priority > found[j].priority
		}
		return len(found[i].path) > len(found[j].path)
	})
	c.ObsidianVaultPath = found[0].path
	return true
}

// InferFolderPaths fills empty folder settings with the first matching
// directory inside the vault, or a conventional name.
func (c *Tracker) InferFolderPaths() {
	if c.ObsidianVaultPath == "" || !exists(c.ObsidianVaultPath) {
		return
	}

	if c.DefaultEncounterFolder == "" {
		c.DefaultEncounterFolder = c.firstExisting(vaultEncounterFolder,
			"Encounters", "Sessions", "Campaign/Encounters")
	}
	if c.DefaultPartyFolder == "" {
		c.DefaultPartyFolder = c.firstExisting(vaultPartyFolder,
			"Heroes", "Party", "Characters", "Campaign/Heroes")
	}
	if c.DefaultCombatLogFolder == "" {
		c.DefaultCombatLogFolder = c.firstExisting(vaultCombatLogFolder,
			"Combat Logs", "Logs", "Campaign/Logs")
	}
}

func (c *Tracker) firstExisting(fallback string, candidates ...string) string {
	for _, candidate := range candidates {
		if exists(filepath.Join(c.ObsidianVaultPath, filepath.FromSlash(candidate))) {
			return candidate
		}
	}
	return fallback
}

// pathPrefixes returns every leading sub-path of p, shortest first:
// "/a/b/c" -> "/a", "/a/b", "/a/b/c".
func pathPrefixes(p string) []string {
	p = filepath.Clean(p)
	vol := filepath.VolumeName(p)
	rest := p[len(vol):]

	cur := vol
	if strings.HasPrefix(rest, string(filepath.Separator)) {
		cur += string(filepath.Separator)
	}

	var prefixes []string
	for _, part := range strings.Split(strings.Trim(rest, string(filepath.Separator)), string(filepath.Separator)) {
		if part == "" {
			continue
		}
		cur = filepath.Join(cur, part)
		prefixes = append(prefixes, cur)
	}
	return prefixes
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
