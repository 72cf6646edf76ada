package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nimblegm/combattracker/internal/model"
)

// DefaultAutosaveFile is the session file name placed in the project root
// when no autosave path is configured.
const DefaultAutosaveFile = "autosave_session.json"

// Tracker holds all configuration for the combat tracker.
// The manager reads it; nothing in the engine writes it.
type Tracker struct {
	// HP bands, as fractions of max HP
	HeroBloodiedThreshold    float64 `yaml:"hero_bloodied_threshold"`
	HeroCriticalThreshold    float64 `yaml:"hero_critical_threshold"`
	MonsterBloodiedThreshold float64 `yaml:"monster_bloodied_threshold"`
	MonsterCriticalThreshold float64 `yaml:"monster_critical_threshold"`

	// Map markers
	MarkerPalette     []string `yaml:"marker_palette"`
	MarkerStartNumber int      `yaml:"marker_start_number"`

	AvailableConditions []string `yaml:"available_conditions"`

	// Autosave
	AutosaveEnabled bool   `yaml:"autosave_enabled" env:"NIMBLE_AUTOSAVE_ENABLED"`
	AutosavePath    string `yaml:"autosave_path" env:"NIMBLE_AUTOSAVE_PATH"`

	// Combat log event filters
	LogDamageEvents      bool `yaml:"log_damage_events"`
	LogHealEvents        bool `yaml:"log_heal_events"`
	LogConditionChanges  bool `yaml:"log_condition_changes"`
	LogLastStandTriggers bool `yaml:"log_last_stand_triggers"`
	LogDeaths            bool `yaml:"log_deaths"`

	// Vault and folders
	DefaultMonsterVaultPath    string `yaml:"default_monster_vault_path" env:"NIMBLE_MONSTER_VAULT_PATH"`
	AutoRefreshOnEncounterLoad bool   `yaml:"auto_refresh_on_encounter_load"`
	ObsidianVaultPath          string `yaml:"obsidian_vault_path" env:"NIMBLE_VAULT_PATH"`
	DefaultEncounterFolder     string `yaml:"default_encounter_folder"`
	DefaultPartyFolder         string `yaml:"default_party_folder"`
	DefaultCombatLogFolder     string `yaml:"default_combat_log_folder"`

	// Encounter difficulty, as monster-level / hero-level ratios
	EncounterDifficultyEasy      float64 `yaml:"encounter_difficulty_easy"`
	EncounterDifficultyMedium    float64 `yaml:"encounter_difficulty_medium"`
	EncounterDifficultyHard      float64 `yaml:"encounter_difficulty_hard"`
	EncounterDifficultyDeadlyMax float64 `yaml:"encounter_difficulty_deadly_max"`

	LogLevel string `yaml:"log_level" env:"NIMBLE_LOG_LEVEL"`

	// Root is the project directory relative folders resolve against.
	Root string `yaml:"-"`
}

// DefaultMarkerPalette returns the stock marker colors.
func DefaultMarkerPalette() []string {
	return []string{
		"#FFFFFF", // white
		"#FF0000", // red
		"#0000FF", // blue
		"#00AA00", // green
		"#FFFF00", // yellow
		"#800080", // purple
		"#000000", // black
	}
}

// DefaultConditions returns the stock condition list offered to the GM.
func DefaultConditions() []string {
	return []string{
		"Blinded", "Bloodied", "Charmed", "Dazed", "Deafened", "Dying",
		"Frightened", "Grappled", "Hampered", "Incapacitated", "Invisible",
		"Paralyzed", "Petrified", "Poisoned", "Prone", "Riding",
		"Restrained", "Slowed", "Stunned", "Last Stand", "Taunted",
		"Unconscious",
	}
}

// DefaultConditionDescriptions returns rules text for the stock conditions,
// keyed by condition name. Bloodied, Dying and Last Stand are tracker
// states and have no entry.
func DefaultConditionDescriptions() map[string]string {
	return map[string]string{
		"Blinded":       "Can't see. Attack rolls against the creature have advantage, and the creature's attack rolls have disadvantage.",
		"Charmed":       "Sees the charmer as an ally. The charmer has advantage on social interactions with the creature.",
		"Dazed":         "Heroes lose one action; monsters can perform one less action on their next turn.",
		"Deafened":      "Can't hear and automatically fails ability checks that rely on hearing.",
		"Frightened":    "Disadvantage on rolls when the source of fear is nearby; speed halved when moving closer to that source.",
		"Grappled":      "Speed becomes 0 and the creature can't benefit from bonuses to movement. Attacks against the creature have advantage.",
		"Hampered":      "Actions or movement are reduced (e.g., Dazed, Grappled, Prone, Difficult Terrain).",
		"Incapacitated": "Can't take actions or reactions. Attacks against the creature have advantage, and melee attacks that hit are critical.",
		"Invisible":     "Cannot be seen. Attack rolls against the creature have disadvantage, and the creature's attack rolls have advantage.",
		"Paralyzed":     "The creature is incapacitated, can't move or speak, and automatically fails Strength and Dexterity saving throws. Attack rolls against the creature have advantage and crit if within 5 feet.",
		"Petrified":     "Incapacitated and turned to stone/rock. Immune to most damage except from large explosions, picks, or similar tools.",
		"Poisoned":      "Disadvantage on attack rolls and ability checks.",
		"Prone":         "Movement costs double. Disadvantage on attacks, melee attacks against the creature have advantage, ranged have disadvantage. Spend 3 Speed to stand.",
		"Riding":        "You move with the creature you are riding. Attacks that miss you strike the mount instead.",
		"Restrained":    "Speed 0 and can't gain movement bonuses. Attack rolls against the creature have advantage, its attacks have disadvantage, and it has disadvantage on Dexterity saves.",
		"Slowed":        "Speed is halved during the creature's next turn.",
		"Stunned":       "Incapacitated, can't move, and can barely speak. Automatically fails Strength and Dexterity saving throws. Attack rolls against the creature have advantage.",
		"Taunted":       "Disadvantage on attacks except against the most recent taunter.",
		"Unconscious":   "Incapacitated, can't move or speak, unaware of surroundings, drops whatever it's holding, and falls prone. Automatically fails Strength and Dexterity saves. Attack rolls against it have advantage and crit within 5 feet.",
	}
}

// DefaultTracker returns Tracker config with the stock defaults rooted at root.
func DefaultTracker(root string) Tracker {
	return Tracker{
		HeroBloodiedThreshold:        0.5,
		HeroCriticalThreshold:        0.25,
		MonsterBloodiedThreshold:     0.5,
		MonsterCriticalThreshold:     0.25,
		MarkerPalette:                DefaultMarkerPalette(),
		MarkerStartNumber:            1,
		AvailableConditions:          DefaultConditions(),
		AutosaveEnabled:              true,
		AutosavePath:                 filepath.Join(root, DefaultAutosaveFile),
		LogDamageEvents:              true,
		LogHealEvents:                true,
		LogConditionChanges:          true,
		LogLastStandTriggers:         true,
		LogDeaths:                    true,
		DefaultMonsterVaultPath:      filepath.Join("Bestiary", "bestiary.json"),
		EncounterDifficultyEasy:      0.5,
		EncounterDifficultyMedium:    0.75,
		EncounterDifficultyHard:      1.0,
		EncounterDifficultyDeadlyMax: 1.25,
		LogLevel:                     "info",
		Root:                         root,
	}
}

// LoadTracker loads tracker config from a YAML file, applies environment
// overrides and fills derived defaults.
// If the file doesn't exist, defaults are used.
func LoadTracker(path, root string) (Tracker, error) {
	cfg := DefaultTracker(root)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	cfg.Finalize()
	return cfg, nil
}

// SaveTracker writes cfg as YAML, creating parent directories.
func SaveTracker(path string, cfg Tracker) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Finalize detects the vault, infers folders and fills empty lists.
// Safe to call more than once.
func (c *Tracker) Finalize() {
	detected := c.AutoDetectVault()
	if detected || c.ObsidianVaultPath != "" {
		c.InferFolderPaths()
	}

	if len(c.MarkerPalette) == 0 {
		c.MarkerPalette = DefaultMarkerPalette()
	}
	if len(c.AvailableConditions) == 0 {
		c.AvailableConditions = DefaultConditions()
	}
	if c.AutosavePath == "" {
		c.AutosavePath = filepath.Join(c.Root, DefaultAutosaveFile)
	}
}

// HeroThresholds returns the hero HP bands.
func (c *Tracker) HeroThresholds() model.Thresholds {
	return model.Thresholds{Bloodied: c.HeroBloodiedThreshold, Critical: c.HeroCriticalThreshold}
}

// MonsterThresholds returns the monster HP bands.
func (c *Tracker) MonsterThresholds() model.Thresholds {
	return model.Thresholds{Bloodied: c.MonsterBloodiedThreshold, Critical: c.MonsterCriticalThreshold}
}
