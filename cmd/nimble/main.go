// nimble is the command-line front end of the combat tracker.
//
// Usage:
//
//	nimble [-config path] status
//	nimble library
//	nimble generate -difficulty hard -count 4 -biome Forest -no-legendary -seed 7 [-add -group wave1]
//	nimble log-latest [-print]
//	nimble conditions
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimblegm/combattracker/internal/combatlog"
	"github.com/nimblegm/combattracker/internal/config"
	"github.com/nimblegm/combattracker/internal/game/combat"
	"github.com/nimblegm/combattracker/internal/game/encounter"
	"github.com/nimblegm/combattracker/internal/model"
	"github.com/nimblegm/combattracker/internal/persistence"
)

const TrackerConfigPath = "config/tracker.yaml"

var errUsage = errors.New("usage: nimble [-config path] status|library|generate|log-latest|conditions")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("nimble", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "tracker config file (default $NIMBLE_CONFIG or "+TrackerConfigPath+")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	path := *cfgPath
	if path == "" {
		path = TrackerConfigPath
		if p := os.Getenv("NIMBLE_CONFIG"); p != "" {
			path = p
		}
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	cfg, err := config.LoadTracker(path, root)
	if err != nil {
		return fmt.Errorf("loading tracker config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Debug("config loaded", "path", path, "vault", cfg.ObsidianVaultPath, "autosave", cfg.AutosavePath)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "status":
		return runStatus(cfg, out)
	case "library":
		return runLibrary(ctx, cfg, out)
	case "generate":
		return runGenerate(ctx, cfg, rest, out)
	case "log-latest":
		return runLogLatest(cfg, rest, out)
	case "conditions":
		fmt.Fprintln(out, renderConditions(cfg.AvailableConditions, config.DefaultConditionDescriptions()))
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func runStatus(cfg config.Tracker, out io.Writer) error {
	mgr := combat.NewCombatManager(cfg)
	if err := mgr.LoadSession(""); err != nil {
		return err
	}

	fmt.Fprintln(out, renderHeroes(mgr.Heroes(), mgr.HeroThresholds()))
	fmt.Fprintln(out, renderMonsters(mgr.Monsters(), mgr.MonsterThresholds()))
	fmt.Fprintln(out, renderDifficulty(mgr))
	if loot := renderLoot(mgr.LootEntries()); loot != "" {
		fmt.Fprintln(out, loot)
	}
	return nil
}

// runLibrary loads every configured library file in parallel and reports
// per-file counts.
func runLibrary(ctx context.Context, cfg config.Tracker, out io.Writer) error {
	paths := cfg.MonsterVaultPaths()
	if len(paths) == 0 {
		return errors.New("no monster library configured (default_monster_vault_path)")
	}

	loaded, err := persistence.LoadMonsterLibrariesByPath(ctx, paths)
	if err != nil {
		return err
	}

	var merged []*model.MonsterTemplate
	total := 0
	for i, p := range paths {
		fmt.Fprintf(out, "%-60s %5d\n", p, len(loaded[i]))
		total += len(loaded[i])
		merged = append(merged, loaded[i]...)
	}
	fmt.Fprintf(out, "%-60s %5d\n", "total", total)
	if biomes := encounter.Biomes(merged); len(biomes) > 0 {
		fmt.Fprintf(out, "biomes: %s\n", strings.Join(biomes, ", "))
	}
	return nil
}

func runGenerate(ctx context.Context, cfg config.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	difficulty := fs.String("difficulty", "medium", "trivial|easy|medium|hard|deadly")
	count := fs.Int("count", 0, "number of monsters (0 = suggested)")
	biome := fs.String("biome", encounter.BiomeAll, "all, random or a biome name")
	noLegendary := fs.Bool("no-legendary", false, "exclude legendary monsters")
	seed := fs.Uint64("seed", 0, "random seed (0 = random)")
	add := fs.Bool("add", false, "add the result to the session encounter")
	group := fs.String("group", "", "marker group for added monsters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tier, err := encounter.ParseTier(*difficulty)
	if err != nil {
		return err
	}

	// read-only unless the result is added
	cfg.AutosaveEnabled = cfg.AutosaveEnabled && *add
	mgr := combat.NewCombatManager(cfg)
	clog := combatlog.New()
	mgr.SetLogFunc(clog.Append)
	if err := mgr.LoadSession(""); err != nil {
		return err
	}
	if err := mgr.LoadMonsterLibraries(ctx, cfg.MonsterVaultPaths()); err != nil {
		return err
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}
	gen := encounter.NewGenerator(cfg, rng)

	picked, err := gen.Generate(mgr.Library(), mgr.Heroes(), encounter.Options{
		Tier:             tier,
		Count:            *count,
		Biome:            *biome,
		ExcludeLegendary: *noLegendary,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s encounter: party total %d levels, target %d levels\n",
		tier, encounter.PartyTotalLevel(mgr.Heroes()), gen.TargetLevels(tier, mgr.Heroes()))
	fmt.Fprintln(out, renderTemplates(picked))

	if !*add {
		return nil
	}
	for _, tpl := range picked {
		if _, err := mgr.AddMonsterFromTemplate(tpl, *group); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, renderMonsters(mgr.Monsters(), mgr.MonsterThresholds()))
	fmt.Fprintln(out, renderDifficulty(mgr))

	logPath, err := clog.Save(cfg.CombatLogFolder())
	if err != nil {
		return fmt.Errorf("saving combat log: %w", err)
	}
	fmt.Fprintf(out, "combat log: %s\n", logPath)
	return nil
}

func runLogLatest(cfg config.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("log-latest", flag.ContinueOnError)
	printLog := fs.Bool("print", false, "print the log contents")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := combatlog.Latest(cfg.CombatLogFolder())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)

	if *printLog {
		l := combatlog.New()
		if err := l.Load(path, false); err != nil {
			return err
		}
		fmt.Fprintln(out, l.Text())
	}
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
