package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nimblegm/combattracker/internal/model"
)

// libraryFile is the shape written by SaveMonsterLibrary.
type libraryFile struct {
	Monsters []*model.MonsterTemplate `json:"monsters"`
}

// LoadMonsterLibrary loads monster templates from path.
//
// Accepted shapes:
//
//	{"monsters": [...]}
//	[...]
//	{"monsters": [...], "legendary_monsters": [...]}   (legacy split)
//
// In the legacy split, entries without a "legendary" key default to
// false under "monsters" and true under "legendary_monsters".
func LoadMonsterLibrary(path string) ([]*model.MonsterTemplate, error) {
	raw, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	type entry struct {
		raw       json.RawMessage
		legendary bool
	}
	var entries []entry

	switch firstByte(raw) {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
		}
		for _, item := range items {
			entries = append(entries, entry{raw: item})
		}

	case '{':
		obj, _ := asObject(raw)
		base, baseOK := rawList(obj["monsters"])
		legendary, legendaryOK := rawList(obj["legendary_monsters"])
		if !baseOK && !legendaryOK {
			return nil, fmt.Errorf("%w: monster library JSON must be a list or have 'monsters' list", ErrMalformed)
		}
		for _, item := range base {
			entries = append(entries, entry{raw: item})
		}
		for _, item := range legendary {
			entries = append(entries, entry{raw: item, legendary: true})
		}

	default:
		return nil, fmt.Errorf("%w: monster library JSON must be a list or have 'monsters' list", ErrMalformed)
	}

	result := make([]*model.MonsterTemplate, 0, len(entries))
	for _, e := range entries {
		obj, ok := asObject(e.raw)
		if !ok {
			continue
		}
		if _, has := obj["legendary"]; !has {
			obj["legendary"] = json.RawMessage(fmt.Sprint(e.legendary))
		}
		if tpl, ok := decodeObject[model.MonsterTemplate](obj, templateFields, path); ok {
			result = append(result, tpl)
		}
	}
	return result, nil
}

// SaveMonsterLibrary writes templates as {"monsters": [...]}.
func SaveMonsterLibrary(path string, templates []*model.MonsterTemplate) error {
	if templates == nil {
		templates = []*model.MonsterTemplate{}
	}
	return writeJSON(path, libraryFile{Monsters: templates})
}

// LoadMonsterLibraries loads several library files concurrently and
// concatenates them in the order of paths. Any failing file fails the call.
func LoadMonsterLibraries(ctx context.Context, paths []string) ([]*model.MonsterTemplate, error) {
	loaded, err := LoadMonsterLibrariesByPath(ctx, paths)
	if err != nil {
		return nil, err
	}

	var total int
	for _, l := range loaded {
		total += len(l)
	}
	merged := make([]*model.MonsterTemplate, 0, total)
	for _, l := range loaded {
		merged = append(merged, l...)
	}
	return merged, nil
}

// LoadMonsterLibrariesByPath loads several library files concurrently.
// The i-th result holds the templates of paths[i].
func LoadMonsterLibrariesByPath(ctx context.Context, paths []string) ([][]*model.MonsterTemplate, error) {
	loaded := make([][]*model.MonsterTemplate, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			templates, err := LoadMonsterLibrary(path)
			if err != nil {
				return fmt.Errorf("loading library %s: %w", path, err)
			}
			loaded[i] = templates
			slog.Debug("monster library loaded", "path", path, "count", len(templates))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loaded, nil
}

// rawList reports whether raw is a JSON array and returns its items.
func rawList(raw json.RawMessage) ([]json.RawMessage, bool) {
	if firstByte(raw) != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}
