// Package persistence owns every on-disk JSON format of the tracker:
// monster libraries, parties, encounters and session autosaves.
//
// Loading is lenient. Each record is projected onto the known field set
// of its target type before decoding, so keys written by older or newer
// versions are dropped instead of failing the load. Unusable numbers and
// flags fall back to field defaults. Records that are not JSON objects,
// or whose lists have the wrong type, are skipped one by one. Writes go
// through a temp file and a rename.
package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/nimblegm/combattracker/internal/model"
)

var (
	// ErrNotFound is returned when a party, encounter or library file is missing.
	ErrNotFound = errors.New("file not found")
	// ErrMalformed is returned when the top-level JSON shape is wrong.
	ErrMalformed = errors.New("malformed data")
)

// fieldSet maps the JSON keys of a record type to the kind of the Go field.
type fieldSet map[string]reflect.Kind

var (
	heroFields     = fieldsOf(reflect.TypeFor[model.Hero]())
	templateFields = fieldsOf(reflect.TypeFor[model.MonsterTemplate]())
	monsterFields  = fieldsOf(reflect.TypeFor[model.MonsterInstance]())
)

func fieldsOf(t reflect.Type) fieldSet {
	fs := make(fieldSet, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fs[name] = f.Type.Kind()
	}
	return fs
}

// project keeps only keys present in fields. A bare JSON number bound
// for a string field is quoted, since vault data writes levels and HP
// either way. Int fields take integral numbers in any notation ("24",
// 24.0); other values for int or bool fields are left out so the field
// keeps its default instead of failing the record.
func project(obj map[string]json.RawMessage, fields fieldSet) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(obj))
	for key, val := range obj {
		kind, ok := fields[key]
		if !ok {
			continue
		}
		switch kind {
		case reflect.String:
			if isNumber(val) {
				quoted, err := json.Marshal(string(bytes.TrimSpace(val)))
				if err == nil {
					val = quoted
				}
			}
		case reflect.Int:
			n, ok := intValue(val)
			if !ok {
				continue
			}
			val = json.RawMessage(strconv.FormatInt(n, 10))
		case reflect.Bool:
			if b := firstByte(val); b != 't' && b != 'f' {
				continue
			}
		}
		out[key] = val
	}
	return out
}

// intValue reads a JSON number or numeric string holding a whole number.
func intValue(raw json.RawMessage) (int64, bool) {
	text := string(bytes.TrimSpace(raw))
	if firstByte(raw) == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(text)
	} else if !isNumber(raw) {
		return 0, false
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int64(f), true
}

// decodeRecord builds one T from a raw list entry. ok is false for
// entries that are not objects or do not decode; the caller skips them.
func decodeRecord[T any](raw json.RawMessage, fields fieldSet, source string) (rec *T, ok bool) {
	obj, isObj := asObject(raw)
	if !isObj {
		return nil, false
	}
	return decodeObject[T](obj, fields, source)
}

func decodeObject[T any](obj map[string]json.RawMessage, fields fieldSet, source string) (*T, bool) {
	data, err := json.Marshal(project(obj, fields))
	if err != nil {
		slog.Warn("skipping record", "source", source, "error", err)
		return nil, false
	}

	rec := new(T)
	if err := json.Unmarshal(data, rec); err != nil {
		slog.Warn("skipping record", "source", source, "error", err)
		return nil, false
	}
	return rec, true
}

// decodeList decodes a JSON array of records. A missing or null list is
// empty; anything other than an array is malformed.
func decodeList[T any](raw json.RawMessage, fields fieldSet, source string) ([]*T, error) {
	out := []*T{}
	if isNull(raw) {
		return out, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: expected a list", ErrMalformed, source)
	}
	for _, item := range items {
		if rec, ok := decodeRecord[T](item, fields, source); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// readJSON reads path as raw JSON. Missing files (or directories) are ErrNotFound.
func readJSON(path string) (json.RawMessage, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s: invalid JSON", ErrMalformed, path)
	}
	return json.RawMessage(data), nil
}

// readObject reads path and requires a top-level JSON object.
func readObject(path, what string) (map[string]json.RawMessage, error) {
	raw, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	obj, ok := asObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s JSON must be an object", ErrMalformed, what)
	}
	return obj, nil
}

// writeJSON writes v with two-space indentation and unescaped non-ASCII
// text. Parent directories are created. The file is replaced atomically.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// stringField decodes obj[key] as a string, falling back to def when
// the key is missing or null.
func stringField(obj map[string]json.RawMessage, key, def string) (string, error) {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return def, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %q must be a string", ErrMalformed, key)
	}
	return s, nil
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if firstByte(raw) != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func isNumber(raw json.RawMessage) bool {
	b := firstByte(raw)
	return b == '-' || (b >= '0' && b <= '9')
}
