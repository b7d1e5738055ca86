package utils

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// DecodeTOMLFile decodes path into v. Keys absent from the file leave the
// matching fields of v untouched.
func DecodeTOMLFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// DecodeTOMLTable decodes path into an untyped table. It still succeeds when
// a value has the wrong type for the typed config, which lets callers pick
// out the keys that are usable.
func DecodeTOMLTable(path string) (map[string]any, error) {
	table := map[string]any{}
	if _, err := toml.DecodeFile(path, &table); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return table, nil
}

// Table returns the sub-table stored under name.
func Table(data map[string]any, name string) (map[string]any, bool) {
	t, ok := data[name].(map[string]any)
	return t, ok
}

// Scalar lists the TOML value kinds the config reads.
type Scalar interface {
	int | string | bool
}

// Value returns data[key] when it holds a T. TOML integers decode as int64
// and are narrowed to int.
func Value[T Scalar](data map[string]any, key string) (T, bool) {
	var zero T
	raw, ok := data[key]
	if !ok {
		return zero, false
	}
	if n, isInt := raw.(int64); isInt {
		raw = int(n)
	}
	v, ok := raw.(T)
	return v, ok
}
