package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the parsed grammar.toml. Absent sections fall back to the
// defaults of Default().
type Manifest struct {
	Imports ImportsConfig `toml:"imports"`
	Scan    ScanConfig    `toml:"scan"`
	Naming  NamingConfig  `toml:"naming"`
	Cache   CacheConfig   `toml:"cache"`

	// Root is the directory the manifest was loaded from; "" for defaults.
	Root string `toml:"-"`
}

// ImportsConfig lists extra directories searched for imported grammars,
// relative to the manifest.
type ImportsConfig struct {
	Paths []string `toml:"paths"`
}

// ScanConfig tunes the source scanner.
type ScanConfig struct {
	// MaxRuleLines overrides the per-rule line ceiling; 0 keeps the default.
	MaxRuleLines int `toml:"max_rule_lines"`
}

// NamingConfig tunes naming-convention analysis.
type NamingConfig struct {
	Disable bool `toml:"disable"`
	// PrefixLen is the token-prefix window for overlap detection.
	PrefixLen int `toml:"prefix_len"`
}

// CacheConfig controls the on-disk vocabulary cache.
type CacheConfig struct {
	Disable bool   `toml:"disable"`
	Dir     string `toml:"dir"`
}

// Default returns the manifest used when no grammar.toml exists.
func Default() *Manifest {
	return &Manifest{}
}

// LoadManifest parses grammar.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	m.Root = filepath.Dir(path)
	return &m, nil
}

// LoadForDir finds and loads the manifest governing dir. Absence is not
// an error: the defaults come back.
func LoadForDir(dir string) (*Manifest, error) {
	path, ok, err := FindManifest(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadManifest(path)
}

// ImportDirs resolves the configured import paths against the manifest
// root, falling back to {root} and {root}/imports.
func (m *Manifest) ImportDirs(base string) []string {
	root := m.Root
	if root == "" {
		root = base
	}
	if len(m.Imports.Paths) == 0 {
		return []string{root, filepath.Join(root, "imports")}
	}
	dirs := make([]string, 0, len(m.Imports.Paths))
	for _, p := range m.Imports.Paths {
		if filepath.IsAbs(p) {
			dirs = append(dirs, p)
			continue
		}
		dirs = append(dirs, filepath.Join(root, p))
	}
	return dirs
}

// CacheDir resolves the cache directory: explicit config first, then the
// user cache fallback.
func (m *Manifest) CacheDir() (string, error) {
	if m.Cache.Dir != "" {
		if filepath.IsAbs(m.Cache.Dir) || m.Root == "" {
			return m.Cache.Dir, nil
		}
		return filepath.Join(m.Root, m.Cache.Dir), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "g4t"), nil
}
