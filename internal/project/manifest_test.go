package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	content := `[imports]
paths = ["shared", "vendor/grammars"]

[scan]
max_rule_lines = 500

[naming]
disable = true

[cache]
dir = ".g4t-cache"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Scan.MaxRuleLines != 500 {
		t.Errorf("MaxRuleLines = %d, want 500", m.Scan.MaxRuleLines)
	}
	if !m.Naming.Disable {
		t.Errorf("Naming.Disable = false, want true")
	}
	dirs := m.ImportDirs(dir)
	want := []string{filepath.Join(dir, "shared"), filepath.Join(dir, "vendor/grammars")}
	if len(dirs) != 2 || dirs[0] != want[0] || dirs[1] != want[1] {
		t.Errorf("ImportDirs = %v, want %v", dirs, want)
	}
	cache, err := m.CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if cache != filepath.Join(dir, ".g4t-cache") {
		t.Errorf("CacheDir = %q", cache)
	}
}

func TestLoadManifest_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte("[scan]\nmax_lines = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Errorf("unknown key accepted")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ManifestName), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(root, ManifestName) {
		t.Errorf("path = %q", path)
	}

	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || got != root {
		t.Errorf("FindProjectRoot = %q ok=%v err=%v, want %q", got, ok, err, root)
	}
}

func TestLoadForDir_DefaultsWhenAbsent(t *testing.T) {
	m, err := LoadForDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadForDir failed: %v", err)
	}
	if m.Scan.MaxRuleLines != 0 || m.Naming.Disable {
		t.Errorf("defaults wrong: %+v", m)
	}
}
