package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/project"
	"g4t/internal/source"
)

// vocabSchemaVersion is bumped when VocabPayload changes shape.
const vocabSchemaVersion uint16 = 1

// Digest keys the cache by content hash.
type Digest [sha256.Size]byte

func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// VocabPayload is the cached token vocabulary of one lexer grammar:
// enough to resolve tokenVocab references without re-scanning the file.
type VocabPayload struct {
	Schema     uint16
	Path       string
	TokenNames []string
	Modes      []string
}

// VocabFromGrammar extracts the cacheable vocabulary.
func VocabFromGrammar(g *grammar.Grammar) *VocabPayload {
	p := &VocabPayload{Schema: vocabSchemaVersion, Path: g.File.Path}
	for _, r := range g.Rules {
		if r.Kind == grammar.RuleLexer && !r.Fragment {
			p.TokenNames = append(p.TokenNames, r.Name)
		}
	}
	for _, m := range g.Modes {
		p.Modes = append(p.Modes, m.Name)
	}
	return p
}

// resolveVocabTokens loads the token vocabulary a grammar declares and
// returns the set of token names it defines, going through the disk
// cache when the manifest allows it. Any failure degrades to nil and the
// reference check falls back to name-shape heuristics.
func resolveVocabTokens(dir string, g *grammar.Grammar, manifest *project.Manifest) map[string]bool {
	if g.Options == nil || g.Options.TokenVocab == "" {
		return nil
	}

	var vocabPath string
	for _, d := range manifest.ImportDirs(dir) {
		candidate := filepath.Join(d, g.Options.TokenVocab+".g4")
		if _, err := os.Stat(candidate); err == nil {
			vocabPath = candidate
			break
		}
	}
	if vocabPath == "" {
		return nil
	}
	content, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil
	}
	key := HashContent(content)

	var cache *VocabCache
	if !manifest.Cache.Disable {
		if cacheDir, err := manifest.CacheDir(); err == nil {
			cache, _ = OpenVocabCache(cacheDir)
		}
	}
	if payload, ok, err := cache.Get(key); err == nil && ok {
		return tokenSet(payload.TokenNames)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual(vocabPath, content)
	vocab := grammar.Parse(fs.Get(id), diag.NopReporter{}, scanOptions(manifest))
	payload := VocabFromGrammar(vocab)
	_ = cache.Put(key, payload)
	return tokenSet(payload.TokenNames)
}

func tokenSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// VocabCache хранит словари токенов по хешу содержимого на диске.
// Thread-safe for concurrent access.
type VocabCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenVocabCache initializes the cache at dir, or at the standard
// XDG location when dir is empty.
func OpenVocabCache(dir string) (*VocabCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "g4t")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &VocabCache{dir: dir}, nil
}

func (c *VocabCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "vocab" для удобства очистки
	return filepath.Join(c.dir, "vocab", hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *VocabCache) Put(key Digest, payload *VocabPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload back; a schema mismatch counts as a miss.
func (c *VocabCache) Get(key Digest) (*VocabPayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload VocabPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != vocabSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}
