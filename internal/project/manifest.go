package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"chimp/internal/trace"
)

// ErrNoManifest is returned by Load when no chimp.toml exists above the start directory.
var ErrNoManifest = errors.New("no chimp.toml found")

// Manifest is a loaded chimp.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors chimp.toml.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Resolve ResolveConfig `toml:"resolve"`
	Cache   CacheConfig   `toml:"cache"`
	Trace   TraceConfig   `toml:"trace"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
}

// ResolveConfig controls the resolver. Jobs == 0 means GOMAXPROCS.
type ResolveConfig struct {
	Builtins []string `toml:"builtins"`
	Jobs     int      `toml:"jobs"`
	Validate bool     `toml:"validate"`
}

// CacheConfig controls the on-disk resolution cache. An empty Dir selects
// the user cache directory.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// DefaultConfig is what an absent manifest or an absent section means.
func DefaultConfig() Config {
	return Config{
		Resolve: ResolveConfig{Validate: true},
		Cache:   CacheConfig{Enabled: true},
		Trace:   TraceConfig{Level: "off", Output: "-"},
	}
}

// Load finds chimp.toml above startDir and decodes it. The boolean reports
// whether a manifest was found; a missing manifest is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes the manifest at path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [project].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Resolve.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [resolve].jobs must not be negative", path)
	}
	for _, name := range cfg.Resolve.Builtins {
		if strings.TrimSpace(name) == "" {
			return Config{}, fmt.Errorf("%s: [resolve].builtins contains an empty name", path)
		}
	}
	if cfg.Trace.Level != "" {
		if _, err := trace.ParseLevel(cfg.Trace.Level); err != nil {
			return Config{}, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
	}
	return cfg, nil
}

// CacheDir resolves the cache directory: an explicit dir relative to the
// manifest root, or $XDG_CACHE_HOME/chimp (os.UserCacheDir) otherwise.
func (m *Manifest) CacheDir() (string, error) {
	if m != nil && m.Config.Cache.Dir != "" {
		if filepath.IsAbs(m.Config.Cache.Dir) {
			return m.Config.Cache.Dir, nil
		}
		return filepath.Join(m.Root, m.Config.Cache.Dir), nil
	}
	return DefaultCacheDir()
}

// DefaultCacheDir returns the per-user chimp cache directory.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache dir: %w", err)
	}
	return filepath.Join(base, "chimp"), nil
}

// DefaultManifest returns the chimp.toml written by `chimp init`.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`# chimp project manifest
[project]
name = %q

[resolve]
# extra names visible from every scope without a declaration
builtins = []
# 0 = GOMAXPROCS
jobs = 0
validate = true

[cache]
enabled = true
# empty = user cache directory
dir = ""

[trace]
level = "off"
output = "-"
`, name)
}

// WriteDefault creates dir/chimp.toml, refusing to overwrite an existing one.
func WriteDefault(dir, name string) (string, error) {
	manifestPath := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return "", fmt.Errorf("project already initialized: %s exists", manifestPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %q: %w", manifestPath, err)
	}
	if err := os.WriteFile(manifestPath, []byte(DefaultManifest(name)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return manifestPath, nil
}
