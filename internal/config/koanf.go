// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/claude-hooks/pkg/config"
)

var (
	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")

	// ErrInvalidConfig is returned when a loaded config fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	// ConfigDir is the directory holding both global and project config.
	ConfigDir = ".claude"

	// ConfigFile is the configuration file name.
	ConfigFile = "hooks.toml"

	// EnvPrefix prefixes environment overrides, e.g. CLAUDE_HOOKS_GIT_USE_SDK.
	EnvPrefix = "CLAUDE_HOOKS_"
)

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (CLAUDE_HOOKS_*)
// 3. Project Config (<root>/.claude/hooks.toml)
// 4. Global Config (~/.claude/hooks.toml)
// 5. Defaults
type KoanfLoader struct {
	k       *koanf.Koanf
	homeDir string
	rootDir string
}

// NewKoanfLoader creates a loader for the project at rootDir using the
// current user's home directory.
func NewKoanfLoader(rootDir string) (*KoanfLoader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	return NewKoanfLoaderWithDirs(homeDir, rootDir), nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom directories (for testing).
func NewKoanfLoaderWithDirs(homeDir, rootDir string) *KoanfLoader {
	return &KoanfLoader{
		k:       koanf.New("."),
		homeDir: homeDir,
		rootDir: rootDir,
	}
}

// Load loads and validates configuration from all sources.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	cfg.Logging.File = l.ExpandHome(cfg.Logging.File)

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if err := l.loadTOMLFile(l.ProjectConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load project config")
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flagConfig := flagsToConfig(flags); len(flagConfig) > 0 {
		if err := l.k.Load(confmap.Provider(flagConfig, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	return l.unmarshal()
}

func (l *KoanfLoader) unmarshal() (*config.Config, error) {
	var cfg config.Config

	conf := koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: CustomDecoderConfig(&cfg),
	}

	if err := l.k.UnmarshalWithConf("", &cfg, conf); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps CLAUDE_HOOKS_SECTION_KEY_NAME to section.key_name.
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key, value
	}

	return section + "." + rest, value
}

// flagsToConfig maps CLI flag names onto config keys.
func flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flags {
		switch key {
		case "debug", "trace":
			if b, ok := value.(bool); ok && b {
				ensureMapKey(result, "logging")[key] = true
			}

		case "log-file":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "logging")["file"] = s
			}

		case "use-sdk-git":
			if b, ok := value.(bool); ok {
				ensureMapKey(result, "git")["use_sdk"] = b
			}
		}
	}

	return result
}

func ensureMapKey(cfg map[string]any, key string) map[string]any {
	if _, ok := cfg[key]; !ok {
		cfg[key] = make(map[string]any)
	}

	result, _ := cfg[key].(map[string]any)

	return result
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return filepath.Join(l.homeDir, ConfigDir, ConfigFile)
}

// ProjectConfigPath returns the path to the project configuration file.
func (l *KoanfLoader) ProjectConfigPath() string {
	return filepath.Join(l.rootDir, ConfigDir, ConfigFile)
}

// ExpandHome replaces a leading ~ with the home directory.
func (l *KoanfLoader) ExpandHome(path string) string {
	if path == "~" {
		return l.homeDir
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(l.homeDir, rest)
	}

	return path
}

// Defaults returns the built-in configuration.
func Defaults() *config.Config {
	l := NewKoanfLoaderWithDirs("", "")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		panic(errors.Wrap(err, "loading built-in defaults"))
	}

	cfg, err := l.unmarshal()
	if err != nil {
		panic(errors.Wrap(err, "decoding built-in defaults"))
	}

	return cfg
}
