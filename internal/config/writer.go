package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/smykla-skalski/claude-hooks/internal/schema"
	"github.com/smykla-skalski/claude-hooks/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories.
	ConfigDirMode = 0o755
)

// ErrConfigExists is returned when init would overwrite a config file.
var ErrConfigExists = errors.New("configuration file already exists")

// Writer handles writing configuration to TOML files.
type Writer struct {
	rootDir string
}

// NewWriter creates a writer for the project at rootDir.
func NewWriter(rootDir string) *Writer {
	return &Writer{rootDir: rootDir}
}

// ProjectConfigPath returns the path to the project configuration file.
func (w *Writer) ProjectConfigPath() string {
	return filepath.Join(w.rootDir, ConfigDir, ConfigFile)
}

// SchemaPath returns where the JSON Schema is written next to the config.
func (w *Writer) SchemaPath() string {
	return filepath.Join(w.rootDir, ConfigDir, schema.FileName)
}

// InitProject writes cfg and its JSON Schema into the project. An existing
// config is only replaced when force is set.
func (w *Writer) InitProject(cfg *config.Config, force bool) (string, error) {
	path := w.ProjectConfigPath()

	if _, err := os.Stat(path); err == nil && !force {
		return path, errors.Wrapf(ErrConfigExists, "%s", path)
	}

	if err := w.WriteFile(path, cfg); err != nil {
		return path, err
	}

	data, err := schema.GenerateJSON(true)
	if err != nil {
		return path, err
	}

	if err := os.WriteFile(w.SchemaPath(), data, ConfigFileMode); err != nil {
		return path, errors.Wrapf(err, "failed to write schema file %s", w.SchemaPath())
	}

	return path, nil
}

// WriteFile writes the configuration to the given path.
func (*Writer) WriteFile(path string, cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	var buf bytes.Buffer

	buf.WriteString(schema.SchemaDirective())
	buf.WriteByte('\n')

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config to TOML")
	}

	if err := os.WriteFile(path, buf.Bytes(), ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}
