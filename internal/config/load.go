package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/wsl-setup/internal/messages"
)

// FileName is the config file looked up beside the executable.
const FileName = "wslsetup.toml"

// ErrConfigValidation wraps validation failures, as opposed to read or syntax errors.
var ErrConfigValidation = errors.New("config validation failed")

var executablePath = os.Executable

// DefaultPath returns FileName in the executable's directory.
func DefaultPath() (string, error) {
	exe, err := executablePath()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveExecutableFmt, err)
	}
	return filepath.Join(filepath.Dir(exe), FileName), nil
}

// Load reads path and applies it over Default. The file must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadFileFmt, path, err)
	}
	return Parse(data, path)
}

// LoadOptional is Load, except a missing file yields Default.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		def := Default()
		return &def, nil
	}
	return cfg, err
}

// Parse decodes TOML data over Default and validates the result.
// Unknown keys are rejected; source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, strictErr.String())
		}
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &cfg, nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigEncodeFmt, err)
	}
	return buf.Bytes(), nil
}

// DownloadDir returns Download.Dir with a leading ~ expanded.
func (c *Config) DownloadDir() (string, error) {
	if c.Download.Dir == "" {
		return "", nil
	}
	dir, err := homedir.Expand(c.Download.Dir)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandDirFmt, c.Download.Dir, err)
	}
	return dir, nil
}
