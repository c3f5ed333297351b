package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/hrctools/hrcpresolve/pkg/api/hrcpresolve"
	"github.com/sirupsen/logrus"
	"sigs.k8s.io/yaml"
)

// RelPath is the location of the config file below the XDG config directories.
const RelPath = "hrcpresolve/config.yaml"

type ConfigInit struct {
	File   string
	Config hrcpresolve.Config
}

func NewConfigInit(file string, maxBP int, format string) *ConfigInit {
	presolve := true
	return &ConfigInit{
		File: file,
		Config: hrcpresolve.Config{
			MaxBlockingPairs: &maxBP,
			Presolve:         &presolve,
			Format:           format,
		},
	}
}

// Init writes the config file. Existing files are never overwritten.
func (c *ConfigInit) Init() error {
	if c.File == "" {
		path, err := xdg.ConfigFile(RelPath)
		if err != nil {
			return fmt.Errorf("failed to determine config location: %v", err)
		}
		c.File = path
	}
	_, err := os.Stat(c.File)
	if !os.IsNotExist(err) {
		return fmt.Errorf("config file %s already exists.", c.File)
	}
	if err := Validate(&c.Config); err != nil {
		return err
	}
	data, err := yaml.Marshal(c.Config)
	if err != nil {
		return err
	}
	logrus.Infof("Writing config file %s.", c.File)
	return os.WriteFile(c.File, data, 0660)
}

// DefaultPath returns the first config file found in the XDG config
// directories.
func DefaultPath() (string, bool) {
	path, err := xdg.SearchConfigFile(RelPath)
	if err != nil {
		return "", false
	}
	return path, true
}

// Load reads the given config file. An empty file name falls back to
// DefaultPath and yields an empty config if nothing is found there.
func Load(file string) (*hrcpresolve.Config, error) {
	if file == "" {
		path, found := DefaultPath()
		if !found {
			logrus.Debug("No config file found, using defaults.")
			return &hrcpresolve.Config{}, nil
		}
		file = path
	}
	return LoadConfigFile(file)
}

func LoadConfigFile(file string) (*hrcpresolve.Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %v", file, err)
	}
	cfg := &hrcpresolve.Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %v", file, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", file, err)
	}
	logrus.Debugf("Loaded config file %s.", file)
	return cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

func Validate(cfg *hrcpresolve.Config) error {
	if cfg.MaxBlockingPairs != nil && *cfg.MaxBlockingPairs < 0 {
		return fmt.Errorf("%w: negative maxBlockingPairs %d", ErrInvalidConfig, *cfg.MaxBlockingPairs)
	}
	switch cfg.Format {
	case "", hrcpresolve.FormatDZN, hrcpresolve.FormatOPB, hrcpresolve.FormatYAML, hrcpresolve.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, cfg.Format)
	}
	if cfg.LogLevel != "" {
		if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
