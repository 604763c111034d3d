// Package config loads and validates blightscript's YAML configuration,
// following the donor project's configs package shape: a package-level
// singleton guarded by a RWMutex, a Validate() pass that fills in
// defaults, and a yaml-tagged struct per concern.
package config

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Connection holds the defaults a /connect macro falls back to when the
// user omits arguments.
type Connection struct {
	Host       string `yaml:"Host"`
	Port       int    `yaml:"Port"`
	TLS        bool   `yaml:"TLS"`
	VerifyCert bool   `yaml:"VerifyCert"`
}

// Logging controls the rotated log file lumberjack writes to.
type Logging struct {
	Path       string `yaml:"Path"`
	MaxSizeMB  int    `yaml:"MaxSizeMB"`
	MaxBackups int    `yaml:"MaxBackups"`
	MaxAgeDays int    `yaml:"MaxAgeDays"`
	Compress   bool   `yaml:"Compress"`
}

// Scripting controls the built-in interpreter's startup behavior.
type Scripting struct {
	UserScriptPath string `yaml:"UserScriptPath"`
	ReaderMode     bool   `yaml:"ReaderMode"`
	TTSEnabled     bool   `yaml:"TTSEnabled"`
}

// Config is the full, validated configuration tree.
type Config struct {
	Connection Connection `yaml:"Connection"`
	Logging    Logging    `yaml:"Logging"`
	Scripting  Scripting  `yaml:"Scripting"`
	StorePath  string     `yaml:"StorePath"`

	validated bool
}

// Validate fills in defaults for anything the file left zero-valued,
// mirroring the donor's Server.Validate pattern of "ignore X" comments
// for fields with no sensible default.
func (c *Config) Validate() {
	if c.Connection.Port == 0 {
		c.Connection.Port = 23
	}
	if c.Logging.Path == `` {
		c.Logging.Path = `logs/blightscript.log`
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}
	if c.StorePath == `` {
		c.StorePath = `data/store.yaml`
	}
	// Ignore Connection.Host — empty means "no default host", valid.
	// Ignore Scripting.UserScriptPath — empty means "no autoload script".

	c.validated = true
}

var (
	configDataLock sync.RWMutex
	configData     Config
)

// Load reads and validates the YAML config at path, installing it as the
// package-level singleton other packages read via Get.
func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return err
	}
	c.Validate()

	configDataLock.Lock()
	configData = c
	configDataLock.Unlock()
	return nil
}

// Get returns the current validated config, defaulting an empty one if
// Load was never called (so tests and small tools can run without a file).
func Get() Config {
	configDataLock.RLock()
	validated := configData.validated
	c := configData
	configDataLock.RUnlock()
	if validated {
		return c
	}

	configDataLock.Lock()
	defer configDataLock.Unlock()
	if !configData.validated {
		configData.Validate()
	}
	return configData
}
