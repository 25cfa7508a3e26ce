package namedsql

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config defines limits applied by the Builder after a statement is resolved.
type Config struct {
	// MaxParams limits the total number of values bound by a single Build().
	// If = 0 (or omitted), it uses a sensible per-dialect default.
	// If < 0, it's treated as "unlimited".
	MaxParams int `yaml:"max_params"`
}

// Settings is the YAML form of a dialect plus its Config, e.g.
//
//	dialect: postgres
//	max_params: 1000
type Settings struct {
	Dialect Dialect `yaml:"dialect"`
	Config  `yaml:",inline"`
}

// LoadSettings decodes Settings from a YAML document. Unknown keys are rejected.
// The dialect defaults to Postgres when omitted.
func LoadSettings(data []byte) (Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("namedsql: load settings: %w", err)
	}
	return s, nil
}

// NewFromSettings returns a new SQLR for s.
func NewFromSettings(s Settings) *SQLR {
	return New(s.Dialect, s.Config)
}

// defaultConfig merges user config with per-dialect defaults.
func defaultConfig(dialect Dialect, config ...Config) Config {
	c := Config{}

	if len(config) > 0 {
		c = config[0]
	}

	if c.MaxParams == 0 {
		switch dialect {
		case SQLServer:
			c.MaxParams = 2100
		case SQLite:
			c.MaxParams = 999
		case Postgres, MySQL:
			c.MaxParams = 65535
		}
	}

	return c
}
