package config

import (
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// FileName is the config document inside the tool's home directory.
const FileName = "config.toml"

type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Decoding DecodingConfig `mapstructure:"decoding"`
}

// DecodingConfig carries the safety limits applied when the tool decodes
// untrusted streams.
type DecodingConfig struct {
	MaxDepth int    `mapstructure:"max_depth"`
	MaxBytes uint64 `mapstructure:"max_bytes"`
}

// Parse reads a TOML config document from r. Keys absent from the document
// keep their default values. A key set to its type's zero value counts as
// absent, so max_depth = 0 also selects the default depth.
func Parse(r io.Reader) (*Config, error) {
	var doc Config
	decoder := toml.NewDecoder(r)
	decoder.SetTagName("mapstructure")
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	cfg := DefaultConfig
	if doc.LogLevel != "" {
		cfg.LogLevel = doc.LogLevel
	}
	if doc.Decoding.MaxDepth != 0 {
		cfg.Decoding.MaxDepth = doc.Decoding.MaxDepth
	}
	if doc.Decoding.MaxBytes != 0 {
		cfg.Decoding.MaxBytes = doc.Decoding.MaxBytes
	}
	return &cfg, nil
}
