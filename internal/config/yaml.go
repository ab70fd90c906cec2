package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

// Sentinel errors for YAML decoding.
var (
	ErrEmptyData     = errors.New("empty config data")
	ErrInputTooLarge = errors.New("config exceeds maximum size")
)

// unmarshalStrict decodes YAML and rejects unknown fields.
// Syntax and field errors are rendered with the offending source line.
func unmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return errors.New(yaml.FormatError(err, false, true))
	}
	return nil
}

// Marshal encodes cfg as YAML. Every key is written so the output doubles
// as a template listing all settings.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(cfg, yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
