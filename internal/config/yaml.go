package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxFileSize limits config input to prevent memory exhaustion (1MB).
const MaxFileSize = 1 << 20

var (
	ErrEmptyConfigFile = errors.New("config file is empty")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
)

// decodeStrict parses YAML into v and rejects fields Config does not declare.
func decodeStrict(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyConfigFile
	}
	if len(data) > MaxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxFileSize)
	}
	return yaml.UnmarshalWithOptions(data, v, yaml.Strict())
}

// Encode renders cfg as YAML, used by "mdpost config" to print the
// effective configuration.
func Encode(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
