package jsonproto

import (
	"fmt"
	"os"
	"strconv"

	"github.com/anirudhraja/jsonproto/infer"
	"github.com/anirudhraja/jsonproto/schema"
	"github.com/anirudhraja/jsonproto/wire"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvMaxDepth     = "JSONPROTO_MAX_DEPTH"
	EnvFieldOrder   = "JSONPROTO_FIELD_ORDER"
	EnvFingerprint  = "JSONPROTO_FINGERPRINT"
	EnvArrayElement = "JSONPROTO_ARRAY_ELEMENT"
)

// Config controls inference and encoding. The zero value of each field
// selects its default.
type Config struct {
	// MaxDepth bounds object nesting; the top-level object is depth 1.
	MaxDepth int `yaml:"max_depth"`

	// FieldOrder selects wire order within a message: "schema" (key order)
	// or "number" (ascending field number).
	FieldOrder wire.FieldOrder `yaml:"field_order"`

	// Fingerprint selects the digest used for message names: "sha1" or
	// "blake3".
	Fingerprint schema.HashAlgorithm `yaml:"fingerprint"`

	// ArrayElement picks the element that decides an array's type: "last"
	// or "first".
	ArrayElement infer.ArrayPolicy `yaml:"array_element"`
}

// DefaultConfig returns the settings used when no Config is given.
func DefaultConfig() Config {
	return Config{
		MaxDepth:     infer.DefaultMaxDepth,
		FieldOrder:   wire.OrderSchema,
		Fingerprint:  schema.HashSHA1,
		ArrayElement: infer.ArrayLast,
	}
}

// ConfigFromEnv overlays environment variables onto base.
func ConfigFromEnv(base Config) (Config, error) {
	cfg := base
	if v, ok := os.LookupEnv(EnvMaxDepth); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return base, fmt.Errorf("%s: %w", EnvMaxDepth, err)
		}
		cfg.MaxDepth = n
	}
	if v, ok := os.LookupEnv(EnvFieldOrder); ok && v != "" {
		cfg.FieldOrder = wire.FieldOrder(v)
	}
	if v, ok := os.LookupEnv(EnvFingerprint); ok && v != "" {
		cfg.Fingerprint = schema.HashAlgorithm(v)
	}
	if v, ok := os.LookupEnv(EnvArrayElement); ok && v != "" {
		cfg.ArrayElement = infer.ArrayPolicy(v)
	}
	return cfg, cfg.Validate()
}

// Validate checks every setting and reports the first invalid one.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	if _, err := wire.ParseFieldOrder(string(c.FieldOrder)); err != nil {
		return err
	}
	if _, err := schema.ParseHashAlgorithm(string(c.Fingerprint)); err != nil {
		return err
	}
	if _, err := infer.ParseArrayPolicy(string(c.ArrayElement)); err != nil {
		return err
	}
	return nil
}

// normalized fills zero fields with their defaults. Call after Validate.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.MaxDepth == 0 {
		c.MaxDepth = def.MaxDepth
	}
	if c.FieldOrder == "" {
		c.FieldOrder = def.FieldOrder
	}
	if c.Fingerprint == "" {
		c.Fingerprint = def.Fingerprint
	}
	if c.ArrayElement == "" {
		c.ArrayElement = def.ArrayElement
	}
	return c
}
