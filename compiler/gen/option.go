package gen

import (
	"errors"
	"log/slog"
	"strings"
)

// Casing is the directive used to derive storage names from column keys
// when a column carries no explicit storage name.
type Casing string

// Supported casing directives.
const (
	CasingNone  Casing = "none"
	CasingSnake Casing = "snake"
	CasingCamel Casing = "camel"
)

// Valid reports if the casing directive is known. The empty casing is
// treated as CasingNone.
func (c Casing) Valid() bool {
	switch c {
	case "", CasingNone, CasingSnake, CasingCamel:
		return true
	}
	return false
}

// Config holds the resolution configuration.
type Config struct {
	// Inclusion is the normalized inclusion configuration.
	// Nil includes every table and column.
	Inclusion *Inclusion
	// Casing derives storage names from column keys.
	Casing Casing
	// Strict turns ambiguous relation inference into an AmbiguousRelationError
	// instead of picking the first candidate in declaration order.
	Strict bool
	// Logger receives warnings. Defaults to slog.Default().
	Logger *slog.Logger
	// Diagnostics collects warnings. It is reset by every NewGraph call.
	Diagnostics *Diagnostics
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Option configures resolution.
type Option func(*Config) error

// WithInclusion sets a normalized inclusion configuration.
func WithInclusion(inc *Inclusion) Option {
	return func(c *Config) error {
		c.Inclusion = inc
		return nil
	}
}

// WithInclusionMap parses and sets a raw inclusion configuration, as decoded
// from a schema document. See ParseInclusion for the accepted shape.
func WithInclusionMap(raw map[string]any) Option {
	return func(c *Config) error {
		inc, err := ParseInclusion(raw)
		if err != nil {
			return err
		}
		c.Inclusion = inc
		return nil
	}
}

// WithCasing sets the casing directive.
// Supported directives: "none", "snake", "camel".
func WithCasing(casing string) Option {
	return func(c *Config) error {
		cs := Casing(strings.ToLower(casing))
		if !cs.Valid() {
			return NewConfigError("Casing", casing, "unsupported casing; use none, snake, or camel")
		}
		c.Casing = cs
		return nil
	}
}

// WithStrictInference makes ambiguous relation inference fatal.
func WithStrictInference() Option {
	return func(c *Config) error {
		c.Strict = true
		return nil
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithDiagnostics sets the caller-owned diagnostics collector.
func WithDiagnostics(d *Diagnostics) Option {
	return func(c *Config) error {
		if d == nil {
			return NewConfigError("Diagnostics", nil, "diagnostics cannot be nil")
		}
		c.Diagnostics = d
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
