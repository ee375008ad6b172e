package gen

import (
	"errors"
	"go/token"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the Go package name of the Go dialect output.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if !token.IsIdentifier(pkg) {
			return NewConfigError("Package", pkg, "package must be a valid identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated files will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.featureEnabled(f) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithDatasource adds a datasource block for the given provider.
// The url names an environment variable, or is a literal URL when it
// contains a colon. Supported providers are listed by Providers.
func WithDatasource(provider, url string) Option {
	return func(c *Config) error {
		ds, err := NewDatasource(provider, url)
		if err != nil {
			return err
		}
		c.Datasource = ds
		return nil
	}
}

// WithClient adds a client generator block.
// An empty provider defaults to DefaultClientProvider.
func WithClient(provider, output string) Option {
	return func(c *Config) error {
		if provider == "" {
			provider = DefaultClientProvider
		}
		c.Client = &Client{Provider: provider, Output: output}
		return nil
	}
}

// WithInverseNaming sets the pluralization strategy of list-typed inverse
// fields.
func WithInverseNaming(n InverseNaming) Option {
	return func(c *Config) error {
		switch n {
		case InverseSuffix, InverseInflect:
			c.InverseNaming = n
			return nil
		default:
			return NewConfigError("InverseNaming", n, "unsupported strategy; use suffix or inflect")
		}
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

// NewConfig creates a new Config with the default features and package,
// and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Package:  DefaultPackage,
		Features: DefaultFeatures(),
	}
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
