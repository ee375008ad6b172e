package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/lmgen/compiler"
	"github.com/syssam/lmgen/compiler/gen"
	"github.com/syssam/lmgen/compiler/gen/golang"
	"github.com/syssam/lmgen/compiler/gen/prisma"
)

// DefaultConfigFile is read from the working directory when --config is not
// given.
const DefaultConfigFile = "lmgen.yaml"

// Config is the content of an lmgen.yaml file. Command line flags override
// its values.
type Config struct {
	Target        string          `yaml:"target,omitempty"`
	Package       string          `yaml:"package,omitempty"`
	Header        string          `yaml:"header,omitempty"`
	Dialects      []string        `yaml:"dialects,omitempty"`
	Features      []string        `yaml:"features,omitempty"`
	InverseNaming string          `yaml:"inverse_naming,omitempty"`
	Datasource    *DatasourceSpec `yaml:"datasource,omitempty"`
	Client        *ClientSpec     `yaml:"client,omitempty"`
	Cache         CacheSpec       `yaml:"cache,omitempty"`
	Workers       int             `yaml:"workers,omitempty"`
}

// DatasourceSpec configures the datasource block.
type DatasourceSpec struct {
	Provider string `yaml:"provider"`
	URL      string `yaml:"url,omitempty"`
}

// ClientSpec configures the generator block.
type ClientSpec struct {
	Provider string `yaml:"provider,omitempty"`
	Output   string `yaml:"output,omitempty"`
}

// CacheSpec configures the generation cache. An empty path disables it.
type CacheSpec struct {
	Path string        `yaml:"path,omitempty"`
	TTL  time.Duration `yaml:"ttl,omitempty"`
}

// LoadConfig reads the config file at path. A missing file yields an empty
// config unless required is set.
func LoadConfig(path string, required bool) (*Config, error) {
	c := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Options returns the generation options of the config. Unknown feature
// names and inverse naming strategies are reported together; the remaining
// settings are checked when the options are applied.
func (c *Config) Options() ([]gen.Option, error) {
	var (
		errs []error
		opts []gen.Option
	)
	if c.Target != "" {
		opts = append(opts, gen.WithTarget(c.Target))
	}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if len(c.Features) > 0 {
		features := make([]gen.Feature, 0, len(c.Features))
		for _, name := range c.Features {
			f, err := gen.FeatureByName(name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			features = append(features, f)
		}
		opts = append(opts, gen.WithFeatures(features...))
	}
	if c.InverseNaming != "" {
		n, err := gen.ParseInverseNaming(c.InverseNaming)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts = append(opts, gen.WithInverseNaming(n))
		}
	}
	if ds := c.Datasource; ds != nil {
		opts = append(opts, gen.WithDatasource(ds.Provider, ds.URL))
	}
	if cl := c.Client; cl != nil {
		opts = append(opts, gen.WithClient(cl.Provider, cl.Output))
	}
	return opts, errors.Join(errs...)
}

// GenConfig builds the generation config. All invalid settings are
// reported together.
func (c *Config) GenConfig() (*gen.Config, error) {
	opts, oerr := c.Options()
	cfg, err := gen.NewConfig()
	if err != nil {
		return nil, err
	}
	if err := errors.Join(oerr, cfg.ApplyAll(opts...)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// dialects returns the configured dialects, Prisma when none is set.
func (c *Config) dialects() ([]gen.Dialect, error) {
	if len(c.Dialects) == 0 {
		return []gen.Dialect{prisma.New()}, nil
	}
	var (
		ds   []gen.Dialect
		errs []error
	)
	for _, name := range c.Dialects {
		switch name {
		case "prisma":
			ds = append(ds, prisma.New())
		case "go":
			ds = append(ds, golang.New())
		default:
			errs = append(errs, gen.NewConfigError("Dialects", name, "unknown dialect; use prisma or go"))
		}
	}
	return ds, errors.Join(errs...)
}

// cache returns the configured cache, or nil.
func (c *Config) cache() compiler.Cache {
	if c.Cache.Path == "" {
		return nil
	}
	return compiler.NewFileCache(c.Cache.Path)
}
