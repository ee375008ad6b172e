package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"
)

// DefaultPackage is the Go package name used by the Go dialect when none
// is configured.
const DefaultPackage = "models"

// Config holds the global configuration for code generation.
type Config struct {
	// Target defines the output directory. An empty target means that
	// outputs are written next to their input files.
	Target string
	// Package is the Go package name of the Go dialect output.
	Package string
	// Header is an optional text written as a comment at the top of every
	// generated file.
	Header string
	// Features holds the enabled feature-flags.
	Features []Feature
	// Datasource configures the datasource block of the schema. Nil means
	// the block is omitted.
	Datasource *Datasource
	// Client configures the client generator block of the schema. Nil means
	// the block is omitted.
	Client *Client
	// InverseNaming selects how list-typed inverse fields are pluralized.
	InverseNaming InverseNaming
}

// OutputConfig groups the output settings of a Config.
type OutputConfig struct {
	Target  string
	Package string
	Header  string
}

// Output returns the output settings.
func (c *Config) Output() OutputConfig {
	return OutputConfig{Target: c.Target, Package: c.Package, Header: c.Header}
}

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) bool {
	return slices.ContainsFunc(c.Features, func(f Feature) bool { return f.Name == name })
}

func (c *Config) featureEnabled(f Feature) bool {
	return c.FeatureEnabled(f.Name)
}

// Fingerprint returns a stable string describing every setting that
// affects the generated output. It is used as part of cache keys.
func (c *Config) Fingerprint() string {
	features := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		features = append(features, f.Name)
	}
	slices.Sort(features)
	features = slices.Compact(features)
	var b strings.Builder
	fmt.Fprintf(&b, "pkg=%s;header=%q;features=%s;inverse=%s", c.Package, c.Header, strings.Join(features, ","), c.InverseNaming)
	if c.Datasource != nil {
		fmt.Fprintf(&b, ";datasource=%s,%s", c.Datasource.Provider, c.Datasource.URL)
	}
	if c.Client != nil {
		fmt.Fprintf(&b, ";client=%s,%s", c.Client.Provider, c.Client.Output)
	}
	return b.String()
}

// pluralize returns the plural form of a generated inverse field name.
func (c *Config) pluralize(s string) string {
	if c != nil && c.InverseNaming == InverseInflect {
		return rules.Pluralize(s)
	}
	return s + "s"
}

var rules = inflect.NewDefaultRuleset()

// InverseNaming is the strategy used to pluralize the names of list-typed
// inverse fields, for example the Task side of a 0:1 User relationship.
type InverseNaming int

const (
	// InverseSuffix appends "s" to the singular name.
	InverseSuffix InverseNaming = iota
	// InverseInflect applies English pluralization rules.
	InverseInflect
)

// String returns the strategy name.
func (n InverseNaming) String() string {
	switch n {
	case InverseSuffix:
		return "suffix"
	case InverseInflect:
		return "inflect"
	default:
		return fmt.Sprintf("InverseNaming(%d)", int(n))
	}
}

// ParseInverseNaming returns the strategy with the given name.
func ParseInverseNaming(s string) (InverseNaming, error) {
	switch strings.ToLower(s) {
	case "", "suffix":
		return InverseSuffix, nil
	case "inflect":
		return InverseInflect, nil
	default:
		return 0, NewConfigError("InverseNaming", s, "unsupported strategy; use suffix or inflect")
	}
}
