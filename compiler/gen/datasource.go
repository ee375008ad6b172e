package gen

import (
	"fmt"
	"slices"
	"strings"
)

// Datasource configures the datasource block of a generated schema.
type Datasource struct {
	// Provider is the database connector, e.g. postgresql.
	Provider string
	// URL is either the name of the environment variable holding the
	// connection string, or a literal URL when it contains a colon.
	URL string
}

// DefaultDatasourceURL is the environment variable read by the generated
// datasource block when no URL is configured.
const DefaultDatasourceURL = "DATABASE_URL"

// providers holds the datasource providers accepted by NewDatasource.
var providers = []string{"postgresql", "mysql", "sqlite", "sqlserver", "cockroachdb", "mongodb"}

// Providers returns the supported datasource providers.
func Providers() []string {
	return slices.Clone(providers)
}

// NewDatasource returns a datasource for the given provider. It fails if the
// provider is not supported. An empty url defaults to DefaultDatasourceURL.
func NewDatasource(provider, url string) (*Datasource, error) {
	provider = strings.ToLower(provider)
	if provider == "postgres" {
		provider = "postgresql"
	}
	if !slices.Contains(providers, provider) {
		return nil, NewConfigError("Datasource", provider,
			fmt.Sprintf("unsupported provider; use one of %s", strings.Join(providers, ", ")))
	}
	if url == "" {
		url = DefaultDatasourceURL
	}
	return &Datasource{Provider: provider, URL: url}, nil
}

// Env reports whether URL names an environment variable.
func (d *Datasource) Env() bool {
	return !strings.Contains(d.URL, ":")
}

// String implements the fmt.Stringer interface.
func (d *Datasource) String() string { return d.Provider }

// Client configures the client generator block of a generated schema.
type Client struct {
	// Provider of the generator, e.g. prisma-client-js.
	Provider string
	// Output is an optional output directory of the generated client.
	Output string
}

// DefaultClientProvider is used when a client block is requested without
// a provider.
const DefaultClientProvider = "prisma-client-js"
