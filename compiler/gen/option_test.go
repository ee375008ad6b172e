package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Managed by the platform team.")(c)

		require.NoError(t, err)
		assert.Equal(t, "Managed by the platform team.", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithPackage(t *testing.T) {
	tests := []struct {
		name    string
		pkg     string
		wantErr bool
	}{
		{"simple", "models", false},
		{"underscore", "tracker_models", false},
		{"empty", "", true},
		{"dash", "my-models", true},
		{"path", "github.com/acme/models", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithPackage(tt.pkg)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pkg, c.Package)
		})
	}
}

func TestWithTarget(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithTarget("./prisma")(c))
	assert.Equal(t, "./prisma", c.Target)

	err := WithTarget("")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithFeatures(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithFeatures(FeatureDocComments, FeatureDocComments)(c))
	assert.Len(t, c.Features, 1)
	assert.True(t, c.FeatureEnabled("doc-comments"))
	assert.False(t, c.FeatureEnabled("relationship-registry"))
}

func TestWithDatasource(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		url      string
		want     *Datasource
		wantErr  bool
	}{
		{"postgresql", "postgresql", "PG_URL", &Datasource{Provider: "postgresql", URL: "PG_URL"}, false},
		{"postgres alias", "postgres", "", &Datasource{Provider: "postgresql", URL: DefaultDatasourceURL}, false},
		{"case", "SQLite", "file:./dev.db", &Datasource{Provider: "sqlite", URL: "file:./dev.db"}, false},
		{"unsupported", "oracle", "", nil, true},
		{"empty", "", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithDatasource(tt.provider, tt.url)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				assert.Nil(t, c.Datasource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Datasource)
		})
	}
}

func TestWithClient(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithClient("", "")(c))
	assert.Equal(t, &Client{Provider: DefaultClientProvider}, c.Client)

	require.NoError(t, WithClient("prisma-client-go", "../client")(c))
	assert.Equal(t, &Client{Provider: "prisma-client-go", Output: "../client"}, c.Client)
}

func TestWithInverseNaming(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithInverseNaming(InverseInflect)(c))
	assert.Equal(t, InverseInflect, c.InverseNaming)

	err := WithInverseNaming(InverseNaming(7))(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Equal(t, InverseInflect, c.InverseNaming)
}

func TestApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithHeader("h"),
			WithTarget(""),
			WithPackage("models"),
		)
		require.Error(t, err)
		assert.Equal(t, "h", c.Header)
		assert.Empty(t, c.Package)
	})

	t.Run("applyall collects errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithTarget(""),
			WithPackage("bad-name"),
			WithHeader("h"),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Target")
		assert.Contains(t, err.Error(), "Package")
		assert.Equal(t, "h", c.Header)
	})
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultPackage, c.Package)
	assert.Equal(t, DefaultFeatures(), c.Features)
	assert.Nil(t, c.Datasource)
	assert.Nil(t, c.Client)
	assert.Equal(t, InverseSuffix, c.InverseNaming)

	c, err = NewConfig(WithPackage("tracker"), WithFeatures(FeatureRelationshipRegistry))
	require.NoError(t, err)
	assert.Equal(t, "tracker", c.Package)
	assert.True(t, c.FeatureEnabled(FeatureRelationshipRegistry.Name))

	_, err = NewConfig(WithDatasource("oracle", ""))
	require.Error(t, err)

	assert.Panics(t, func() { MustNewConfig(WithTarget("")) })
	assert.NotPanics(t, func() { MustNewConfig() })
}
