package gen

import (
	"fmt"
	"strings"
)

var (
	// FeatureDocComments emits the descriptions and notes of the logical
	// model as documentation comments of the generated models, fields and
	// enums.
	FeatureDocComments = Feature{
		Name:        "doc-comments",
		Stage:       Stable,
		Default:     false,
		Description: "Emits entity, attribute and relationship descriptions as documentation comments",
	}

	// FeatureRelationshipRegistry appends a generic UserDefinedRelationship
	// model that stores relationships created at runtime between any two
	// records, identified by their id and model name.
	FeatureRelationshipRegistry = Feature{
		Name:        "relationship-registry",
		Stage:       Beta,
		Default:     false,
		Description: "Appends a UserDefinedRelationship model for relationships defined at runtime",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureDocComments,
		FeatureRelationshipRegistry,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished,
	// but we expect breaking-changes to their output.
	Alpha

	// Beta features are Alpha features with documented output, no
	// breaking-changes are expected for them.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the lmgen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, error) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, nil
		}
	}
	names := make([]string, 0, len(AllFeatures))
	for _, f := range AllFeatures {
		names = append(names, f.Name)
	}
	return Feature{}, NewConfigError("Features", name, fmt.Sprintf("unknown feature; use one of %s", strings.Join(names, ", ")))
}

// DefaultFeatures returns the features that are enabled by default.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}
