// =============================================================================
// grape - Descriptor Model
// =============================================================================
//
// This package turns a .grape manifest into an in-memory Descriptor. A manifest
// has two named sections:
//
//   [Config]
//   version=1.0
//   groupid=com.example
//   artifactid=demo
//   stage=package
//
//   [Dependencies]
//   org.a;lib1;1.2
//   org.b;lib2;3.4 = anything
//
// The Descriptor is created once per run, validated right after parsing and
// read-only afterwards.
//
// =============================================================================

package manifest

import (
	"fmt"
	"sort"
)

// =============================================================================
// SECTION AND OPTION NAMES
// =============================================================================

const (
	// ConfigSection holds the scalar build options.
	ConfigSection = "Config"

	// DependenciesSection holds the delimited dependency coordinates.
	DependenciesSection = "Dependencies"

	// DefaultDelimiter separates the three coordinate tokens of a dependency key.
	DefaultDelimiter = ";"
)

// Option keys recognized in the Config section.
const (
	OptionVersion    = "version"
	OptionGroupID    = "groupid"
	OptionArtifactID = "artifactid"
	OptionStage      = "stage"
)

// RequiredOptions lists the option keys that must be present after parsing.
var RequiredOptions = []string{
	OptionVersion,
	OptionGroupID,
	OptionArtifactID,
	OptionStage,
}

// =============================================================================
// DEPENDENCY
// =============================================================================

// Dependency is one external library coordinate merged into the build POM.
// Values are opaque; no semver or namespace syntax is checked.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// String renders the coordinate as group/artifact:version.
func (d Dependency) String() string {
	return fmt.Sprintf("%s/%s:%s", d.GroupID, d.ArtifactID, d.Version)
}

// Key returns the group/artifact pair without the version.
func (d Dependency) Key() string {
	return d.GroupID + "/" + d.ArtifactID
}

// =============================================================================
// DESCRIPTOR
// =============================================================================

// Descriptor aggregates the build options and the ordered dependency list of
// one manifest.
type Descriptor struct {
	// Source is the path the descriptor was read from. Empty for in-memory parses.
	Source string

	// Options holds every key of the Config section. Option names are folded
	// to lower case by the reader; values are copied verbatim.
	Options map[string]string

	// Dependencies preserves the line order of the Dependencies section.
	Dependencies []Dependency
}

// Option returns the value of an option and whether it was present.
func (d *Descriptor) Option(key string) (string, bool) {
	v, ok := d.Options[key]
	return v, ok
}

// Version returns the project version option.
func (d *Descriptor) Version() string { return d.Options[OptionVersion] }

// GroupID returns the project groupId option.
func (d *Descriptor) GroupID() string { return d.Options[OptionGroupID] }

// ArtifactID returns the project artifactId option.
func (d *Descriptor) ArtifactID() string { return d.Options[OptionArtifactID] }

// Stage returns the selected terminal action (package, deploy or anything else).
func (d *Descriptor) Stage() string { return d.Options[OptionStage] }

// Validate checks that every required option is present. All absent keys are
// reported at once in a single MissingOptionError.
func (d *Descriptor) Validate() error {
	var missing []string
	for _, key := range RequiredOptions {
		if _, ok := d.Options[key]; !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingOptionError{Section: ConfigSection, Keys: missing}
	}

	return nil
}
