// =============================================================================
// grape - Configuration Module
// =============================================================================
//
// This module loads the tool settings. The settings describe WHERE grape finds
// its template and HOW it talks to Maven; the per-build data (options and
// dependencies) lives in the manifest, not here.
//
// CONFIGURATION SOURCES (first match wins):
//   1. The file passed with --config (a missing file is an error)
//   2. grape.yaml in the working directory, when present
//   3. Built-in defaults
//
// EXAMPLE grape.yaml:
//
//   template_dir: grape-plain
//   template_file: pom.xml
//   output_file: pom-build.xml
//   namespace: http://maven.apache.org/POM/4.0.0
//   delimiter: ";"
//   indent: 2
//   maven_binary: mvn
//   maven_args: ["-B"]
//   report_dir: ./reports
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the settings file picked up from the working directory.
const DefaultFile = "grape.yaml"

// =============================================================================
// SETTINGS STRUCTURE
// =============================================================================

// Settings holds the tool configuration.
type Settings struct {
	// =========================================================================
	// TEMPLATE SETTINGS
	// =========================================================================

	// TemplateDir is the directory holding the template POM. Maven runs here.
	// Default: "grape-plain"
	TemplateDir string `yaml:"template_dir"`

	// TemplateFile is the template POM name inside TemplateDir.
	// Default: "pom.xml"
	TemplateFile string `yaml:"template_file"`

	// OutputFile is the generated POM name inside TemplateDir.
	// Default: "pom-build.xml"
	OutputFile string `yaml:"output_file"`

	// Namespace is the XML namespace of the template's elements.
	// Default: "http://maven.apache.org/POM/4.0.0"
	Namespace string `yaml:"namespace"`

	// Indent is the number of spaces per level in the generated POM.
	// Default: 2
	Indent int `yaml:"indent"`

	// =========================================================================
	// MANIFEST SETTINGS
	// =========================================================================

	// Delimiter separates group, artifact and version in dependency keys.
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// =========================================================================
	// MAVEN SETTINGS
	// =========================================================================

	// MavenBinary is the Maven executable.
	// Default: "mvn"
	MavenBinary string `yaml:"maven_binary"`

	// MavenArgs are extra arguments placed before the goals, e.g. ["-B"].
	MavenArgs []string `yaml:"maven_args"`

	// =========================================================================
	// REPORTING
	// =========================================================================

	// ReportDir receives a build summary per run. Empty disables the summary.
	ReportDir string `yaml:"report_dir"`
}

// TemplatePath returns the full path of the template POM.
func (s *Settings) TemplatePath() string {
	return filepath.Join(s.TemplateDir, s.TemplateFile)
}

// OutputPath returns the full path of the generated POM.
func (s *Settings) OutputPath() string {
	return filepath.Join(s.TemplateDir, s.OutputFile)
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns the built-in settings.
func Default() *Settings {
	settings := &Settings{}
	applyDefaults(settings)
	return settings
}

// Load loads the settings from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the settings file. It must exist.
//
// RETURNS:
//   - A pointer to the loaded Settings with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Settings, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Apply default values.
	applyDefaults(&settings)

	// Validate the configuration.
	if err := validate(&settings); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &settings, nil
}

// Resolve picks the settings source. An explicit path must exist; without one,
// DefaultFile in the working directory is used when present, else Default().
func Resolve(explicitPath string) (*Settings, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}

	if _, err := os.Stat(DefaultFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", DefaultFile, err)
	}

	return Load(DefaultFile)
}

// applyDefaults sets default values for any unset fields.
func applyDefaults(settings *Settings) {
	if settings.TemplateDir == "" {
		settings.TemplateDir = "grape-plain"
	}
	if settings.TemplateFile == "" {
		settings.TemplateFile = "pom.xml"
	}
	if settings.OutputFile == "" {
		settings.OutputFile = "pom-build.xml"
	}
	if settings.Namespace == "" {
		settings.Namespace = "http://maven.apache.org/POM/4.0.0"
	}
	if settings.Indent == 0 {
		settings.Indent = 2
	}
	if settings.Delimiter == "" {
		settings.Delimiter = ";"
	}
	if settings.MavenBinary == "" {
		settings.MavenBinary = "mvn"
	}
}

// validate checks values that defaults cannot repair.
func validate(settings *Settings) error {
	if settings.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", settings.Indent)
	}

	if filepath.Clean(settings.TemplateFile) == filepath.Clean(settings.OutputFile) {
		// Writing over the template would make repeated runs accumulate
		// dependencies.
		return fmt.Errorf("output_file must differ from template_file (%s)", settings.TemplateFile)
	}

	return nil
}
