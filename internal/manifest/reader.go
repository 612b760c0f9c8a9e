// =============================================================================
// grape - Manifest Reader
// =============================================================================
//
// This module reads .grape manifests. The format is INI-style, parsed with
// gopkg.in/ini.v1 using settings that mirror the behavior manifests have
// always relied on:
//
//   - "key=value" and "key:value" are both accepted in [Config]
//   - dependency lines may omit the value entirely (boolean keys)
//   - there are no inline comments, so ';' survives inside keys
//   - full-line comments start with '#' or ';'
//   - a key may appear only once per section; ini.v1 would silently keep
//     one copy, so repeats are rejected before the file is loaded
//   - [DEFAULT] options apply to [Config] unless [Config] sets them
//
// PARSING PROCESS:
//   1. Read the file (missing/unreadable -> ErrManifestNotFound)
//   2. Reject repeated keys (*DuplicateEntryError)
//   3. Copy every [DEFAULT] and [Config] option, folding names to lower case
//   4. Split every [Dependencies] key by the delimiter into a Dependency
//   5. Validate required options
//
// =============================================================================

package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// loadOptions configures the INI parser for manifest files.
var loadOptions = ini.LoadOptions{
	AllowBooleanKeys:    true,
	IgnoreInlineComment: true,
	KeyValueDelimiters:  "=:",
}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// Read parses and validates the manifest at path.
//
// Files ending in .xlsx are read as workbooks (see ReadWorkbook); everything
// else is parsed as an INI-style .grape file.
//
// RETURNS:
//   - The validated Descriptor.
//   - ErrManifestNotFound, *MissingSectionError, *DuplicateEntryError,
//     *MalformedDependencyError or *MissingOptionError on failure.
func Read(path, delimiter string) (*Descriptor, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadWorkbook(path, delimiter)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifestNotFound, path, err)
	}

	descriptor, err := Parse(data, delimiter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	descriptor.Source = path

	if err := descriptor.Validate(); err != nil {
		return nil, err
	}

	return descriptor, nil
}

// Parse builds a Descriptor from INI manifest bytes. It does not check for
// required options; callers that need a complete descriptor call Validate.
func Parse(data []byte, delimiter string) (*Descriptor, error) {
	if delimiter == "" {
		return nil, fmt.Errorf("dependency delimiter must not be empty")
	}

	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest syntax: %w", err)
	}

	if err := checkRepeatedKeys(data); err != nil {
		return nil, err
	}

	configSection, err := file.GetSection(ConfigSection)
	if err != nil {
		return nil, &MissingSectionError{Section: ConfigSection}
	}

	dependencySection, err := file.GetSection(DependenciesSection)
	if err != nil {
		return nil, &MissingSectionError{Section: DependenciesSection}
	}

	descriptor := &Descriptor{
		Options:      make(map[string]string, len(configSection.Keys())),
		Dependencies: make([]Dependency, 0, len(dependencySection.Keys())),
	}

	for _, key := range file.Section(ini.DefaultSection).Keys() {
		descriptor.Options[strings.ToLower(key.Name())] = key.Value()
	}
	for _, key := range configSection.Keys() {
		descriptor.Options[strings.ToLower(key.Name())] = key.Value()
	}

	// Only the key text carries the coordinate; any value after '=' is ignored.
	for i, key := range dependencySection.Keys() {
		dep, err := ParseDependency(key.Name(), delimiter)
		if err != nil {
			return nil, &MalformedDependencyError{
				Line:      key.Name(),
				Index:     i + 1,
				Delimiter: delimiter,
			}
		}
		descriptor.Dependencies = append(descriptor.Dependencies, dep)
	}

	return descriptor, nil
}

// checkRepeatedKeys scans the raw manifest for a key written twice in the same
// section. Section headers may repeat; their keys share one namespace.
// Option names compare case-insensitively, dependency keys exactly.
func checkRepeatedKeys(data []byte) error {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	seen := make(map[string]map[string]int)
	section := ini.DefaultSection

	for n, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			if end := strings.IndexByte(line, ']'); end > 0 {
				section = strings.TrimSpace(line[1:end])
			}
			continue
		}

		name := line
		if i := strings.IndexAny(line, loadOptions.KeyValueDelimiters); i >= 0 {
			name = strings.TrimSpace(line[:i])
		}
		if section != DependenciesSection {
			name = strings.ToLower(name)
		}

		keys, ok := seen[section]
		if !ok {
			keys = make(map[string]int)
			seen[section] = keys
		}
		if first, dup := keys[name]; dup {
			return &DuplicateEntryError{Section: section, Key: name, Line: n + 1, FirstLine: first}
		}
		keys[name] = n + 1
	}

	return nil
}

// ParseDependency splits a dependency key into its three coordinate tokens.
// A single trailing delimiter is tolerated ("org.a;lib1;1.2;").
func ParseDependency(line, delimiter string) (Dependency, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(line), delimiter)

	parts := strings.Split(trimmed, delimiter)
	if len(parts) != 3 {
		return Dependency{}, fmt.Errorf("expected 3 tokens, got %d", len(parts))
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Dependency{}, fmt.Errorf("token %d is empty", i+1)
		}
	}

	return Dependency{
		GroupID:    parts[0],
		ArtifactID: parts[1],
		Version:    parts[2],
	}, nil
}
