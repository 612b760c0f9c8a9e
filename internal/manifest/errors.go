package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrManifestNotFound is returned when the manifest path does not exist or
// cannot be read. It wraps the underlying fs error.
var ErrManifestNotFound = errors.New("manifest not found")

// MissingSectionError reports an absent [Config] or [Dependencies] section
// (or sheet, for workbook manifests).
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("manifest has no [%s] section", e.Section)
}

// DuplicateEntryError reports a key written more than once in one section.
// Lines are 1-based positions in the manifest file.
type DuplicateEntryError struct {
	Section   string
	Key       string
	Line      int
	FirstLine int
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("manifest [%s] repeats %q on line %d (first on line %d)",
		e.Section, e.Key, e.Line, e.FirstLine)
}

// MalformedDependencyError reports a dependency key that does not split into
// exactly three non-empty tokens.
type MalformedDependencyError struct {
	// Line is the dependency key as written in the manifest.
	Line string

	// Index is the 1-based position of the entry in the Dependencies section.
	Index int

	// Delimiter is the separator the key was split with.
	Delimiter string
}

func (e *MalformedDependencyError) Error() string {
	return fmt.Sprintf("malformed dependency #%d %q: expected group%sartifact%sversion",
		e.Index, e.Line, e.Delimiter, e.Delimiter)
}

// MissingOptionError lists required Config options that are absent.
type MissingOptionError struct {
	Section string
	Keys    []string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("manifest [%s] is missing required option(s): %s",
		e.Section, strings.Join(e.Keys, ", "))
}
