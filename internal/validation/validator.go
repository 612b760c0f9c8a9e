// =============================================================================
// grape - Descriptor Lint
// =============================================================================
//
// The manifest reader already rejects descriptors that cannot be built at all
// (missing sections, malformed coordinates, missing options). This module looks
// for descriptors that CAN be built but probably not the way the author meant:
//   - A stage that runs no Maven build
//   - The same group/artifact listed twice
//   - Option keys grape does not read (usually typos)
//   - Identity options that are present but empty
//
// ERROR HANDLING:
//   - Issues are collected, not returned as errors
//   - Every lint issue is a warning; TreatWarningsAsErrors turns them fatal
//     for `grape validate --strict`
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grape-build/grape/internal/manifest"
	"github.com/grape-build/grape/internal/maven"
)

// SeverityWarning marks an issue that does not stop a build. Coordinates are
// opaque to grape, so no lint check is fatal on its own.
const SeverityWarning = "warning"

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Issue represents a single lint finding.
type Issue struct {
	// Severity is SeverityWarning.
	Severity string

	// Field is the option key, or "dependencies" for coordinate issues.
	Field string

	// Value is the offending value.
	Value string

	// Rule names the check that fired.
	Rule string

	// Message is a human-readable explanation.
	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("[%s] %s '%s': %s", strings.ToUpper(i.Severity), i.Field, i.Value, i.Message)
}

// Result contains the outcome of linting one descriptor.
type Result struct {
	// IsValid is false only when warnings are treated as errors and any
	// warning was found.
	IsValid bool

	Issues       []*Issue
	WarningCount int
}

// Options contains options for linting.
type Options struct {
	// TreatWarningsAsErrors makes any warning invalidate the result.
	TreatWarningsAsErrors bool
}

// =============================================================================
// MAIN LINT FUNCTION
// =============================================================================

// Lint runs every check and returns the issues found, in a stable order.
func Lint(d *manifest.Descriptor) []*Issue {
	return Check(d, Options{}).Issues
}

// Check runs every check and summarizes the issues.
func Check(d *manifest.Descriptor, opts Options) *Result {
	result := &Result{IsValid: true}

	var issues []*Issue
	issues = append(issues, checkStage(d)...)
	issues = append(issues, checkIdentity(d)...)
	issues = append(issues, checkUnknownOptions(d)...)
	issues = append(issues, checkDuplicates(d)...)

	result.Issues = issues
	result.WarningCount = len(issues)
	if opts.TreatWarningsAsErrors && result.WarningCount > 0 {
		result.IsValid = false
	}

	return result
}

// =============================================================================
// CHECKS
// =============================================================================

func checkStage(d *manifest.Descriptor) []*Issue {
	stage, ok := d.Option(manifest.OptionStage)
	if !ok {
		return nil
	}
	if _, runnable := maven.GoalsFor(stage); runnable {
		return nil
	}

	return []*Issue{{
		Severity: SeverityWarning,
		Field:    manifest.OptionStage,
		Value:    stage,
		Rule:     "stage",
		Message:  fmt.Sprintf("no Maven build runs; use %q or %q", maven.StagePackage, maven.StageDeploy),
	}}
}

func checkIdentity(d *manifest.Descriptor) []*Issue {
	var issues []*Issue
	for _, key := range []string{manifest.OptionGroupID, manifest.OptionArtifactID, manifest.OptionVersion} {
		value, ok := d.Option(key)
		if ok && strings.TrimSpace(value) == "" {
			issues = append(issues, &Issue{
				Severity: SeverityWarning,
				Field:    key,
				Rule:     "empty",
				Message:  "option is empty; the generated POM gets an empty element",
			})
		}
	}
	return issues
}

func checkUnknownOptions(d *manifest.Descriptor) []*Issue {
	known := make(map[string]bool, len(manifest.RequiredOptions))
	for _, key := range manifest.RequiredOptions {
		known[key] = true
	}

	var unknown []string
	for key := range d.Options {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	issues := make([]*Issue, 0, len(unknown))
	for _, key := range unknown {
		issues = append(issues, &Issue{
			Severity: SeverityWarning,
			Field:    key,
			Value:    d.Options[key],
			Rule:     "unknown-option",
			Message:  "option is not used by grape",
		})
	}
	return issues
}

func checkDuplicates(d *manifest.Descriptor) []*Issue {
	firstSeen := make(map[string]int, len(d.Dependencies))

	var issues []*Issue
	for i, dep := range d.Dependencies {
		key := dep.Key()
		if first, ok := firstSeen[key]; ok {
			issues = append(issues, &Issue{
				Severity: SeverityWarning,
				Field:    "dependencies",
				Value:    dep.String(),
				Rule:     "duplicate",
				Message: fmt.Sprintf("#%d repeats %s from #%d (%s)",
					i+1, key, first+1, d.Dependencies[first].Version),
			})
			continue
		}
		firstSeen[key] = i
	}
	return issues
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatIssues formats issues for display or logging.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Lint completed with %d issue(s):\n\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}
