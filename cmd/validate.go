// =============================================================================
// grape - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It runs every check the build
// would run without writing anything or starting Maven.
//
// COMMAND USAGE:
//   grape validate <manifest> [-t template] [--strict]
//
// CHECKS:
//   1. The manifest parses and has every required option
//   2. Lint warnings (stage, duplicates, unknown options)
//   3. The template parses and has a <dependencies> element
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grape-build/grape/internal/manifest"
	"github.com/grape-build/grape/internal/pom"
	"github.com/grape-build/grape/internal/ui"
	"github.com/grape-build/grape/internal/validation"
	"github.com/grape-build/grape/pkg/utils"
)

// strict fails validation on lint warnings.
var strict bool

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate <manifest>",
	Short: "Check a manifest and its template without building",
	Long: `The validate command reads the manifest, lints it and checks that the
template has a <dependencies> element. Nothing is written and Maven is not run.

With --strict, lint warnings fail the command.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]
	console := &ui.Console{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr(), Verbose: verbose}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	console.Step(1, "Reading manifest %s", manifestPath)
	descriptor, err := manifest.Read(manifestPath, settings.Delimiter)
	if err != nil {
		if errors.Is(err, manifest.ErrManifestNotFound) {
			return invalidManifest(manifestPath, settings.Delimiter, err)
		}
		return err
	}
	console.Debug("%d dependencies, stage %q", len(descriptor.Dependencies), descriptor.Stage())

	console.Step(2, "Linting")
	result := validation.Check(descriptor, validation.Options{TreatWarningsAsErrors: strict})
	if len(result.Issues) > 0 {
		console.Warn("%s", strings.TrimSuffix(validation.FormatIssues(result.Issues), "\n"))
	}

	console.Step(3, "Checking template %s", settings.TemplatePath())
	if !utils.FileExists(settings.TemplatePath()) {
		return fmt.Errorf("template %s not found", settings.TemplatePath())
	}
	doc, err := pom.Load(settings.TemplatePath())
	if err != nil {
		return err
	}
	existing, err := doc.Dependencies(settings.Namespace)
	if err != nil {
		return fmt.Errorf("%s: %w", settings.TemplatePath(), err)
	}
	console.Debug("template already declares %d dependencies", len(existing))

	if !result.IsValid {
		return fmt.Errorf("validation failed with %d issue(s)", len(result.Issues))
	}

	console.Success("%s is valid: %d dependencies, stage %q",
		manifestPath, len(descriptor.Dependencies), descriptor.Stage())
	return nil
}

// init registers the validate command with the root command.
func init() {
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Treat lint warnings as errors")
	rootCmd.AddCommand(validateCmd)
}
