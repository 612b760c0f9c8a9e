// =============================================================================
// grape - Build Command
// =============================================================================
//
// This file holds the root command's action: resolve settings, run the build
// pipeline and translate its outcome into console output.
//
// FLAGS:
//   --dry-run : Print the generated POM instead of writing it and building
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grape-build/grape/internal/config"
	"github.com/grape-build/grape/internal/manifest"
	"github.com/grape-build/grape/internal/maven"
	"github.com/grape-build/grape/internal/pipeline"
	"github.com/grape-build/grape/internal/ui"
)

// dryRun prints the generated POM without writing it or running Maven.
var dryRun bool

// newRunner builds the Maven runner for a run. Tests replace it.
var newRunner = func(settings *config.Settings) maven.Runner {
	return maven.NewInvoker(settings.MavenBinary, settings.MavenArgs)
}

// runBuild is the main function for the root command.
func runBuild(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	console := &ui.Console{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr(), Verbose: verbose}
	if dryRun {
		// Keep stdout clean for the document itself.
		console.Out = cmd.ErrOrStderr()
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	console.Debug("template %s, output %s", settings.TemplatePath(), settings.OutputPath())

	runner := newRunner(settings)
	if inv, ok := runner.(*maven.Invoker); ok {
		inv.Stdout = cmd.OutOrStdout()
		inv.Stderr = cmd.ErrOrStderr()
	}

	result, err := pipeline.Run(cmd.Context(), pipeline.Options{
		ManifestPath: manifestPath,
		Settings:     settings,
		DryRun:       dryRun,
		Stdout:       cmd.OutOrStdout(),
		Runner:       runner,
		Logger:       console,
	})
	if err != nil {
		if errors.Is(err, manifest.ErrManifestNotFound) {
			return invalidManifest(manifestPath, settings.Delimiter, err)
		}
		return err
	}

	if dryRun {
		return nil
	}

	if result.Invoked {
		console.Success("Done. %d dependencies built into %s", result.Dependencies, result.OutputPath)
	} else {
		console.Success("Done. Wrote %s (stage %q runs no build)", result.OutputPath, result.Stage)
	}
	return nil
}

// invalidManifest reports a manifest path that cannot be read.
func invalidManifest(path, delimiter string, err error) error {
	return &usageError{
		msg: fmt.Sprintf("invalid config '%s', has to be a valid .grape file with '%s' delimiter", path, delimiter),
		err: err,
	}
}

// loadSettings resolves the settings file and applies the --template override.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Resolve(cfgFile)
	if err != nil {
		return nil, err
	}

	if templateDir != "" {
		settings.TemplateDir = templateDir
	}

	return settings, nil
}

func init() {
	rootCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Print the generated POM instead of writing it and running Maven",
	)
}
