// =============================================================================
// grape - Build Pipeline
// =============================================================================
//
// This module orchestrates one build run, from manifest to Maven exit code.
//
// BUILD PIPELINE:
//   1. Read and validate the manifest
//   2. Lint the descriptor (warnings only)
//   3. Transform the template POM
//   4. Write the build POM atomically (or print it for a dry run)
//   5. Map the stage to Maven goals and run them
//   6. Write the build summary, when a report directory is configured
//
// Every step fails fast. A failed read means the template is never opened; a
// failed transform means nothing is written.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/grape-build/grape/internal/config"
	"github.com/grape-build/grape/internal/manifest"
	"github.com/grape-build/grape/internal/maven"
	"github.com/grape-build/grape/internal/pom"
	"github.com/grape-build/grape/internal/validation"
	"github.com/grape-build/grape/pkg/utils"
)

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options configures one run.
type Options struct {
	// ManifestPath is the .grape or .xlsx manifest to build.
	ManifestPath string

	// Settings holds template, namespace and Maven settings.
	// Default: config.Default()
	Settings *config.Settings

	// DryRun prints the build POM to Stdout and skips both the write and
	// the Maven build.
	DryRun bool

	// Stdout receives the dry-run document.
	// Default: os.Stdout
	Stdout io.Writer

	// Runner executes Maven.
	// Default: a maven.Invoker built from Settings
	Runner maven.Runner

	// Logger receives progress lines.
	Logger Logger
}

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in the build summary.
	RunID string

	// OutputPath is the generated POM. Empty for dry runs.
	OutputPath string

	// Dependencies is the number of dependencies injected.
	Dependencies int

	// Stage is the manifest's stage option.
	Stage string

	// Invoked reports whether Maven was started.
	Invoked bool

	// ExitCode is Maven's exit status, 0 when Maven did not run.
	ExitCode int

	// Issues are the lint warnings for the descriptor.
	Issues []*validation.Issue

	// SummaryPath is the build summary file, if one was written.
	SummaryPath string

	Duration time.Duration
}

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the build pipeline.
//
// RETURNS:
//   - The Result. It is nil when the run fails before Maven starts; a failed
//     Maven build still returns it so callers can report the exit code.
//   - An error for the first failing step. Maven failures wrap *maven.ExitError.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	settings := opts.Settings
	log := opts.Logger

	startTime := time.Now()
	result := &Result{RunID: utils.NewRunID()}

	// =========================================================================
	// STEP 1: READ MANIFEST
	// =========================================================================

	log.Info("loading dependencies from %s...", opts.ManifestPath)

	descriptor, err := manifest.Read(opts.ManifestPath, settings.Delimiter)
	if err != nil {
		return nil, err
	}

	result.Stage = descriptor.Stage()
	result.Dependencies = len(descriptor.Dependencies)
	log.Debug("read %d dependencies, stage %q", len(descriptor.Dependencies), descriptor.Stage())
	for _, dep := range descriptor.Dependencies {
		log.Debug("%s", dep)
	}

	// =========================================================================
	// STEP 2: LINT
	// =========================================================================

	result.Issues = validation.Lint(descriptor)
	for _, issue := range result.Issues {
		log.Warn("%s", issue.Error())
	}

	// =========================================================================
	// STEP 3: TRANSFORM TEMPLATE
	// =========================================================================

	templatePath := settings.TemplatePath()
	log.Info("injecting dependencies into %s...", templatePath)

	doc, err := pom.Transform(templatePath, descriptor, settings.Namespace)
	if err != nil {
		return nil, err
	}
	doc.Indent = settings.Indent

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	if opts.DryRun {
		data, err := doc.Bytes()
		if err != nil {
			return nil, err
		}
		if _, err := opts.Stdout.Write(data); err != nil {
			return nil, fmt.Errorf("failed to print document: %w", err)
		}
		result.Duration = time.Since(startTime)
		return result, nil
	}

	outputPath := settings.OutputPath()
	if err := doc.WriteFile(outputPath); err != nil {
		return nil, err
	}
	result.OutputPath = outputPath
	log.Info("wrote %s", outputPath)

	// =========================================================================
	// STEP 5: RUN MAVEN
	// =========================================================================

	var buildErr error
	goals, runnable := maven.GoalsFor(descriptor.Stage())
	if runnable {
		log.Info("building project (%s)...", descriptor.Stage())
		result.Invoked = true

		if err := opts.Runner.Run(ctx, settings.TemplateDir, settings.OutputFile, goals); err != nil {
			result.ExitCode = maven.ExitCode(err)
			buildErr = fmt.Errorf("build failed: %w", err)
		}
	} else {
		log.Debug("stage %q runs no build", descriptor.Stage())
	}

	result.Duration = time.Since(startTime)

	// =========================================================================
	// STEP 6: BUILD SUMMARY
	// =========================================================================

	if settings.ReportDir != "" {
		summaryPath, err := writeSummary(opts, descriptor, result, startTime)
		if err != nil {
			// Log the error but don't fail the build.
			log.Warn("failed to write build summary: %v", err)
		} else {
			result.SummaryPath = summaryPath
			log.Debug("wrote build summary %s", summaryPath)
		}
	}

	return result, buildErr
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func withDefaults(opts Options) Options {
	if opts.Settings == nil {
		opts.Settings = config.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = &defaultLogger{}
	}
	if opts.Runner == nil {
		opts.Runner = maven.NewInvoker(opts.Settings.MavenBinary, opts.Settings.MavenArgs)
	}
	return opts
}

func writeSummary(opts Options, d *manifest.Descriptor, result *Result, startTime time.Time) (string, error) {
	deps := make([]string, 0, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		deps = append(deps, dep.String())
	}

	warnings := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		warnings = append(warnings, issue.Error())
	}

	return utils.WriteSummaryLog(utils.BuildSummary{
		RunID:        result.RunID,
		StartTime:    startTime,
		EndTime:      startTime.Add(result.Duration),
		Manifest:     opts.ManifestPath,
		Template:     opts.Settings.TemplatePath(),
		OutputFile:   result.OutputPath,
		Stage:        result.Stage,
		Invoked:      result.Invoked,
		ExitCode:     result.ExitCode,
		Dependencies: deps,
		Warnings:     warnings,
	}, opts.Settings.ReportDir)
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// defaultLogger is a simple logger that prints to stdout.
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	fmt.Printf("[DEBUG] "+msg+"\n", args...)
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}
