// =============================================================================
// grape - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Called with a manifest
// path, the root command runs the build; subcommands cover the rest.
//
// COBRA CLI STRUCTURE:
//   rootCmd (grape <manifest>)
//   ├── validateCmd (grape validate <manifest>)
//   └── versionCmd (grape version)
//
// EXIT CODES:
//   0  success
//   1  grape failed (missing manifest, malformed manifest or template, I/O)
//   N  Maven ran and exited with status N
//
// =============================================================================

package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grape-build/grape/internal/maven"
	"github.com/grape-build/grape/internal/ui"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the settings file. Empty means grape.yaml when
// present, else defaults.
var cfgFile string

// templateDir overrides the template_dir setting when non-empty.
var templateDir string

// verbose enables debug output when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "grape <manifest>",
	Short: "grape - Build configured dependencies into one Maven project",

	Long: `grape reads a .grape manifest, injects its dependencies into a template
pom.xml and hands the result to Maven.

A manifest has two sections:

  [Config]
  version=1.0
  groupid=com.example
  artifactid=demo
  stage=package          # package | deploy | anything else skips Maven

  [Dependencies]
  org.a;lib1;1.2
  org.b;lib2;3.4

The generated POM is written next to the template as pom-build.xml and built
with "mvn clean <stage> -f pom-build.xml" inside the template directory.

Example Usage:
  grape build.grape                     # Build with the grape-plain template
  grape build.grape -t templates/api    # Use another template directory
  grape build.grape --dry-run           # Print the generated POM only
  grape validate build.grape            # Check manifest and template`,

	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBuild,
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI and exits with the resulting status code.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command tree with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	console := &ui.Console{Out: stdout, Err: stderr, Verbose: verbose}
	console.Error("%v", err)
	return maven.ExitCode(err)
}

// usageError is a user-facing failure that is reported without the
// underlying error chain.
type usageError struct {
	msg string
	err error
}

func (e *usageError) Error() string { return e.msg }

func (e *usageError) Unwrap() error { return e.err }

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the settings file (default is grape.yaml when present)",
	)

	rootCmd.PersistentFlags().StringVarP(
		&templateDir,
		"template",
		"t",
		"",
		"Path to the template folder (default is grape-plain)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
