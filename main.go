// =============================================================================
// grape - Main Entry Point
// =============================================================================
//
// USAGE:
//   grape <manifest> [-t template]   - Build the manifest's dependencies
//   grape validate <manifest>        - Check manifest and template only
//   grape version                    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Manifest reading, POM transformation, Maven invocation
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/grape-build/grape/cmd"
)

func main() {
	cmd.Execute()
}
