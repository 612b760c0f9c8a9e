// =============================================================================
// grape - File Manager Utility
// =============================================================================
//
// This module provides the file helpers the build pipeline needs:
//   - Atomic writes (the build POM is either fully written or not at all)
//   - Existence checks for templates
//   - Run IDs and the optional build summary log
//
// ATOMIC WRITE STRATEGY:
//   Content goes to a temp file in the destination directory, is synced, then
//   renamed over the destination. A failure at any step removes the temp file
//   and leaves the previous destination (if any) untouched.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path via a temp file and rename.
//
// PARAMETERS:
//   - path: The destination file. Parent directories are created if needed.
//   - data: The full file content.
//   - perm: The permissions of the final file.
//
// RETURNS:
//   - An error if any step fails. The destination is untouched in that case.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	success = true
	return nil
}

// =============================================================================
// EXISTENCE CHECKS
// =============================================================================

// FileExists checks if a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// =============================================================================
// BUILD SUMMARY
// =============================================================================

// NewRunID returns a unique identifier for one build run.
func NewRunID() string {
	return uuid.New().String()
}

// BuildSummary contains summary information about one build run.
type BuildSummary struct {
	RunID        string
	StartTime    time.Time
	EndTime      time.Time
	Manifest     string
	Template     string
	OutputFile   string
	Stage        string
	Invoked      bool
	ExitCode     int
	Dependencies []string
	Warnings     []string
}

// WriteSummaryLog writes a build summary to a text file in outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary BuildSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := summary.StartTime.Format("20060102_150405")
	summaryFileName := fmt.Sprintf("build_summary_%s_%s.txt", timestamp, shortID(summary.RunID))
	summaryPath := filepath.Join(outputDir, summaryFileName)

	var b strings.Builder
	writer := bufio.NewWriter(&b)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "grape - Build Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Inputs:\n"+
		"  Manifest:       %s\n"+
		"  Template:       %s\n"+
		"  Output:         %s\n\n"+
		"Build:\n"+
		"  Stage:          %s\n"+
		"  Invoked:        %t\n"+
		"  Exit Code:      %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.Manifest,
		summary.Template,
		summary.OutputFile,
		summary.Stage,
		summary.Invoked,
		summary.ExitCode)

	fmt.Fprintf(writer, "Dependencies (%d):\n", len(summary.Dependencies))
	writer.WriteString("--------------------------------------------------------------------------------\n")
	for _, dep := range summary.Dependencies {
		fmt.Fprintf(writer, "  %s\n", dep)
	}
	writer.WriteString("\n")

	if len(summary.Warnings) > 0 {
		writer.WriteString("Warnings:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(writer, "  %s\n", w)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}

	if err := WriteFileAtomic(summaryPath, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}

	return summaryPath, nil
}

// shortID returns the first block of a UUID for file names.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
