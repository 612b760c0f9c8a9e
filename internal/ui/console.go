// Package ui provides colored console output for the grape CLI.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Colors
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Cyan   = color.New(color.FgCyan)
	Faint  = color.New(color.Faint)
)

// Console writes progress lines. Debug output is shown only when Verbose is set.
type Console struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
}

// Debug prints a faint line when verbose.
func (c *Console) Debug(format string, args ...interface{}) {
	if !c.Verbose {
		return
	}
	Faint.Fprintf(c.Out, "  "+format+"\n", args...)
}

// Info prints a plain progress line.
func (c *Console) Info(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

// Warn prints a yellow warning.
func (c *Console) Warn(format string, args ...interface{}) {
	Yellow.Fprintf(c.Err, "⚠ "+format+"\n", args...)
}

// Error prints a red error.
func (c *Console) Error(format string, args ...interface{}) {
	Red.Fprintf(c.Err, "✗ "+format+"\n", args...)
}

// Success prints a green success message with checkmark.
func (c *Console) Success(format string, args ...interface{}) {
	Green.Fprintf(c.Out, "✓ "+format+"\n", args...)
}

// Step prints a numbered step in cyan.
func (c *Console) Step(n int, format string, args ...interface{}) {
	Cyan.Fprintf(c.Out, "[%d] ", n)
	fmt.Fprintf(c.Out, format+"\n", args...)
}
