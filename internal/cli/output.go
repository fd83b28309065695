// Package cli provides the command-line interface for the trade gate log.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && isTerminal(),
	}
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.colored(ColorGreen, format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.colored(ColorRed, format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.colored(ColorYellow, format, args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.colored(ColorCyan, format, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.colored(ColorBold, format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.colored(ColorDim, format, args...)
}

// colored prints a colored message.
func (o *Output) colored(color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s%s%s\n", color, msg, ColorReset)
	} else {
		fmt.Fprintln(o.writer, msg)
	}
}

// ColoredString returns a colored string without newline.
func (o *Output) ColoredString(color, text string) string {
	if o.colorEnabled {
		return color + text + ColorReset
	}
	return text
}

// Table represents a simple table for output.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		output:  output,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(stripANSI(h))
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if cellLen := len(stripANSI(cell)); cellLen > widths[i] {
					widths[i] = cellLen
				}
			}
		}
	}

	t.printRow(t.headers, widths, true)
	t.printSeparator(widths)
	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool) {
	var parts []string
	for i, cell := range cells {
		if i < len(widths) {
			padding := widths[i] - len(stripANSI(cell))
			if padding < 0 {
				padding = 0
			}
			padded := cell + strings.Repeat(" ", padding)
			if isHeader && t.output.colorEnabled {
				padded = ColorBold + padded + ColorReset
			}
			parts = append(parts, padded)
		}
	}
	fmt.Fprintln(t.output.writer, "  "+strings.Join(parts, "  "))
}

func (t *Table) printSeparator(widths []int) {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("-", w))
	}
	fmt.Fprintln(t.output.writer, "  "+strings.Join(parts, "  "))
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI escape codes for width calculation.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
