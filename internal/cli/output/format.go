// Package output formats tmppg command results: key/value tables for humans,
// JSON or YAML for scripts.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Format selects how results are rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses the --output flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

func (f Format) String() string { return string(f) }

// Printer writes results in one configured format.
type Printer struct {
	out    io.Writer
	format Format
	color  bool
}

func NewPrinter(out io.Writer, format Format, color bool) *Printer {
	return &Printer{out: out, format: format, color: color}
}

// DefaultPrinter writes tables to stdout.
func DefaultPrinter() *Printer {
	return NewPrinter(os.Stdout, FormatTable, true)
}

func (p *Printer) Format() Format    { return p.format }
func (p *Printer) Writer() io.Writer { return p.out }

// Print renders a result. Table format expects a KV; the structured formats
// marshal data directly.
func (p *Printer) Print(data any) error {
	switch p.format {
	case FormatTable:
		if kv, ok := data.(KV); ok {
			return PrintKV(p.out, kv)
		}
		return PrintJSON(p.out, data)
	case FormatJSON:
		return PrintJSON(p.out, data)
	case FormatYAML:
		return PrintYAML(p.out, data)
	default:
		return fmt.Errorf("unknown format: %s", p.format)
	}
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) Println(args ...any) {
	_, _ = fmt.Fprintln(p.out, args...)
}

// Success prints msg, green when color is on.
func (p *Printer) Success(msg string) {
	if p.color {
		_, _ = fmt.Fprintf(p.out, "\033[32m%s\033[0m\n", msg)
		return
	}
	_, _ = fmt.Fprintln(p.out, msg)
}

// Error prints msg, red when color is on.
func (p *Printer) Error(msg string) {
	if p.color {
		_, _ = fmt.Fprintf(p.out, "\033[31m%s\033[0m\n", msg)
		return
	}
	_, _ = fmt.Fprintln(p.out, msg)
}
