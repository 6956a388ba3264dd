package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conduit-lang/schemagen/internal/typegraph"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the message formatting
type ErrorOptions struct {
	Level   ErrorLevel
	Context string
	Problem string
	// Details are listed one per line below the problem.
	Details      []string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

type levelStyle struct {
	symbol string
	attr   color.Attribute
}

var levelStyles = map[ErrorLevel]levelStyle{
	ErrorLevelError:   {"❌", color.FgRed},
	ErrorLevelWarning: {"⚠️", color.FgYellow},
	ErrorLevelInfo:    {"ℹ️", color.FgCyan},
}

// FormatError builds a message block:
//
//	❌ TYPE NOT FOUND
//	   No type 'Patiant' in version R4.
//
//	   Did you mean: Patient?
//
//	   → List types: schemagen inspect R4
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	style := levelStyles[opts.Level]
	head := color.New(style.attr, color.Bold)
	body := color.New(style.attr)
	hint := color.New(color.FgYellow)
	cmd := color.New(color.FgCyan)
	if opts.NoColor {
		for _, c := range []*color.Color{head, body, hint, cmd} {
			c.DisableColor()
		}
	}

	if opts.Context != "" {
		head.Fprintf(&b, "%s %s\n", style.symbol, strings.ToUpper(opts.Context))
		if opts.Problem != "" {
			body.Fprintf(&b, "   %s\n", opts.Problem)
		}
	} else {
		head.Fprintf(&b, "%s %s\n", style.symbol, opts.Problem)
	}

	if len(opts.Details) > 0 {
		b.WriteString("\n")
		for _, d := range opts.Details {
			body.Fprintf(&b, "   %s\n", d)
		}
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		hint.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, c := range opts.HelpCommands {
			cmd.Fprintf(&b, "   → %s\n", c)
		}
	}

	return b.String()
}

// WriteError writes a formatted message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// TypeNotFoundError reports an unknown type name in a version.
func TypeNotFoundError(version, name string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "type not found",
		Problem:     fmt.Sprintf("No type '%s' in version %s.", name, version),
		Suggestions: suggestions,
		HelpCommands: []string{
			"List types: schemagen inspect " + version,
		},
		NoColor: noColor,
	})
}

// VersionNotFoundError reports a version missing from the configuration.
func VersionNotFoundError(name string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "version not configured",
		Problem:     fmt.Sprintf("Version '%s' is not listed in the configuration.", name),
		Suggestions: suggestions,
		HelpCommands: []string{
			"Add it under 'versions' in schemagen.yaml",
		},
		NoColor: noColor,
	})
}

// GraphError reports a version whose type graph was rejected, one line per
// fatal diagnostic. Errors that carry no diagnostics are shown as-is.
func GraphError(version string, err error, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelError,
		Context: "version " + version + " failed",
		HelpCommands: []string{
			"Show warnings too: schemagen inspect " + version + " --diagnostics",
		},
		NoColor: noColor,
	}

	var list typegraph.ErrorList
	if errors.As(err, &list) {
		errs := list.Errors()
		opts.Problem = fmt.Sprintf("The type graph was rejected with %d error(s).", len(errs))
		for _, e := range errs {
			line := fmt.Sprintf("[%s] %s", e.Code, e.Message)
			if e.TypeName != "" {
				line = fmt.Sprintf("[%s] %s: %s", e.Code, e.TypeName, e.Message)
			}
			opts.Details = append(opts.Details, line)
		}
	} else {
		opts.Problem = err.Error()
		opts.HelpCommands = nil
	}
	return FormatError(opts)
}

// ConfigError reports an unusable configuration
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "configuration error",
		Problem: message,
		HelpCommands: []string{
			"View config: cat schemagen.yaml",
			"Get help: schemagen --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a warning message
func Warning(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelWarning,
		Problem:     message,
		Suggestions: suggestions,
		NoColor:     noColor,
	})
}
