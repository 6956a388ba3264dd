package typegraph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a unique diagnostic code produced while building a type graph.
type ErrorCode string

const (
	// ErrDuplicateDefinition indicates a type was declared more than once.
	ErrDuplicateDefinition ErrorCode = "GRF001"
	// ErrDuplicateProperty indicates a property was declared more than once on one type.
	ErrDuplicateProperty ErrorCode = "GRF002"

	// ErrUnresolvedReference indicates a parent, restriction base or value type was never defined.
	ErrUnresolvedReference ErrorCode = "GRF100"
	// ErrInheritanceCycle indicates a type is its own ancestor.
	ErrInheritanceCycle ErrorCode = "GRF101"
	// ErrMissingName indicates a declaration without a usable name or ref.
	ErrMissingName ErrorCode = "GRF102"

	// ErrInvalidIdentifier indicates a derived class or namespace name is not a valid identifier.
	ErrInvalidIdentifier ErrorCode = "GRF200"
	// ErrDuplicateClassName indicates two types derive the same fully qualified class name.
	ErrDuplicateClassName ErrorCode = "GRF201"
)

// ErrorCategory groups related diagnostic codes.
type ErrorCategory string

const (
	CategoryDefinition ErrorCategory = "definition"
	CategoryReference  ErrorCategory = "reference"
	CategoryIdentifier ErrorCategory = "identifier"
)

// ErrorSeverity indicates whether a diagnostic aborts the version.
type ErrorSeverity string

const (
	// SeverityError aborts generation for the version.
	SeverityError ErrorSeverity = "error"
	// SeverityWarning is recorded and generation continues.
	SeverityWarning ErrorSeverity = "warning"
)

// GraphError is a structured, version-scoped diagnostic.
type GraphError struct {
	Code       ErrorCode     `json:"code"`
	Type       string        `json:"type"`
	Category   ErrorCategory `json:"category"`
	Severity   ErrorSeverity `json:"severity"`
	Message    string        `json:"message"`
	Version    string        `json:"version"`
	TypeName   string        `json:"type_name,omitempty"`
	Construct  string        `json:"construct,omitempty"`
	Reference  string        `json:"reference,omitempty"`
	File       string        `json:"file,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// Error implements the error interface
func (e *GraphError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] version %s", strings.ToUpper(string(e.Severity)), e.Code, e.Version)
	if e.TypeName != "" {
		fmt.Fprintf(&b, ", type %q", e.TypeName)
	}
	if e.Construct != "" {
		fmt.Fprintf(&b, ", %s", e.Construct)
	}
	if e.Reference != "" {
		fmt.Fprintf(&b, " %q", e.Reference)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	return b.String()
}

// Format returns a multi-line, human-readable rendering of the error.
func (e *GraphError) Format() string {
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteString("\n")
	if e.File != "" {
		fmt.Fprintf(&b, "  File: %s\n", e.File)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  Suggestion: %s\n", e.Suggestion)
	}
	return b.String()
}

// ToJSON returns the error as an indented JSON document.
func (e *GraphError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ErrorList is a collection of graph diagnostics.
type ErrorList []*GraphError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d type graph errors:", len(el))
	for _, e := range el {
		b.WriteString("\n  ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// HasErrors returns true if the list contains any errors (excludes warnings)
func (el ErrorList) HasErrors() bool {
	for _, e := range el {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the entries with error severity.
func (el ErrorList) Errors() ErrorList {
	return el.filter(SeverityError)
}

// Warnings returns only the entries with warning severity.
func (el ErrorList) Warnings() ErrorList {
	return el.filter(SeverityWarning)
}

// WithCode returns the entries carrying the given code.
func (el ErrorList) WithCode(code ErrorCode) ErrorList {
	var out ErrorList
	for _, e := range el {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out
}

// ErrorCount returns the number of errors and warnings.
func (el ErrorList) ErrorCount() (errs, warnings int) {
	for _, e := range el {
		switch e.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// ToJSON returns all entries as a JSON array
func (el ErrorList) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (el ErrorList) filter(sev ErrorSeverity) ErrorList {
	var out ErrorList
	for _, e := range el {
		if e.Severity == sev {
			out = append(out, e)
		}
	}
	return out
}

// HasCode reports whether err is, or wraps, a GraphError or ErrorList containing code.
func HasCode(err error, code ErrorCode) bool {
	var list ErrorList
	if errors.As(err, &list) {
		return len(list.WithCode(code)) > 0
	}
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

func newError(code ErrorCode, typ string, category ErrorCategory, severity ErrorSeverity, version, message string) *GraphError {
	return &GraphError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: severity,
		Version:  version,
		Message:  message,
	}
}

// NewDuplicateDefinition creates a GRF001 warning
func NewDuplicateDefinition(version, typeName, file string) *GraphError {
	e := newError(ErrDuplicateDefinition, "duplicate_definition", CategoryDefinition, SeverityWarning, version,
		"type is defined more than once, keeping the first definition")
	e.TypeName = typeName
	e.File = file
	return e
}

// NewDuplicateProperty creates a GRF002 warning. key is "name" or "ref".
func NewDuplicateProperty(version, typeName, key, value string) *GraphError {
	e := newError(ErrDuplicateProperty, "duplicate_property", CategoryDefinition, SeverityWarning, version,
		fmt.Sprintf("property already defined (by %s), keeping the original", key))
	e.TypeName = typeName
	e.Construct = "property"
	e.Reference = value
	return e
}

// NewUnresolvedReference creates a GRF100 error
func NewUnresolvedReference(version, typeName, construct, ref string) *GraphError {
	e := newError(ErrUnresolvedReference, "unresolved_reference", CategoryReference, SeverityError, version,
		"reference does not resolve to any type in this version")
	e.TypeName = typeName
	e.Construct = construct
	e.Reference = ref
	e.Suggestion = "Check that the schema file declaring the referenced type was loaded"
	return e
}

// NewInheritanceCycle creates a GRF101 error
func NewInheritanceCycle(version string, path []string) *GraphError {
	e := newError(ErrInheritanceCycle, "inheritance_cycle", CategoryReference, SeverityError, version,
		fmt.Sprintf("inheritance cycle: %s", strings.Join(path, " -> ")))
	if len(path) > 0 {
		e.TypeName = path[0]
	}
	e.Construct = "parent"
	return e
}

// NewMissingName creates a GRF102 error
func NewMissingName(version, typeName, construct, file string) *GraphError {
	e := newError(ErrMissingName, "missing_name", CategoryDefinition, SeverityError, version,
		"declaration has no name or ref")
	e.TypeName = typeName
	e.Construct = construct
	e.File = file
	return e
}

// NewInvalidIdentifier creates a GRF200 error
func NewInvalidIdentifier(version, typeName, construct, value string) *GraphError {
	e := newError(ErrInvalidIdentifier, "invalid_identifier", CategoryIdentifier, SeverityError, version,
		"derived name is not a valid identifier")
	e.TypeName = typeName
	e.Construct = construct
	e.Reference = value
	return e
}

// NewDuplicateClassName creates a GRF201 error
func NewDuplicateClassName(version, typeName, other, fqn string) *GraphError {
	e := newError(ErrDuplicateClassName, "duplicate_class_name", CategoryIdentifier, SeverityError, version,
		fmt.Sprintf("class name collides with type %q", other))
	e.TypeName = typeName
	e.Construct = "class"
	e.Reference = fqn
	return e
}

// invariantViolation panics with full context. It is reserved for states a
// successful Finalize can never produce.
func invariantViolation(version, typeName, format string, args ...any) {
	panic(fmt.Sprintf("typegraph invariant violated (version %s, type %q): %s",
		version, typeName, fmt.Sprintf(format, args...)))
}
