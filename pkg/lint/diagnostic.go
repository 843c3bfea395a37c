package lint

import (
	"fmt"

	"github.com/agenthands/pystyle/pkg/region"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	switch s {
	case Error, Warning, Info:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("lint: invalid severity %d", int(s))
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = Error
	case "warning":
		*s = Warning
	case "info":
		*s = Info
	default:
		return fmt.Errorf("lint: unknown severity %q", text)
	}
	return nil
}

// Finding is a violation positioned relative to the scanned region.
type Finding struct {
	Line     int
	Col      int
	Excerpt  string
	Severity Severity
	Code     string
	Message  string
}

// Diagnostic is a finding positioned in the document, ready for reporting.
type Diagnostic struct {
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Excerpt  string   `json:"excerpt"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Linter   string   `json:"linter"`
}

// Emit converts a region-relative finding into a document diagnostic.
func Emit(linter string, r region.Region, f Finding) Diagnostic {
	return Diagnostic{
		Line:     f.Line + r.Line,
		Column:   f.Col + r.Col,
		Excerpt:  f.Excerpt,
		Severity: f.Severity,
		Code:     f.Code,
		Message:  f.Message,
		Linter:   linter,
	}
}
