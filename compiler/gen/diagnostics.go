package gen

import (
	"fmt"
	"log/slog"
)

// DiagnosticCode identifies a class of non-fatal findings.
type DiagnosticCode string

// Diagnostic codes.
const (
	// DiagUnsupportedType is reported for columns excluded because their
	// storage type has no value type.
	DiagUnsupportedType DiagnosticCode = "unsupported-type"
	// DiagExcludedReference is reported for relation fields that reference
	// a column the projector excluded.
	DiagExcludedReference DiagnosticCode = "excluded-reference"
)

// Diagnostic is one non-fatal finding.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Table   string         `json:"table"`
	Column  string         `json:"column,omitempty"`
	Message string         `json:"message"`
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	if d.Column == "" {
		return fmt.Sprintf("%s: %s: %s", d.Code, d.Table, d.Message)
	}
	return fmt.Sprintf("%s: %s.%s: %s", d.Code, d.Table, d.Column, d.Message)
}

// Diagnostics collects the warnings of one graph construction. It is owned
// by the caller, reset at the start of every NewGraph call and must not be
// shared by concurrent constructions.
type Diagnostics struct {
	items []Diagnostic
	seen  map[diagKey]struct{}
}

type diagKey struct {
	code          DiagnosticCode
	table, column string
}

// NewDiagnostics returns an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{seen: make(map[diagKey]struct{})}
}

// Add records a diagnostic. It reports false if an equivalent diagnostic,
// with the same code, table and column, was already recorded.
func (d *Diagnostics) Add(diag Diagnostic) bool {
	if d.seen == nil {
		d.seen = make(map[diagKey]struct{})
	}
	k := diagKey{code: diag.Code, table: diag.Table, column: diag.Column}
	if _, ok := d.seen[k]; ok {
		return false
	}
	d.seen[k] = struct{}{}
	d.items = append(d.items, diag)
	return true
}

// Reset drops all recorded diagnostics.
func (d *Diagnostics) Reset() {
	d.items = nil
	clear(d.seen)
}

// All returns the recorded diagnostics in the order they were raised.
func (d *Diagnostics) All() []Diagnostic {
	return append([]Diagnostic(nil), d.items...)
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int { return len(d.items) }

// Has reports whether a diagnostic with the given code was raised for the
// given table column.
func (d *Diagnostics) Has(code DiagnosticCode, table, column string) bool {
	_, ok := d.seen[diagKey{code: code, table: table, column: column}]
	return ok
}

// warn records a diagnostic and logs it the first time it is raised.
func (c *Config) warn(code DiagnosticCode, table, column, format string, args ...any) {
	diag := Diagnostic{Code: code, Table: table, Column: column, Message: fmt.Sprintf(format, args...)}
	if c.Diagnostics != nil && !c.Diagnostics.Add(diag) {
		return
	}
	c.logger().Warn(diag.Message,
		slog.String("code", string(code)),
		slog.String("table", table),
		slog.String("column", column),
	)
}
