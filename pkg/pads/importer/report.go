package importer

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Warning is a per-item problem that did not stop the import
type Warning struct {
	Ref     string `yaml:"ref,omitempty"`
	Message string `yaml:"message"`
}

func (w Warning) String() string {
	if w.Ref == "" {
		return w.Message
	}
	return w.Ref + ": " + w.Message
}

// Stats counts what the import produced
type Stats struct {
	Sheets       int `yaml:"sheets"`
	Symbols      int `yaml:"symbols"`
	PowerSymbols int `yaml:"power_symbols"`
	LibSymbols   int `yaml:"lib_symbols"`
	Wires        int `yaml:"wires"`
	Junctions    int `yaml:"junctions"`
	Labels       int `yaml:"labels"`
	Texts        int `yaml:"texts"`
}

// Report collects everything worth telling the user about one import run.
// Warnings are only surfaced once, after the run finishes.
type Report struct {
	RunID    ulid.ULID `yaml:"run_id"`
	Warnings []Warning `yaml:"warnings,omitempty"`
	// Reviews are placements made with a fallback the user may want to check,
	// e.g. power symbols oriented without an adjacent wire
	Reviews []Warning `yaml:"reviews,omitempty"`
	Stats   Stats     `yaml:"stats"`
}

func newReport() *Report {
	return &Report{RunID: ulid.Make()}
}

func (r *Report) warnf(ref, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Ref: ref, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) reviewf(ref, format string, args ...any) {
	r.Reviews = append(r.Reviews, Warning{Ref: ref, Message: fmt.Sprintf(format, args...)})
}

// HasWarnings reports whether any item was skipped or degraded
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}
