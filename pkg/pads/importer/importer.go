// Package importer converts parsed legacy schematic records into the canonical
// schematic model.
//
// One Import call owns its symbol arena and sheet contexts; nothing is shared
// between calls and the core performs no I/O. Per-item problems never abort
// the run: they are collected in the Report and logged once at the end.
package importer

import (
	"errors"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

var (
	// ErrNoDesign is returned when the upstream reader produced nothing
	ErrNoDesign = errors.New("no design to import")
	// ErrNoRootSheet is returned when no record names a sheet
	ErrNoRootSheet = errors.New("no sheet could be established")
)

// Import builds the canonical schematic for design
func Import(design *pads.Design, opts Options) (*schematic.Schematic, *Report, error) {
	if design == nil {
		return nil, nil, ErrNoDesign
	}
	applyDefaults(&opts)
	report := newReport()

	b := newBuilder(design, &opts, report)
	if err := b.establishSheets(); err != nil {
		return nil, report, err
	}
	opts.progress(PhaseParsed)

	b.placeParts()
	b.placeTexts()
	b.placeGroups()
	opts.progress(PhasePlaced)

	b.connect()
	opts.progress(PhaseConnected)

	b.sch.LibSymbols = b.resolver.Symbols()
	report.Stats = collectStats(b.sch)

	logger := opts.logger()
	for _, w := range report.Warnings {
		logger.Printf("warning: %s", w)
	}
	for _, r := range report.Reviews {
		logger.Printf("review: %s", r)
	}
	return b.sch, report, nil
}

func collectStats(sch *schematic.Schematic) Stats {
	st := Stats{LibSymbols: len(sch.LibSymbols)}
	for _, sh := range sch.AllSheets() {
		if sh.Number != 0 {
			st.Sheets++
		}
		for _, s := range sh.Symbols {
			if s.Power {
				st.PowerSymbols++
			} else {
				st.Symbols++
			}
		}
		st.Wires += len(sh.Wires)
		st.Junctions += len(sh.Junctions)
		st.Labels += len(sh.Labels)
		st.Texts += len(sh.Texts)
	}
	return st
}
