package importer

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
)

// Phase is a coarse import milestone reported through Options.Progress
type Phase int

const (
	PhaseParsed Phase = iota
	PhasePlaced
	PhaseConnected
)

func (p Phase) String() string {
	switch p {
	case PhaseParsed:
		return "parsed"
	case PhasePlaced:
		return "placed"
	case PhaseConnected:
		return "connected"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Options controls an import run
type Options struct {
	// Scale is the number of internal units per foreign unit (254 for mils)
	Scale float64 `yaml:"scale"`

	// GateSeparator is used when the design does not declare one
	GateSeparator string `yaml:"gate_separator"`

	// GroundNames and SupplyNames drive the net-name power heuristic. Names
	// are compared case-insensitively. Supply names like +5V and +3V3 are
	// recognized without being listed.
	GroundNames []string `yaml:"ground_names"`
	SupplyNames []string `yaml:"supply_names"`

	// PassiveCategories are part-type categories whose two-pin members hide
	// pin names and show the Value attribute
	PassiveCategories []string `yaml:"passive_categories"`

	// DefaultPage is used when the design's sheet size is missing or unknown
	DefaultPage string `yaml:"default_page"`

	// Logger receives the batched warnings at the end of the run. Nil discards them.
	Logger *log.Logger `yaml:"-"`

	// Progress is called at phase boundaries. It cannot cancel the import.
	Progress func(Phase) `yaml:"-"`
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	opts := Options{}
	applyDefaults(&opts)
	return opts
}

// LoadOptions reads options from a YAML file; unset fields take defaults
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file %s: %w", path, err)
	}
	return ParseOptions(data)
}

// ParseOptions parses YAML options data
func ParseOptions(data []byte) (Options, error) {
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse options YAML: %w", err)
	}
	if opts.Scale < 0 {
		return Options{}, fmt.Errorf("scale must be positive, got %v", opts.Scale)
	}
	applyDefaults(&opts)
	return opts, nil
}

func applyDefaults(opts *Options) {
	if opts.Scale == 0 {
		opts.Scale = sexp.IUPerMil
	}
	if opts.GateSeparator == "" {
		opts.GateSeparator = "-"
	}
	if len(opts.GroundNames) == 0 {
		opts.GroundNames = []string{"GND", "AGND", "DGND", "GNDA", "GNDD", "PGND", "GNDPWR", "VSS", "EARTH", "CHASSIS"}
	}
	if len(opts.SupplyNames) == 0 {
		opts.SupplyNames = []string{"VCC", "VDD", "VEE", "VBAT", "VPP", "V+", "V-"}
	}
	if len(opts.PassiveCategories) == 0 {
		opts.PassiveCategories = []string{"RES", "CAP", "IND"}
	}
	if opts.DefaultPage == "" {
		opts.DefaultPage = "B"
	}
}

func (o *Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return o.Logger
}

func (o *Options) progress(p Phase) {
	if o.Progress != nil {
		o.Progress(p)
	}
}
