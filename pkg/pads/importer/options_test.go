package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseOptions(t *testing.T) {
	data := `
scale: 100
ground_names: [GND, 0V]
default_page: A4
`
	opts, err := ParseOptions([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, 100.0, opts.Scale)
	assert.Equal(t, []string{"GND", "0V"}, opts.GroundNames)
	assert.Equal(t, "A4", opts.DefaultPage)
	// unset fields take defaults
	assert.Equal(t, "-", opts.GateSeparator)
	assert.Contains(t, opts.SupplyNames, "VCC")
}

func TestParseOptionsRejectsNegativeScale(t *testing.T) {
	_, err := ParseOptions([]byte("scale: -1\n"))
	assert.Error(t, err)

	_, err = ParseOptions([]byte("scale: [\n"))
	assert.Error(t, err)
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gate_separator: \".\"\n"), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, ".", opts.GateSeparator)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReportMarshalsRunID(t *testing.T) {
	r := newReport()
	r.warnf("U3", "unknown part-type %q", "X")

	data, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: "+r.RunID.String())
	assert.Contains(t, string(data), "unknown part-type")
}
