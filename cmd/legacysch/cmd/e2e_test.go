package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func demoFile(t *testing.T) string {
	t.Helper()
	// Find testdata directory
	testdata := "../../../testdata"
	if _, err := os.Stat(testdata); os.IsNotExist(err) {
		testdata = "../../testdata"
	}
	return filepath.Join(testdata, "demo.asc")
}

// run executes the root command with fresh flags and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flags to prevent accumulation between tests
	verbose = false
	optionsFile = ""
	outputFile = ""
	reportFile = ""
	dumpInput = false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// TestInfoE2E tests the info command end-to-end
func TestInfoE2E(t *testing.T) {
	demo := demoFile(t)

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "summary",
			args: []string{"info", demo},
			wantContain: []string{
				"Design: " + demo,
				row("Name", "demo"),
				row("Sheet size", "B"),
				row("Parts", 2),
				row("R", "R1, R2"),
				"Named Signals",
				"DATA",
				"GND",
			},
		},
		{
			name: "component details",
			args: []string{"info", demo, "R1"},
			wantContain: []string{
				"Component: R1",
				row("Part type", "RES10K"),
				row("PCB DECAL", "R0603"),
				"90.0°",
			},
		},
		{
			name:    "unknown component",
			args:    []string{"info", demo, "U99"},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"info", "/nonexistent/design.asc"},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"info"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)

			// Check error expectation
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}

			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

// TestImportE2E converts the demo dump and reads the result back
func TestImportE2E(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "demo.kicad_sch")
	report := filepath.Join(dir, "report.yaml")

	output, err := run(t, "import", demoFile(t), "-o", out, "--report", report, "-v")
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{
		"Import: demo.asc",
		"· parsed",
		"· connected",
		row("Symbols", 2),
		row("Power symbols", 1),
		row("Labels", 1),
		"wrote " + out,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing: %q\nGot:\n%s", want, output)
		}
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "run_id:") {
		t.Errorf("report has no run_id:\n%s", data)
	}

	output, err = run(t, "info", out)
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{
		"Schematic: " + out,
		row("Paper", "B"),
		row("Components", 2),
		row("Power symbols", 1),
		row("Library symbols", 2),
		row("Buses", 1),
		row("Sheets", 0),
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing: %q\nGot:\n%s", want, output)
		}
	}
}

// TestImportDefaultOutput writes next to the input when -o is not given
func TestImportDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(demoFile(t))
	if err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(dir, "board.asc")
	if err := os.WriteFile(input, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if output, err := run(t, "import", input); err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if _, err := os.Stat(filepath.Join(dir, "board.kicad_sch")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

// TestImportRejectsBadOptions fails before writing anything
func TestImportRejectsBadOptions(t *testing.T) {
	dir := t.TempDir()
	opts := filepath.Join(dir, "options.yaml")
	if err := os.WriteFile(opts, []byte("scale: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "x.kicad_sch")

	if _, err := run(t, "import", demoFile(t), "--options", opts, "-o", out); err == nil {
		t.Error("Expected error but got none")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output written despite bad options")
	}
}
