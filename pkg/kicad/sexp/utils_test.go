package sexp

import (
	"testing"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp/kicadsexp"
)

// Helper to parse s-expression from string
func parseSexp(t *testing.T, input string) kicadsexp.Sexp {
	t.Helper()
	sexps, err := kicadsexp.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse s-expression %q: %v", input, err)
	}
	if len(sexps) == 0 {
		t.Fatalf("No s-expressions parsed from %q", input)
	}
	return sexps[0]
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		index   int
		want    string
		wantErr bool
	}{
		{
			name:  "get key",
			input: `(lib_id "legacy:RES")`,
			index: 0,
			want:  "lib_id",
		},
		{
			name:  "quoted value",
			input: `(lib_id "legacy:RES")`,
			index: 1,
			want:  "legacy:RES",
		},
		{
			name:  "angle",
			input: "(at 100 50 90)",
			index: 3,
			want:  "90",
		},
		{
			name:    "index out of bounds",
			input:   "(unit 1)",
			index:   5,
			wantErr: true,
		},
		{
			name:    "nested list",
			input:   "(pts (xy 0 0))",
			index:   1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseSexp(t, tt.input)
			got, err := GetString(s, tt.index)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetPoint(t *testing.T) {
	s := parseSexp(t, "(at 2.54 -1.27 180)")

	p, err := GetPoint(s)
	if err != nil {
		t.Fatalf("GetPoint() error = %v", err)
	}
	want := Point{X: 100 * IUPerMil, Y: -50 * IUPerMil}
	if p != want {
		t.Errorf("GetPoint() = %v, want %v", p, want)
	}
	if a := GetAngle(s); a != 180 {
		t.Errorf("GetAngle() = %v, want 180", a)
	}
	if a := GetAngle(parseSexp(t, "(xy 0 0)")); a != 0 {
		t.Errorf("GetAngle() without angle = %v, want 0", a)
	}

	if _, err := GetPoint(parseSexp(t, "(at x 0)")); err == nil {
		t.Error("GetPoint() accepted a non-numeric coordinate")
	}
}

func TestFindNodes(t *testing.T) {
	s := parseSexp(t, `(symbol (lib_id "legacy:RES") (uuid "abc")
		(property "Reference" "R1" (at 1 2 0))
		(property "Value" "10K" (at 1 4 90))
		(pin "1" (uuid "p1")))`)

	if _, ok := FindNode(s, "lib_id"); !ok {
		t.Error("FindNode(lib_id) not found")
	}
	if _, ok := FindNode(s, "mirror"); ok {
		t.Error("FindNode(mirror) found a missing node")
	}
	if n := len(FindAllNodes(s, "property")); n != 2 {
		t.Errorf("FindAllNodes(property) = %d, want 2", n)
	}
	if n := CountNodes(s, "uuid"); n != 2 {
		t.Errorf("CountNodes(uuid) = %d, want 2", n)
	}

	id, err := GetUUID(s)
	if err != nil || id != "abc" {
		t.Errorf("GetUUID() = %q, %v", id, err)
	}

	props, err := GetProperties(s)
	if err != nil {
		t.Fatalf("GetProperties() error = %v", err)
	}
	if len(props) != 2 || props[1].Key != "Value" || props[1].Angle != 90 {
		t.Errorf("GetProperties() = %+v", props)
	}
	if props[0].Position != (Point{X: IUPerMM, Y: 2 * IUPerMM}) {
		t.Errorf("Reference position = %v", props[0].Position)
	}

	if v, ok := GetProperty(s, "Reference"); !ok || v != "R1" {
		t.Errorf("GetProperty(Reference) = %q, %v", v, ok)
	}
	if _, ok := GetProperty(s, "Footprint"); ok {
		t.Error("GetProperty(Footprint) found a missing field")
	}
}

func TestGetListItems(t *testing.T) {
	s := parseSexp(t, "(pts (xy 0 0) (xy 1 1))")
	items := GetListItems(s)
	if len(items) != 2 {
		t.Fatalf("GetListItems() = %d items, want 2", len(items))
	}
	if NodeName(items[0]) != "xy" {
		t.Errorf("NodeName() = %q, want xy", NodeName(items[0]))
	}
	if GetListItems(kicadsexp.Symbol("atom")) != nil {
		t.Error("GetListItems() of an atom should be nil")
	}
}
