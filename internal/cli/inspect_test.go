package cli

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/diagram"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

func TestInspectRows(t *testing.T) {
	entries, err := chord.ParseStrings("O,1:1,O,2:2,3:3,X")
	if err != nil {
		t.Fatal(err)
	}
	c := chord.Chord{Name: "C", Strings: entries}
	layout, err := diagram.Plan(c, nil, diagram.Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"1", "E", "O", "", "E", "3"},
		{"2", "B", "1", "1", "C", "1"},
		{"3", "G", "O", "", "G", "5"},
		{"4", "D", "2", "2", "E", "3"},
		{"5", "A", "3", "3", "C", "1"},
		{"6", "E", "X", "", "", ""},
	}
	if diff := cmp.Diff(want, inspectRows(c, layout)); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestDescribeBarres(t *testing.T) {
	tests := []struct {
		name   string
		barres []diagram.Mark
		want   string
	}{
		{"none", nil, "none"},
		{
			name:   "full barre",
			barres: []diagram.Mark{{Kind: diagram.Barre, Finger: "1", Fret: 5, First: 1, Last: 6}},
			want:   "finger 1 at fret 5, strings 1-6",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeBarres(tt.barres); got != tt.want {
				t.Errorf("describeBarres() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInspectCommand(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := runCLI(t, cfgPath, "inspect", "--name", "Bb", "--strings", "1:1,3:3,3:3,3:3,1:1,X")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Bb", "B♭ major", "frets 1-4", "Barres"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, cfgPath, "inspect", "--name", "A (V)", "--strings", "1:5,1:5,2:6,3:7,4:7,1:5")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "frets 5-8 (shifted by 4)") {
		t.Errorf("shifted window not reported:\n%s", out)
	}

	if _, err := runCLI(t, cfgPath, "inspect"); !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
		t.Errorf("inspect without a chord: err = %v, want INVALID_INPUT", err)
	}
}
