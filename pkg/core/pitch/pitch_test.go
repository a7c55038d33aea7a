package pitch

import "testing"

func TestResolveKey(t *testing.T) {
	tests := []struct {
		name     string
		wantRoot string
		wantMode Mode
		wantOK   bool
	}{
		{"Am7", "A", Minor, true},
		{"Bb", "B♭", Major, true},
		{"C#maj7", "C♯", Major, true},
		{"", "", "", false},
		{"   ", "", "", false},
		{"f", "F", Major, true},
		{"e♭m", "E♭", Minor, true},
		{"G♯ m 7", "G♯", Minor, true},
		{"Cmin", "C", Minor, true},
		{"Cmaj", "C", Major, true},
		{"Dmj7", "D", Major, true},
		{"AM7", "A", Major, true},
		{"Hm", "", "", false},
		{"7th", "", "", false},
		{"Bbsus4", "B♭", Major, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveKey(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ResolveKey(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if got.Root != tt.wantRoot || got.Mode != tt.wantMode {
				t.Errorf("ResolveKey(%q) = (%q, %q), want (%q, %q)", tt.name, got.Root, got.Mode, tt.wantRoot, tt.wantMode)
			}
		})
	}
}

func TestUsesFlats(t *testing.T) {
	tests := []struct {
		root string
		want bool
	}{
		{"F", true},
		{"B♭", true},
		{"D♭", true},
		{"E♭", true},
		{"G♭", true},
		{"A♭", true},
		{"A", false},
		{"C", false},
		{"F♯", false},
		{"C♭", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			if got := UsesFlats(tt.root); got != tt.want {
				t.Errorf("UsesFlats(%q) = %v, want %v", tt.root, got, tt.want)
			}
		})
	}
}

func TestNoteAt(t *testing.T) {
	tests := []struct {
		open  string
		fret  int
		flats bool
		want  string
	}{
		{"E", 1, false, "F"},
		{"E", 1, true, "F"},
		{"A", 1, true, "B♭"},
		{"A", 1, false, "A♯"},
		{"E", 12, false, "E"},
		{"G", 4, false, "B"},
		{"D", 1, true, "E♭"},
		{"B", 2, false, "C♯"},
		{"B", 2, true, "D♭"},
		{"G", 1, true, "A♭"},
		{"E", 2, true, "G♭"},
		{"G#", 0, false, "G♯"},
		{"Bb", 0, false, "A♯"},
		{"H", 1, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.open, func(t *testing.T) {
			if got := NoteAt(tt.open, tt.fret, tt.flats); got != tt.want {
				t.Errorf("NoteAt(%q, %d, %v) = %q, want %q", tt.open, tt.fret, tt.flats, got, tt.want)
			}
		})
	}
}

func TestStringNote(t *testing.T) {
	// C major open position: x32010 read from string 6 down to string 1.
	frets := map[int]int{1: 0, 2: 1, 3: 0, 4: 2, 5: 3}
	want := map[int]string{1: "E", 2: "C", 3: "G", 4: "E", 5: "C"}

	for n, fret := range frets {
		if got := StringNote(n, fret, false); got != want[n] {
			t.Errorf("StringNote(%d, %d) = %q, want %q", n, fret, got, want[n])
		}
	}

	if got := StringNote(7, 0, false); got != "" {
		t.Errorf("StringNote(7, 0) = %q, want empty", got)
	}
}

func TestIndexSpellingsAgree(t *testing.T) {
	for i := range Notes {
		sharp, ok := Index(Name(i, false))
		if !ok || sharp != i {
			t.Errorf("Index(%q) = %d, %v; want %d", Name(i, false), sharp, ok, i)
		}
		flat, ok := Index(Name(i, true))
		if !ok || flat != i {
			t.Errorf("Index(%q) = %d, %v; want %d", Name(i, true), flat, ok, i)
		}
	}
}

func TestScaleDegree(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		note string
		want string
	}{
		{"root", Key{"A", Minor}, "A", "1"},
		{"minor third", Key{"A", Minor}, "C", "3"},
		{"minor sixth", Key{"A", Minor}, "F", "6"},
		{"major third", Key{"C", Major}, "E", "3"},
		{"flat seven", Key{"C", Major}, "A♯", "♭7"},
		{"flat root", Key{"B♭", Major}, "D", "3"},
		{"wraps around", Key{"G♯", Minor}, "D♯", "5"},
		{"unknown mode", Key{"C", ""}, "E", ""},
		{"unknown root", Key{"", Major}, "E", ""},
		{"unknown note", Key{"C", Major}, "X", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleDegree(tt.key, tt.note); got != tt.want {
				t.Errorf("ScaleDegree(%+v, %q) = %q, want %q", tt.key, tt.note, got, tt.want)
			}
		})
	}
}
