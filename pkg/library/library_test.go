package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

var (
	o = chord.OpenString()
	x = chord.MutedString()

	cMajor = chord.New("C", o, chord.FrettedString("1", 1), o, chord.FrettedString("2", 2), chord.FrettedString("3", 3), x)
	aMinor = chord.New("Am", o, chord.FrettedString("1", 1), chord.FrettedString("3", 2), chord.FrettedString("2", 2), o, x)
	gMajor = chord.New("G", chord.FrettedString("4", 3), o, o, o, chord.FrettedString("1", 2), chord.FrettedString("2", 3))
)

func names(chords []chord.Chord) []string {
	out := make([]string, len(chords))
	for i, c := range chords {
		out[i] = c.Name
	}
	return out
}

func TestGroupByInitial(t *testing.T) {
	chords := []chord.Chord{
		chord.New("A"), chord.New("C"), chord.New("am"), chord.New(""),
		chord.New("A7"), chord.New("ébène"), chord.New("Cmaj7"),
	}
	got := GroupByInitial(chords)

	type group struct {
		Initial string
		Names   []string
	}
	var simple []group
	for _, g := range got {
		simple = append(simple, group{g.Initial, names(g.Chords)})
	}
	want := []group{
		{"A", []string{"A", "am", "A7"}},
		{"C", []string{"C", "Cmaj7"}},
		{UnnamedInitial, []string{""}},
		{"É", []string{"ébène"}},
	}
	if diff := cmp.Diff(want, simple); diff != "" {
		t.Errorf("GroupByInitial mismatch (-want +got):\n%s", diff)
	}

	if GroupByInitial(nil) != nil {
		t.Error("GroupByInitial(nil) should be nil")
	}
}

func TestNewRecord(t *testing.T) {
	rec, err := NewRecord(cMajor)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", rec.ID, err)
	}
	if rec.CreatedAt.IsZero() || rec.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v", rec.CreatedAt)
	}

	bad := chord.New("bad", chord.Entry{Kind: chord.Fretted, Finger: "1", Fret: 99})
	if _, err := NewRecord(bad); !cerrors.Is(err, cerrors.ErrCodeInvalidChord) {
		t.Errorf("NewRecord(bad) error = %v, want INVALID_CHORD", err)
	}

	for _, name := range []string{"C\x00", strings.Repeat("A", cerrors.MaxNameLength+1)} {
		if _, err := NewRecord(chord.New(name)); !cerrors.Is(err, cerrors.ErrCodeInvalidChord) {
			t.Errorf("NewRecord(%q) error = %v, want INVALID_CHORD", name, err)
		}
	}
}

var storeFactories = map[string]func(t *testing.T) Store{
	"memory": func(t *testing.T) Store { return NewMemoryStore() },
	"file": func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore() error: %v", err)
		}
		return s
	},
}

func TestStores(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			testStore(t, s)
		})
	}
}

// testStore exercises the Store contract. It is shared with the Mongo
// integration test.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	var ids []string
	for _, c := range []chord.Chord{cMajor, aMinor, gMajor, chord.New(" am ", aMinor.Strings[:]...)} {
		rec, err := s.Put(ctx, c)
		if err != nil {
			t.Fatalf("Put(%s) error: %v", c.Name, err)
		}
		ids = append(ids, rec.ID)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"C", "Am", "G", " am "}, names(Chords(all))); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}

	got, err := s.Get(ctx, ids[1])
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if diff := cmp.Diff(aMinor, got.Chord); diff != "" {
		t.Errorf("Get() chord mismatch (-want +got):\n%s", diff)
	}

	matches, err := s.FindByName(ctx, "AM")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 || matches[0].ID != ids[1] || matches[1].ID != ids[3] {
		t.Errorf("FindByName(AM) = %+v", matches)
	}
	if none, err := s.FindByName(ctx, "Bb"); err != nil || len(none) != 0 {
		t.Errorf("FindByName(Bb) = %v, %v", none, err)
	}

	if err := s.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, ids[0]); !cerrors.Is(err, cerrors.ErrCodeChordNotFound) {
		t.Errorf("Delete(deleted) error = %v, want CHORD_NOT_FOUND", err)
	}
	if _, err := s.Get(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(no-such-id) error = %v, want ErrNotFound", err)
	}

	bad := chord.New("bad", chord.Entry{Kind: chord.Fretted, Fret: 2})
	if _, err := s.Put(ctx, bad); err == nil {
		t.Error("Put() accepted a fretted string without a finger")
	}

	left, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 3 {
		t.Errorf("List() after delete has %d records, want 3", len(left))
	}
}

func TestMemoryStoreSeed(t *testing.T) {
	bad := chord.New("bad", chord.Entry{Kind: chord.Fretted, Fret: 2})
	s := NewMemoryStore(cMajor, bad, gMajor)
	all, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"C", "G"}, names(Chords(all))); diff != "" {
		t.Errorf("seeded names mismatch (-want +got):\n%s", diff)
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	n, err := Seed(ctx, s, []chord.Chord{cMajor, gMajor})
	if err != nil || n != 2 {
		t.Fatalf("Seed() = %d, %v; want 2", n, err)
	}
	n, err = Seed(ctx, s, []chord.Chord{aMinor})
	if err != nil || n != 0 {
		t.Fatalf("second Seed() = %d, %v; want 0", n, err)
	}
}

func TestFileStoreIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(context.Background(), cMajor); err != nil {
		t.Fatal(err)
	}
	all, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("List() = %d records, want 1", len(all))
	}
	if _, err := s.Get(context.Background(), "../notes"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(../notes) error = %v, want ErrNotFound", err)
	}
}

func TestMongoRecordRoundTrip(t *testing.T) {
	rec, err := NewRecord(chord.New("F (thumb)",
		chord.FrettedString("1", 1), chord.FrettedString("1", 1), chord.FrettedString("2", 2),
		chord.FrettedString("3", 3), x, chord.FrettedString(chord.Thumb, 1)))
	if err != nil {
		t.Fatal(err)
	}
	doc := newMongoRecord(rec)
	if doc.NameKey != "f (thumb)" {
		t.Errorf("NameKey = %q", doc.NameKey)
	}
	if doc.Strings != rec.Chord.Compact() {
		t.Errorf("Strings = %q", doc.Strings)
	}
	back, err := doc.record()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rec, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	doc.Strings = "O,O,O"
	if _, err := doc.record(); err == nil {
		t.Error("record() accepted a short string list")
	}
}
