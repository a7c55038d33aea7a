package library

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = cerrors.New(cerrors.ErrCodeChordNotFound, "chord not found")

// Record is a stored chord.
type Record struct {
	ID        string      `json:"id"`
	Chord     chord.Chord `json:"chord"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewRecord validates c and wraps it in a record with a fresh id.
func NewRecord(c chord.Chord) (Record, error) {
	if err := cerrors.ValidateChordName(c.Name); err != nil {
		return Record{}, err
	}
	if err := c.Validate(); err != nil {
		return Record{}, err
	}
	return Record{
		ID:        uuid.NewString(),
		Chord:     c,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Store is the interface for chord library backends.
type Store interface {
	// List returns every record, oldest first.
	List(ctx context.Context) ([]Record, error)

	// Get returns the record with the given id, or an error matching
	// ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// FindByName returns the records whose name equals name, ignoring case
	// and surrounding space. No match is an empty result, not an error.
	FindByName(ctx context.Context, name string) ([]Record, error)

	// Put validates and stores c under a new id.
	Put(ctx context.Context, c chord.Chord) (Record, error)

	// Delete removes the record with the given id, or returns an error
	// matching ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}

// Chords extracts the chords from records.
func Chords(recs []Record) []chord.Chord {
	out := make([]chord.Chord, len(recs))
	for i, r := range recs {
		out[i] = r.Chord
	}
	return out
}

// Seed stores chords when s is empty and reports how many were added. A
// library that already holds records is left alone.
func Seed(ctx context.Context, s Store, chords []chord.Chord) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, c := range chords {
		if _, err := s.Put(ctx, c); err != nil {
			return i, fmt.Errorf("seed %q: %w", c.Name, err)
		}
	}
	return len(chords), nil
}

// nameKey is the lookup form of a chord name.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func sortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}

// =============================================================================
// Grouping
// =============================================================================

// UnnamedInitial is the group for chords whose name has no letter to
// group by.
const UnnamedInitial = "#"

// Group is a run of chords sharing an initial.
type Group struct {
	Initial string        `json:"initial"`
	Chords  []chord.Chord `json:"chords"`
}

// GroupByInitial groups chords by the upper-cased first character of their
// name. Groups appear in the order their initial is first seen, and chords
// keep their order within a group.
func GroupByInitial(chords []chord.Chord) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, c := range chords {
		key := initial(c.Name)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Initial: key})
		}
		groups[i].Chords = append(groups[i].Chords, c)
	}
	return groups
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return UnnamedInitial
	}
	return string(unicode.ToUpper(r))
}
