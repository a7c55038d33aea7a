package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/diagram"
	"github.com/matzehuels/chordgen/pkg/core/pitch"
)

// inspectCommand creates the inspect command, which prints the layout a
// render would use without drawing anything.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the notes, fret window and marks of a chord",
		Example: `  chordgen inspect --name Bbmaj7 --strings "1:1,4:3,2:2,3:3,1:1,X"
  chordgen inspect --preset F --roman`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chords, err := c.selectChords(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			ch := chords[0]

			cfg := c.settings()
			dopts := diagram.Options{LeftHanded: cfg.Render.LeftHanded, RomanFrets: cfg.Render.RomanFrets}
			if cmd.Flags().Changed("left") {
				dopts.LeftHanded = opts.left
			}
			if cmd.Flags().Changed("roman") {
				dopts.RomanFrets = opts.roman
			}

			templates, err := loadTemplates(cfg)
			if err != nil {
				return err
			}
			layout, err := diagram.Plan(ch, templates.For(dopts.LeftHanded), dopts)
			if err != nil {
				return err
			}
			printInspection(cmd.OutOrStdout(), ch, layout)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "chord name")
	cmd.Flags().StringVarP(&opts.strings, "strings", "s", "", `six comma-separated strings, e.g. "O,1:1,O,2:2,3:3,X"`)
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "inspect a library chord by name")
	cmd.Flags().BoolVarP(&opts.left, "left", "l", false, "use the left-handed template")
	cmd.Flags().BoolVarP(&opts.roman, "roman", "r", false, "label frets with roman numerals")
	cmd.MarkFlagsMutuallyExclusive("strings", "preset")

	return cmd
}

func printInspection(w io.Writer, ch chord.Chord, l *diagram.Layout) {
	fmt.Fprintln(w, StyleTitle.Render(displayName(ch.Name)))
	fmt.Fprintln(w, newTable("String", "Open", "Fret", "Finger", "Note", "Degree").Rows(inspectRows(ch, l)...).Render())

	key := "unknown"
	if l.HasKey {
		key = l.Key.Root + " " + string(l.Key.Mode)
	}
	printKeyValue(w, "Key", key)

	window := "open position"
	if l.Fretted {
		first, last := l.Window()
		window = fmt.Sprintf("frets %d-%d", first, last)
		if l.Shifted() {
			window += fmt.Sprintf(" (shifted by %d)", l.Shift)
		}
	}
	printKeyValue(w, "Window", window)
	printKeyValue(w, "Labels", strings.Join(l.Labels[:], " "))
	printKeyValue(w, "Barres", describeBarres(l.Barres()))
}

// inspectRows has one row per string: number, open note, fret, finger,
// sounded note and its scale degree in the chord's key.
func inspectRows(ch chord.Chord, l *diagram.Layout) [][]string {
	rows := make([][]string, 0, chord.NumStrings)
	for i, e := range ch.Strings {
		fret, finger := e.Kind.String(), ""
		if e.IsFretted() {
			fret, finger = strconv.Itoa(e.Fret), string(e.Finger)
		}
		note, degree := l.Notes[i], ""
		if l.HasKey && note != "" {
			degree = pitch.ScaleDegree(l.Key, note)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), pitch.Tuning[i], fret, finger, note, degree})
	}
	return rows
}

func describeBarres(barres []diagram.Mark) string {
	if len(barres) == 0 {
		return "none"
	}
	parts := make([]string, len(barres))
	for i, m := range barres {
		parts[i] = fmt.Sprintf("finger %s at fret %d, strings %d-%d", m.Finger, m.Fret, m.First, m.Last)
	}
	return strings.Join(parts, "; ")
}
