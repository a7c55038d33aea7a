package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chordgen/pkg/library"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var (
		name    string
		showIDs bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List library chords grouped by initial",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var recs []library.Record
			if name != "" {
				recs, err = store.FindByName(ctx, name)
			} else {
				recs, err = store.List(ctx)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				printInfo(out, "No chords found")
				return nil
			}
			printRecords(out, recs, showIDs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "only chords with this name (case-insensitive)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "show record ids")

	return cmd
}

func printRecords(w io.Writer, recs []library.Record, showIDs bool) {
	headers := []string{"", "Name", "Strings"}
	if showIDs {
		headers = append(headers, "ID")
	}
	fmt.Fprintln(w, newTable(headers...).Rows(recordRows(recs, showIDs)...).Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %d chords", len(recs))))
}

// recordRows lays records out by initial; the initial is printed once at
// the start of its group.
func recordRows(recs []library.Record, showIDs bool) [][]string {
	byName := make(map[string][]library.Record)
	for _, r := range recs {
		byName[r.Chord.Name] = append(byName[r.Chord.Name], r)
	}

	var rows [][]string
	for _, g := range library.GroupByInitial(library.Chords(recs)) {
		label := g.Initial
		seen := make(map[string]bool)
		for _, ch := range g.Chords {
			if seen[ch.Name] {
				continue
			}
			seen[ch.Name] = true
			for _, r := range byName[ch.Name] {
				row := []string{label, displayName(r.Chord.Name), r.Chord.Compact()}
				if showIDs {
					row = append(row, r.ID)
				}
				rows = append(rows, row)
				label = ""
			}
		}
	}
	return rows
}
