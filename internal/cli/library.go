package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/diagram"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	pkgio "github.com/matzehuels/chordgen/pkg/io"
	"github.com/matzehuels/chordgen/pkg/library"
)

// libraryCommand creates the library management command. Changes only
// persist with the file or mongo backend.
func (c *CLI) libraryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the chord library",
	}

	cmd.AddCommand(c.libraryAddCommand())
	cmd.AddCommand(c.libraryRemoveCommand())
	cmd.AddCommand(c.libraryImportCommand())
	cmd.AddCommand(c.libraryExportCommand())

	return cmd
}

func (c *CLI) libraryAddCommand() *cobra.Command {
	var name, stringsFlag string

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a chord to the library",
		Example: `  chordgen library add --name Cadd9 --strings "O,3:3,O,2:2,3:3,X"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entries, err := chord.ParseStrings(stringsFlag)
			if err != nil {
				return err
			}
			ch := chord.Chord{Name: strings.TrimSpace(name), Strings: entries}
			if err := c.checkDrawable(ch); err != nil {
				return err
			}

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Put(ctx, ch)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Added %s", displayName(rec.Chord.Name))
			printDetail(cmd.OutOrStdout(), "ID: %s", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "chord name")
	cmd.Flags().StringVarP(&stringsFlag, "strings", "s", "", "six comma-separated strings")
	_ = cmd.MarkFlagRequired("strings")

	return cmd
}

func (c *CLI) libraryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove chords by record id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Removed %s", id)
			}
			return nil
		},
	}
}

func (c *CLI) libraryImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add every chord in a YAML file to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			chords, err := pkgio.ImportChords(args[0])
			if err != nil {
				return err
			}
			for _, ch := range chords {
				if err := c.checkDrawable(ch); err != nil {
					return err
				}
			}

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, ch := range chords {
				if _, err := store.Put(ctx, ch); err != nil {
					return err
				}
			}
			printSuccess(cmd.OutOrStdout(), "Imported %d chords", len(chords))
			return nil
		},
	}
}

func (c *CLI) libraryExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.yaml>",
		Short: "Write the library to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(ctx)
			if err != nil {
				return err
			}
			if err := pkgio.ExportChords(args[0], library.Chords(recs)); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported %d chords", len(recs))
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

// checkDrawable rejects names that cannot be stored and chords the
// right-handed template cannot draw.
func (c *CLI) checkDrawable(ch chord.Chord) error {
	if err := cerrors.ValidateChordName(ch.Name); err != nil {
		return err
	}
	templates, err := loadTemplates(c.settings())
	if err != nil {
		return err
	}
	_, err = diagram.Plan(ch, templates.Right, diagram.Options{})
	return err
}
