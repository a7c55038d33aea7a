package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/library"
)

// pickCommand creates the pick command: choose a library chord in a
// terminal list, then render it like the render command.
func (c *CLI) pickCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a library chord interactively and render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			recs, err := store.List(ctx)
			store.Close()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo(cmd.OutOrStdout(), "The library is empty")
				return nil
			}

			final, err := tea.NewProgram(NewChordListModel(library.Chords(recs)),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.ErrOrStderr()),
			).Run()
			if err != nil {
				return fmt.Errorf("chord picker: %w", err)
			}
			m, ok := final.(ChordListModel)
			if !ok || m.Selected == nil {
				return nil
			}

			// Render the pick as if it came from --strings.
			opts.name = m.Selected.Name
			opts.strings = m.Selected.Compact()
			return c.runRender(ctx, cmd, &opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.left, "left", "l", false, "draw a left-handed diagram")
	cmd.Flags().BoolVarP(&opts.roman, "roman", "r", false, "label frets with roman numerals")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, pdf (comma-separated)")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "raster width in pixels")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// =============================================================================
// ChordListModel - Interactive chord selection
// =============================================================================

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// ChordListModel is the bubbletea model for picking a chord.
type ChordListModel struct {
	Chords   []chord.Chord
	Cursor   int
	Offset   int
	Height   int
	Selected *chord.Chord
}

// NewChordListModel creates a chord list model.
func NewChordListModel(chords []chord.Chord) ChordListModel {
	return ChordListModel{Chords: chords, Height: 15}
}

func (m ChordListModel) Init() tea.Cmd {
	return nil
}

func (m ChordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Chords)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Chords) == 0 {
				return m, tea.Quit
			}
			ch := m.Chords[m.Cursor]
			m.Selected = &ch
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ChordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Chord"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Chords))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		ch := m.Chords[i]
		rows = append(rows, []string{cursor, displayName(ch.Name), ch.Compact()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Chord", "Strings").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Chords))))

	return b.String()
}
