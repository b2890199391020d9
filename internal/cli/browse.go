package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/itsuki/garden/pkg/gallery"
	"github.com/itsuki/garden/pkg/pipeline"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	overlayStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPink).Padding(1, 3)
	indicatorStyle = lipgloss.NewStyle().Foreground(colorPink).Bold(true)
)

// maxEvents is how many lightbox transitions the footer shows.
const maxEvents = 3

func (c *CLI) browseCommand() *cobra.Command {
	var width float64

	cmd := &cobra.Command{
		Use:   "browse [manifest]",
		Short: "Browse a gallery in the terminal",
		Long: `Browse a gallery in the terminal.

The grid lists every image with the column it lands in. Press enter to open
the lightbox; inside it the arrow keys (or h/l) move between images and esc
closes it again. q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], width)
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "viewport width used for the column layout")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, manifest string, width float64) error {
	opts := c.pipelineOptions()
	opts.Manifest = manifest
	if width > 0 {
		opts.Viewport = width
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	records, hash, err := pipeline.Load(opts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printInfo("%s has no images", manifest)
		return nil
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, _, err := runner.LayoutWithCacheInfo(ctx, records, hash, opts)
	if err != nil {
		return err
	}

	m := newBrowseModel(records, l)
	defer m.nav.Close()

	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// browseModel - Terminal grid and lightbox
// =============================================================================

// browseModel drives a [gallery.Navigator] from terminal key presses. While
// the lightbox is open, arrow keys and esc go through a [gallery.KeyBus]
// the navigator subscribes to, the same way a browser host feeds it.
type browseModel struct {
	records []gallery.ImageRecord
	layout  gallery.Layout
	nav     *gallery.Navigator
	keys    *gallery.KeyBus
	events  []string

	cursor int
	offset int
	height int
}

func newBrowseModel(records []gallery.ImageRecord, l gallery.Layout) *browseModel {
	m := &browseModel{
		records: records,
		layout:  l,
		keys:    gallery.NewKeyBus(),
		height:  15,
	}
	m.nav = gallery.NewNavigator(gallery.Images(records),
		gallery.WithKeySource(m.keys),
		gallery.WithOnChange(m.record),
	)
	return m
}

func (m *browseModel) record(t gallery.Transition) {
	m.events = append(m.events, fmt.Sprintf("%s %s→%s", t.Event, position(t.From), position(t.To)))
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

// position formats a focused index one-based, like the indicator.
func position(i int) string {
	if i == gallery.Inactive {
		return "·"
	}
	return fmt.Sprintf("%d", i+1)
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			return m, tea.Quit
		}
		if m.nav.Active() {
			if k := gallery.ParseKey(key); k != gallery.KeyNone {
				m.keys.Dispatch(k)
			}
			if m.nav.Active() {
				m.moveTo(m.nav.Focused())
			}
			return m, nil
		}
		switch key {
		case "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.cursor - 1)
		case "down", "j":
			m.moveTo(m.cursor + 1)
		case "enter", " ":
			m.nav.Activate(m.cursor)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.moveTo(m.cursor)
	}
	return m, nil
}

// moveTo places the cursor on i, clamped, and scrolls it into view.
func (m *browseModel) moveTo(i int) {
	m.cursor = min(max(i, 0), len(m.records)-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *browseModel) View() string {
	var b strings.Builder
	if o, ok := m.nav.Overlay(); ok {
		m.viewOverlay(&b, o)
	} else {
		m.viewGrid(&b)
	}
	if len(m.events) > 0 {
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render("  " + strings.Join(m.events, "  ·  ")))
	}
	return b.String()
}

func (m *browseModel) viewGrid(b *strings.Builder) {
	b.WriteString(StyleTitle.Render("Gallery"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d images · %d columns at %.0fpx", len(m.records), m.layout.Columns, m.layout.Viewport)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.records))
	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		rec := m.records[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		size := rec.Badge()
		if size == "" {
			size = "—"
		}
		column := "—"
		if i < len(m.layout.Cells) {
			column = fmt.Sprintf("%d", m.layout.Cells[i].Column+1)
		}
		rows = append(rows, []string{cursor, fmt.Sprintf("%d", i+1), rec.Alt(i), size, column})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Title", "Size", "Col").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.offset + row
			base := lipgloss.NewStyle()
			if col == 3 || col == 4 {
				base = base.Foreground(colorDim)
			}
			if idx == m.cursor {
				return base.Foreground(colorPink).Bold(true)
			}
			if idx < len(m.records) && m.records[idx].Title == "" {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.records))))
}

func (m *browseModel) viewOverlay(b *strings.Builder, o gallery.Overlay) {
	var body strings.Builder
	body.WriteString(indicatorStyle.Render(o.Indicator))
	body.WriteString("\n\n")
	body.WriteString(StyleValue.Render(o.Alt))
	body.WriteString("\n")
	body.WriteString(listDimStyle.Render(o.Image.URL))
	if badge := o.Image.Badge(); badge != "" {
		body.WriteString("\n")
		body.WriteString(listDimStyle.Render(badge))
	}

	b.WriteString(overlayStyle.Render(body.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ previous/next  esc close  q quit"))
}
