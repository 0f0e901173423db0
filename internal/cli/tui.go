package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/render/colorscale"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listActiveStyle   = lipgloss.NewStyle().Foreground(colorGreen)
)

// maxLeafRows caps the leaf table so it fits next to the cause list.
const maxLeafRows = 12

// =============================================================================
// ExploreModel - Interactive cause drill-down
// =============================================================================

// RecomputeFunc builds the chart for a selection.
type RecomputeFunc func(sel interact.Selection) (*chart.Chart, error)

// chartMsg carries a finished recompute back into the model.
type chartMsg struct {
	sel   interact.Selection
	chart *chart.Chart
	err   error
}

// ExploreModel is the bubbletea model behind `crashviz explore`. The cause
// list drives an interact.Controller; each selection event recomputes the
// chart in the background.
type ExploreModel struct {
	Causes    []records.CategoryCount
	Cursor    int
	Offset    int
	Height    int
	Chart     *chart.Chart
	Err       error
	Computing bool

	ctrl      *interact.Controller
	recompute RecomputeFunc
}

// NewExploreModel creates a model over recs in the aggregate view.
func NewExploreModel(recs []records.Record, recompute RecomputeFunc) ExploreModel {
	return ExploreModel{
		Causes:    records.CountCategories(recs),
		Height:    15,
		ctrl:      interact.NewController(),
		recompute: recompute,
	}
}

// Selection returns the controller's current selection.
func (m ExploreModel) Selection() interact.Selection {
	return m.ctrl.Selection()
}

func (m ExploreModel) Init() tea.Cmd {
	return m.load(m.ctrl.Selection())
}

func (m ExploreModel) load(sel interact.Selection) tea.Cmd {
	recompute := m.recompute
	return func() tea.Msg {
		c, err := recompute(sel)
		return chartMsg{sel: sel, chart: c, err: err}
	}
}

// click routes a click through the controller and recomputes on a
// selection event.
func (m ExploreModel) click(click interact.Click) (tea.Model, tea.Cmd) {
	res := m.ctrl.HandleClick(click)
	if res.Event == nil {
		return m, nil
	}
	m.Computing = true
	return m, m.load(m.ctrl.Selection())
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Causes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Causes) == 0 {
				return m, nil
			}
			return m.click(interact.Click{
				Button: interact.ButtonPrimary,
				Target: interact.TargetCategory,
				Cause:  m.Causes[m.Cursor].Cause,
			})
		case "esc", "backspace":
			return m.click(interact.Click{
				Button: interact.ButtonPrimary,
				Target: interact.TargetBack,
			})
		}
	case chartMsg:
		// Drop results for selections that have since been replaced.
		if msg.sel != m.ctrl.Selection() {
			return m, nil
		}
		m.Computing = false
		m.Chart, m.Err = msg.chart, msg.err
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Incidents by cause"))
	b.WriteString("  ")
	b.WriteString(StyleHighlight.Render(m.ctrl.Selection().String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ drill in  esc back  q quit"))
	b.WriteString("\n\n")

	right := m.leafView()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.causeList(), "   ", right))
	b.WriteString("\n")
	return b.String()
}

func (m ExploreModel) causeList() string {
	var b strings.Builder
	selected, _ := m.ctrl.Selection().Cause()
	end := min(m.Offset+m.Height, len(m.Causes))
	for i := m.Offset; i < end; i++ {
		cc := m.Causes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-24s %5d", cursor, truncateLabel(cc.Cause, 24), cc.Count)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case cc.Cause == selected:
			b.WriteString(listActiveStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Causes))))
	return b.String()
}

// leafView lists the largest treemap leaves of the current chart.
func (m ExploreModel) leafView() string {
	switch {
	case m.Err != nil:
		return styleIconError.Render(iconError) + " " + m.Err.Error()
	case m.Chart == nil || m.Computing:
		return listDimStyle.Render("computing...")
	case m.Chart.Empty:
		return StyleWarning.Render(m.Chart.Message)
	case m.Chart.Treemap == nil:
		return listDimStyle.Render("no data")
	}

	type row struct {
		group string
		leaf  *chart.Node
	}
	var rows []row
	for _, g := range m.Chart.Treemap.Children {
		for _, l := range g.Leaves() {
			rows = append(rows, row{group: g.Name, leaf: l})
		}
	}
	slices.SortStableFunc(rows, func(a, b row) int {
		switch {
		case a.leaf.Value > b.leaf.Value:
			return -1
		case a.leaf.Value < b.leaf.Value:
			return 1
		}
		return 0
	})
	more := len(rows) - maxLeafRows
	rows = rows[:min(len(rows), maxLeafRows)]

	domain := m.Chart.Domain()
	fills := make([]lipgloss.Color, len(rows))
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Group", "Outcome", "Incidents", "Fatalities")
	for i, r := range rows {
		f := 0
		if r.leaf.Fatalities != nil {
			f = *r.leaf.Fatalities
		}
		fills[i] = lipgloss.Color(colorscale.Reds(colorscale.For(float64(f), domain)))
		t.Row("■", truncateLabel(r.group, 20), r.leaf.Name,
			strconv.FormatFloat(r.leaf.Value, 'f', -1, 64), strconv.Itoa(f))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		style := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return style.Foreground(colorGray).Bold(true)
		}
		if col == 0 && row >= 0 && row < len(fills) {
			return style.Foreground(fills[row])
		}
		return style
	})

	out := t.Render()
	if more > 0 {
		out += "\n" + listDimStyle.Render(fmt.Sprintf("  and %d more", more))
	}
	return out
}

// truncateLabel shortens s to n runes with a trailing ellipsis.
func truncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
