// Package viz renders simulations interactively in the terminal.
//
// The live view is the reactive front end over the pure engine: every
// parameter keystroke issues a fresh Simulate request through a
// request-keyed memo, so stepping back to previous values is free.
package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/models"
)

const (
	graphWidth  = 78
	graphHeight = 12
)

// Model holds the current request, its memoized response and UI state.
type Model struct {
	req      experiment.Request
	memo     *experiment.Memo
	resp     *experiment.Response
	runErr   error
	params   []string
	selected int
	showAll  bool
	initial  experiment.Request
}

// NewModel builds the live view around an initial request.
func NewModel(req experiment.Request) Model {
	params := []string{"beta"}
	if req.Model != models.SI {
		params = append(params, "gamma")
	}
	params = append(params, "i0", "dt")

	m := Model{
		req:     req,
		memo:    experiment.NewMemo(10 * time.Minute),
		params:  params,
		initial: req,
	}
	m.simulate()
	return m
}

func (m *Model) simulate() {
	m.resp, m.runErr = m.memo.Simulate(context.Background(), m.req)
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles parameter adjustment keys and resimulates.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.selected = (m.selected + 1) % len(m.params)
	case "up", "k":
		m.adjustParam(1.05)
		m.simulate()
	case "down", "j":
		m.adjustParam(0.95)
		m.simulate()
	case "a":
		m.showAll = !m.showAll
	case "r":
		m.req = m.initial
		m.simulate()
	}

	return m, nil
}

func (m *Model) adjustParam(factor float64) {
	switch m.params[m.selected] {
	case "beta":
		m.req.Beta *= factor
	case "gamma":
		m.req.Gamma *= factor
	case "i0":
		i0 := m.req.Initial[1] * factor
		if i0 > 1 {
			i0 = 1
		}
		initial := make([]float64, len(m.req.Initial))
		copy(initial, m.req.Initial)
		initial[1] = i0
		initial[0] = 1 - i0
		if len(initial) == 3 {
			initial[0] -= initial[2]
		}
		m.req.Initial = initial
	case "dt":
		m.req.Dt *= factor
	}
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("episim live — %s model", strings.ToUpper(string(m.req.Model))))

	if m.runErr != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			errStyle.Render("simulation error: "+m.runErr.Error()),
			m.helpView(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, m.graphView(), m.statsView()),
		m.helpView(),
	)
}

func (m Model) graphView() string {
	traj := m.resp.Trajectory
	names := m.resp.Model.Compartments()

	var sections []string
	indices := []int{1}
	if m.showAll {
		indices = make([]int, len(names))
		for i := range names {
			indices[i] = i
		}
	}

	for _, idx := range indices {
		graph := asciigraph.Plot(traj.Series(idx),
			asciigraph.Height(graphHeight/len(indices)+3),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("%s fraction vs time (0..%.0f days)", names[idx], m.req.Duration)),
		)
		sections = append(sections, graphStyle.Render(graph))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statsView() string {
	var b strings.Builder

	for i, name := range m.params {
		style := labelStyle
		if i == m.selected {
			style = activeParamStyle
		}
		b.WriteString(style.Render(name))
		b.WriteString(valueStyle.Render(fmt.Sprintf(" %.4g", m.paramValue(name))))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	rec := m.resp.Stats
	for _, name := range rec.Order {
		b.WriteString(labelStyle.Render(name))
		b.WriteString(valueStyle.Render(" " + rec.Metrics[name].String()))
		b.WriteByte('\n')
	}

	for _, w := range m.resp.Trajectory.Warnings {
		b.WriteByte('\n')
		b.WriteString(warnStyle.Render("! " + w.String()))
	}

	return statsStyle.Render(b.String())
}

func (m Model) paramValue(name string) float64 {
	switch name {
	case "beta":
		return m.req.Beta
	case "gamma":
		return m.req.Gamma
	case "i0":
		return m.req.Initial[1]
	case "dt":
		return m.req.Dt
	}
	return 0
}

func (m Model) helpView() string {
	return helpStyle.Render("tab: select param  ↑/↓: adjust  a: all compartments  r: reset  q: quit  (cached runs: " +
		fmt.Sprintf("%d)", m.memo.Len()))
}
