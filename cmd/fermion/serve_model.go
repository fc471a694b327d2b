package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fermion-go/fermion/lang"
	"github.com/fermion-go/fermion/ui"
	"github.com/fermion-go/fermion/voice"
)

// tickMsg drives the meter refresh, the serve TUI's analogue of the
// teacher's listenForMidi/MidiMsg loop — here there is no MIDI CC input to
// block on by default, so a plain timer keeps the view live instead.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(66*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// serveModel is the serve subcommand's bubbletea Model: the teacher's
// Model/Update/View shape, generalized from per-channel mixer state to a
// running program's voice pool and master level.
type serveModel struct {
	progPath  string
	manager   *voice.Manager
	compiled  *lang.Compiled
	maxVoices int
	player    rmsSource
	width     int
	height    int
	err       error
}

// rmsSource is the one piece of render.LivePlayer the TUI needs; narrowed
// to an interface so the model doesn't otherwise depend on the render
// package's concrete type.
type rmsSource interface {
	RMS() float64
}

func newServeModel(progPath string, manager *voice.Manager, compiled *lang.Compiled, maxVoices int, player rmsSource) serveModel {
	return serveModel{progPath: progPath, manager: manager, compiled: compiled, maxVoices: maxVoices, player: player}
}

func (m serveModel) Init() tea.Cmd {
	return tick()
}

func (m serveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m serveModel) View() string {
	// Per-bus RMS isn't tracked past compilation (the graph only exposes
	// its single Output), so the meter row shows the master level only
	// rather than a row of buses with a fabricated 0% reading.
	masterLevel := 0.0
	if m.player != nil {
		masterLevel = m.player.RMS()
	}

	var sections []string
	sections = append(sections, ui.TitleStyle.Render("fermion — live"))
	if m.err != nil {
		sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Render(m.err.Error()))
	}
	sections = append(sections, ui.RenderSession(nil, masterLevel, -1))
	sections = append(sections, ui.RenderStatus(m.progPath, m.manager.ActiveCount(), m.maxVoices))
	sections = append(sections, ui.HelpStyle.Render(fmt.Sprintf(
		"%d trigger bus(es), %d control bus(es)", len(m.compiled.Triggers), len(m.compiled.Controls))))
	sections = append(sections, ui.RenderHelp())

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
