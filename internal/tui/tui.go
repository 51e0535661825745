package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tldr-it-stepankutaj/reconx/internal/app"
	"github.com/tldr-it-stepankutaj/reconx/internal/engine"
	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
)

// model is a minimal Bubble Tea model. No icons, plain text only.
type model struct {
	appCtx app.Context
	eng    *engine.Engine
	target string
	msg    string
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s":
			// Run a full scan when 's' is pressed.
			if m.target == "" {
				m.msg = "Set target first using the command line flag in CLI mode. TUI uses the compiled default for now."
				return m, nil
			}
			opts := modules.Options{
				Timeout:  m.appCtx.Config.Timeout,
				TopPorts: m.appCtx.Config.TopPorts,
			}
			rep := m.eng.Run(m.appCtx.Ctx, m.target, []string{"dns", "whois", "headers", "portscan"}, opts)

			var ok, failed int
			for _, name := range rep.Modules {
				if rep.Outcome(name).OK() {
					ok++
				} else {
					failed++
				}
			}
			m.msg = fmt.Sprintf("Scan finished: %d succeeded, %d failed.", ok, failed)
			return m, nil
		}
	}
	return m, nil
}

func (m model) View() string {
	header := "ReconX TUI (press 's' to scan, 'q' to quit)\n"
	body := fmt.Sprintf("Target: %s\n", m.target)
	footer := fmt.Sprintf("\nStatus: %s\n", m.msg)
	return header + body + footer
}

// Run starts the TUI. For MVP, target is empty; pass via CLI for non-TUI runs.
func Run(appCtx app.Context, eng *engine.Engine) error {
	initial := model{
		appCtx: appCtx,
		eng:    eng,
		target: "",
		msg:    "Ready.",
	}
	_, err := tea.NewProgram(initial).Run()
	return err
}
