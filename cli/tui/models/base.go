package models

import (
	"context"

	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	tea "github.com/charmbracelet/bubbletea"
)

// BaseModel carries the state shared by every screen: the command context,
// the terminal size and the quit flag.
type BaseModel struct {
	ctx      context.Context
	mode     helpers.Mode
	width    int
	height   int
	ready    bool
	quitting bool
	err      error
}

func NewBaseModel(ctx context.Context, mode helpers.Mode) BaseModel {
	return BaseModel{
		ctx:  ctx,
		mode: mode,
	}
}

func (m BaseModel) Context() context.Context {
	return m.ctx
}

func (m BaseModel) Mode() helpers.Mode {
	return m.mode
}

// Size returns the last reported terminal size.
func (m BaseModel) Size() (width, height int) {
	return m.width, m.height
}

// IsReady reports whether a window size has been received.
func (m BaseModel) IsReady() bool {
	return m.ready
}

func (m BaseModel) IsQuitting() bool {
	return m.quitting
}

func (m BaseModel) Error() error {
	return m.err
}

func (m *BaseModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
}

func (m *BaseModel) SetError(err error) {
	m.err = err
}

func (m *BaseModel) Quit() {
	m.quitting = true
}

// Update handles window resizes and ctrl+c. Screens that own a text input
// handle "q" themselves so typing a q does not quit.
func (m *BaseModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Quit()
			return tea.Quit
		}
	}
	return nil
}
