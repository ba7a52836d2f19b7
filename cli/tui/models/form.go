package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// ErrCanceled is returned when the user leaves a form or prompt.
var ErrCanceled = errors.New("canceled by user")

// FormWrapper runs a huh form inside a BaseModel so window sizing and
// ctrl+c behave like every other screen.
type FormWrapper struct {
	BaseModel
	form      *huh.Form
	canceled  bool
	completed bool
}

func NewFormWrapper(ctx context.Context, form *huh.Form) *FormWrapper {
	return &FormWrapper{
		BaseModel: NewBaseModel(ctx, helpers.ModeTUI),
		form:      form,
	}
}

func (f *FormWrapper) Init() tea.Cmd {
	return f.form.Init()
}

func (f *FormWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := f.BaseModel.Update(msg); f.IsQuitting() {
		f.canceled = true
		return f, cmd
	}
	form, cmd := f.form.Update(msg)
	if frm, ok := form.(*huh.Form); ok {
		f.form = frm
		switch f.form.State {
		case huh.StateCompleted:
			f.completed = true
			return f, tea.Quit
		case huh.StateAborted:
			f.canceled = true
			return f, tea.Quit
		}
	}
	return f, cmd
}

func (f *FormWrapper) View() string {
	if f.completed || f.canceled {
		return ""
	}
	return f.form.View()
}

func (f *FormWrapper) IsCanceled() bool {
	return f.canceled
}

func (f *FormWrapper) IsCompleted() bool {
	return f.completed
}

// RunForm shows form and blocks until it is submitted or abandoned. Field
// values are written to the pointers the form was built with.
func RunForm(ctx context.Context, form *huh.Form) error {
	wrapper := NewFormWrapper(ctx, form)
	final, err := tea.NewProgram(wrapper, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("failed to run form: %w", err)
	}
	if w, ok := final.(*FormWrapper); ok && w.IsCompleted() {
		return nil
	}
	return ErrCanceled
}

// Confirm asks a yes/no question and reports the answer.
func Confirm(ctx context.Context, title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))
	if err := RunForm(ctx, form); err != nil {
		return false, err
	}
	return ok, nil
}
