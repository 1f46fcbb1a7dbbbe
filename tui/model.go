package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/crosti/buyerform/model"
	"github.com/crosti/buyerform/wizard"
)

// submittedMsg carries the outcome of a submission started from the last step.
type submittedMsg struct {
	err error
}

// Model is the bubbletea program state wrapped around a wizard.
type Model struct {
	ctx    context.Context
	wiz    *wizard.Wizard
	styles Styles

	focus   int
	cursors map[string]int
	input   textinput.Model
	bar     progress.Model

	quitting bool
}

// New returns a model driving wiz. ctx bounds the submission request.
func New(ctx context.Context, wiz *wizard.Wizard) Model {
	ti := textinput.New()
	ti.CharLimit = 1000
	ti.Width = 60

	m := Model{
		ctx:     ctx,
		wiz:     wiz,
		styles:  DefaultStyles(),
		cursors: map[string]int{},
		input:   ti,
		bar:     progress.New(progress.WithSolidFill(string(gold)), progress.WithoutPercentage()),
	}
	m.syncInput()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// questions are the inputs currently on screen. Overflow questions appear
// only while their selector calls for them.
func (m Model) questions() []wizard.Question {
	return lo.Filter(wizard.Questions(m.wiz.Step()), func(q wizard.Question, _ int) bool {
		for selector, overflow := range model.OverflowFields {
			if overflow == q.Field {
				return m.wiz.ShowOverflow(selector)
			}
		}
		return true
	})
}

func (m Model) focused() (wizard.Question, bool) {
	qs := m.questions()
	if m.focus < 0 || m.focus >= len(qs) {
		return wizard.Question{}, false
	}
	return qs[m.focus], true
}

func isText(q wizard.Question) bool {
	return q.Control == wizard.ControlText || q.Control == wizard.ControlNotes
}

// syncInput points the text input at the focused question, if it takes text.
func (m *Model) syncInput() {
	q, ok := m.focused()
	if !ok || !isText(q) {
		m.input.Blur()
		return
	}
	m.input.Placeholder = q.Prompt
	m.input.SetValue(m.wiz.Value(q.Field))
	m.input.Focus()
}

func (m *Model) moveFocus(delta int) {
	n := len(m.questions())
	if n == 0 {
		return
	}
	m.focus = (m.focus + delta + n) % n
	m.syncInput()
}

func (m *Model) resetFocus() {
	m.focus = 0
	m.syncInput()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-4, 60), 10)
		return m, nil

	case submittedMsg:
		if msg.err == nil {
			m.resetFocus()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.wiz.Step() {
	case wizard.StepDone:
		switch msg.String() {
		case "enter":
			_ = m.wiz.DeferToDetails()
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case wizard.StepDetails:
		if s := msg.String(); s == "q" || s == "esc" || s == "enter" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.wiz.Submitting() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.advance()
	case tea.KeyEsc:
		if m.wiz.Retreat() == nil {
			m.resetFocus()
		}
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.moveFocus(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.moveFocus(-1)
		return m, nil
	}

	q, ok := m.focused()
	if !ok {
		return m, nil
	}

	if isText(q) {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		_ = m.wiz.SetField(q.Field, m.input.Value())
		return m, cmd
	}

	cursor := m.cursors[q.Field]
	switch msg.Type {
	case tea.KeyLeft:
		m.cursors[q.Field] = (cursor - 1 + len(q.Options)) % len(q.Options)
	case tea.KeyRight:
		m.cursors[q.Field] = (cursor + 1) % len(q.Options)
	case tea.KeySpace:
		option := q.Options[cursor]
		if q.Control == wizard.ControlMulti {
			_ = m.wiz.ToggleOption(q.Field, option)
		} else {
			_ = m.wiz.SetField(q.Field, option)
		}
	}
	return m, nil
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	if m.wiz.Step() == wizard.LastStep {
		wiz, ctx := m.wiz, m.ctx
		return m, func() tea.Msg {
			return submittedMsg{err: wiz.Submit(ctx)}
		}
	}
	if m.wiz.Advance(m.ctx) == nil {
		m.resetFocus()
	}
	return m, nil
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	step := m.wiz.Step()
	b.WriteString(m.styles.Title.Render(step.Title()))
	b.WriteString("\n")

	switch step {
	case wizard.StepWelcome:
		b.WriteString(m.styles.Subtitle.Render("Answer a few questions to help us match you with the right business opportunities."))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("enter: start • ctrl+c: quit"))
		return b.String()
	case wizard.StepDone:
		b.WriteString(m.styles.Subtitle.Render("I'll review this and get back to you with business options tailored to your answers."))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("enter: contact details • q: quit"))
		return b.String()
	case wizard.StepDetails:
		b.WriteString(m.styles.Help.Render("q: quit"))
		return b.String()
	}

	b.WriteString(m.bar.ViewAs(m.wiz.Progress()))
	b.WriteString("\n\n")

	errs := m.wiz.Errors()
	for i, q := range m.questions() {
		m.renderQuestion(&b, q, i == m.focus, errs[q.Field])
	}

	if msg := m.wiz.Message(); msg != "" {
		b.WriteString(m.styles.Error.Render(msg))
		b.WriteString("\n")
	}
	if m.wiz.Submitting() {
		b.WriteString(m.styles.Subtitle.Render("Submitting..."))
		b.WriteString("\n")
	}

	action := "next"
	if step == wizard.LastStep {
		action = "submit"
	}
	b.WriteString(m.styles.Help.Render(fmt.Sprintf("tab/↑↓: move • ←→: choose • space: select • enter: %s • esc: back", action)))
	return b.String()
}

func (m Model) renderQuestion(b *strings.Builder, q wizard.Question, focused, failed bool) {
	prompt := m.styles.Prompt
	if focused {
		prompt = m.styles.Focused
	}
	b.WriteString(prompt.Render(q.Prompt))
	b.WriteString("\n")

	if isText(q) {
		if focused {
			b.WriteString(m.input.View())
		} else {
			b.WriteString(m.styles.Option.Render(m.wiz.Value(q.Field)))
		}
		b.WriteString("\n")
		if m.wiz.OverWordLimit(q.Field) {
			b.WriteString(m.styles.Error.Render(fmt.Sprintf("Please limit your response to %d words", wizard.OverflowWordLimit)))
			b.WriteString("\n")
		}
	} else {
		for i, opt := range q.Options {
			mark := "( )"
			if q.Control == wizard.ControlMulti {
				mark = "[ ]"
			}
			style := m.styles.Option
			if m.wiz.Selected(q.Field, opt) {
				mark = strings.NewReplacer(" ", "x").Replace(mark)
				style = m.styles.Selected
			}
			cursor := "  "
			if focused && i == m.cursors[q.Field] {
				cursor = "> "
			}
			b.WriteString(cursor + style.Render(mark+" "+opt))
			b.WriteString("\n")
		}
	}

	if failed {
		text := "This field is required"
		if q.Control == wizard.ControlMulti {
			text = "Please select at least one option"
		}
		b.WriteString(m.styles.Error.Render(text))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
