// Package tui is the terminal view over the student store: a list, a
// create/edit form and a delete confirmation.
//
// The store stays the only owner of application state. The model keeps the
// latest snapshot it was sent and turns key presses into store actions;
// asynchronous actions run inside tea.Cmds so the event loop never blocks on
// the network.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aanand-mishra/students-manager/internal/store"
	"github.com/aanand-mishra/students-manager/internal/types"
	"github.com/aanand-mishra/students-manager/internal/validation"
)

// stateMsg carries a store snapshot into the event loop.
type stateMsg struct{ state store.State }

// opDoneMsg is returned when an asynchronous store action finishes.
type opDoneMsg struct{ err error }

// Model is the root bubbletea model.
type Model struct {
	ctx   context.Context
	store *store.Store

	updates     chan store.State
	unsubscribe func()

	state   store.State
	cursor  int
	spinner spinner.Model

	inputs    []textinput.Model
	focus     int
	formErrs  validation.Errors
	confirmID int64
	confirm   bool

	width  int
	height int
	styles Styles
}

// New subscribes to st and returns a model showing its current state.
// Call Close when the program exits.
func New(ctx context.Context, st *store.Store) Model {
	updates := make(chan store.State, 1)
	unsubscribe := st.Subscribe(func(s store.State) {
		// Snapshots are complete, so only the newest one matters.
		select {
		case updates <- s:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- s
		}
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Loading

	return Model{
		ctx:         ctx,
		spinner:     sp,
		store:       st,
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       st.State(),
		inputs:      newInputs(),
		formErrs:    validation.Errors{},
		styles:      DefaultStyles(),
	}
}

// Close stops receiving store updates.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func newInputs() []textinput.Model {
	placeholders := map[validation.Field]string{
		validation.FieldName:    "Enter student name",
		validation.FieldEmail:   "Enter email address",
		validation.FieldPhone:   "Enter phone number",
		validation.FieldAddress: "Enter address",
	}
	inputs := make([]textinput.Model, len(validation.Fields))
	for i, f := range validation.Fields {
		in := textinput.New()
		in.Placeholder = placeholders[f]
		in.CharLimit = 200
		in.Prompt = ""
		inputs[i] = in
	}
	return inputs
}

// Init loads the list and starts listening for store updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForState(), m.fetch(), m.spinner.Tick)
}

func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: <-m.updates}
	}
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg { return opDoneMsg{err: m.store.FetchAll(m.ctx)} }
}

func (m Model) retry() tea.Cmd {
	return func() tea.Msg { return opDoneMsg{err: m.store.Retry(m.ctx)} }
}

func (m Model) remove(id int64) tea.Cmd {
	return func() tea.Msg { return opDoneMsg{err: m.store.Delete(m.ctx, id)} }
}

func (m Model) submit(f validation.Form) tea.Cmd {
	return func() tea.Msg { return opDoneMsg{err: m.store.Submit(m.ctx, f)} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		m.setState(msg.state)
		return m, m.waitForState()

	case opDoneMsg:
		// The subscription already delivered the transitions; refresh in
		// case the coalesced snapshot is still in the channel.
		m.setState(m.store.State())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.confirm:
			return m.updateConfirm(msg)
		case m.state.FormVisible:
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) setState(s store.State) {
	m.state = s
	if m.cursor >= len(s.Students) {
		m.cursor = max(len(s.Students)-1, 0)
	}
}

func (m Model) selected() (types.Student, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Students) {
		return types.Student{}, false
	}
	return m.state.Students[m.cursor], true
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Students)-1 {
			m.cursor++
		}
	case "r":
		if m.state.ListLoading {
			return m, nil
		}
		return m, m.retry()
	case "a":
		m.store.OpenForm()
		m.loadForm(validation.Form{})
		m.setState(m.store.State())
	case "e", "enter":
		if st, ok := m.selected(); ok {
			m.store.BeginEdit(st)
			m.loadForm(validation.FormFromInput(st.Input()))
			m.setState(m.store.State())
		}
	case "d":
		if st, ok := m.selected(); ok && !m.state.OperationLoading {
			m.confirm = true
			m.confirmID = st.ID
		}
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirm = false
		return m, m.remove(m.confirmID)
	case "n", "N", "esc":
		m.confirm = false
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.store.CloseForm()
		m.setState(m.store.State())
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.focusField((m.focus + 1) % len(m.inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusField((m.focus - 1 + len(m.inputs)) % len(m.inputs))
		return m, nil
	case tea.KeyEnter:
		if m.state.OperationLoading {
			return m, nil
		}
		f := m.formValues()
		if errs := validation.Validate(f); len(errs) > 0 {
			m.formErrs = errs
			return m, nil
		}
		return m, m.submit(f)
	}

	field := validation.Fields[m.focus]
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() != before {
		m.formErrs.Clear(field)
	}
	return m, cmd
}

// loadForm fills the inputs and focuses the first one.
func (m *Model) loadForm(f validation.Form) {
	for i, field := range validation.Fields {
		m.inputs[i].SetValue(f.Value(field))
		m.inputs[i].CursorEnd()
	}
	m.formErrs = validation.Errors{}
	m.focusField(0)
}

func (m *Model) focusField(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m Model) formValues() validation.Form {
	var f validation.Form
	for i, field := range validation.Fields {
		f = f.Set(field, m.inputs[i].Value())
	}
	return f
}
