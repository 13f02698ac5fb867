package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sebastiantruijens/movie-ranker/internal/detail"
	"github.com/sebastiantruijens/movie-ranker/internal/keys"
	"github.com/sebastiantruijens/movie-ranker/internal/search"
	"github.com/sebastiantruijens/movie-ranker/internal/store"
	"github.com/sebastiantruijens/movie-ranker/internal/watched"
)

const appTitle = "Movie Ranker"

// Panes that can hold keyboard focus
type pane int

const (
	paneSearch pane = iota
	paneResults
	paneSide
)

// Deps are the collaborators the model is built from.
type Deps struct {
	Searcher       search.Searcher
	Fetcher        detail.Fetcher
	Consensus      detail.ConsensusSource // optional
	Watched        *store.State[watched.List]
	MinQueryLength int
	Timeout        time.Duration
}

// Model represents the application state. Update is the only writer of
// the query, the selection and the watched list.
type Model struct {
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keymap   keyMap

	search  search.Model
	detail  detail.Model
	watched *store.State[watched.List]

	bus    *keys.Bus
	enter  *keys.Subscription
	escape *keys.Subscription

	focus       pane
	selectedID  string
	cursor      int
	watchedIdx  int
	rating      starRating
	leftOpen    bool
	rightOpen   bool
	windowTitle string
	status      string
	width       int
	height      int
}

// NewModel creates a new application model
func NewModel(d Deps) Model {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.KeyMap.DeleteWordBackward = key.NewBinding(
		key.WithKeys("alt+backspace", "ctrl+w"),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	vp := viewport.New(60, 10)

	bus := keys.NewBus()
	m := Model{
		input:     ti,
		spinner:   sp,
		viewport:  vp,
		help:      help.New(),
		keymap:    newKeyMap(),
		search:    search.New(d.Searcher, d.MinQueryLength, d.Timeout),
		detail:    detail.New(d.Fetcher, d.Consensus, d.Timeout),
		watched:   d.Watched,
		bus:       bus,
		focus:     paneSearch,
		leftOpen:  true,
		rightOpen: true,
		width:     100,
		height:    30,
	}
	// The search box listens for Enter for as long as the program runs.
	m.enter = bus.Subscribe("Enter", refocusSearch)
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, tea.SetWindowTitle(appTitle))
}

// Update handles messages and user input
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeViewport()
		m.refreshDetail()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case search.ResultMsg:
		m.search.Update(msg)
		m.cursor = clamp(m.cursor, len(m.search.Movies))
		return m, nil

	case detail.LoadedMsg, detail.ConsensusMsg:
		next, _ := m.detail.Update(msg)
		m.refreshDetail()
		var titleCmd tea.Cmd
		if t := m.detail.Title(); t != "" && m.selectedID != "" {
			titleCmd = m.setTitle("Movie | " + t)
		}
		return m, tea.Batch(next, titleCmd)

	case refocusSearchMsg:
		return m.refocusSearch()

	case closeDetailMsg:
		return m, m.closeDetail()

	case openBrowserMsg:
		if msg.err != nil {
			slog.Warn("open browser", "err", msg.err)
			m.status = "Could not open browser: " + msg.err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	if key.Matches(msg, m.keymap.ForceQuit) || (m.focus != paneSearch && key.Matches(msg, m.keymap.Quit)) {
		m.teardown()
		return m, tea.Quit
	}

	// Global listeners come first, whatever pane has focus.
	if cmd, ok := m.bus.Dispatch(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.NextPane):
		return m, m.setFocus((m.focus + 1) % 3)
	case key.Matches(msg, m.keymap.PrevPane):
		return m, m.setFocus((m.focus + 2) % 3)
	}

	switch m.focus {
	case paneSearch:
		return m.updateInput(msg)
	case paneResults:
		return m.updateResults(msg)
	default:
		if m.selectedID != "" {
			return m.updateDetail(msg)
		}
		return m.updateWatched(msg)
	}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.input.Value()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.setQuery(m.input.Value()))
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Toggle):
		m.leftOpen = !m.leftOpen
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.search.Movies)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Select):
		if m.cursor < len(m.search.Movies) {
			return m, m.selectMovie(m.search.Movies[m.cursor].ID)
		}
	case key.Matches(msg, m.keymap.Open):
		if m.cursor < len(m.search.Movies) {
			return m, openIMDb(m.search.Movies[m.cursor].ID)
		}
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rateable := m.detail.Movie != nil && !m.isWatched()

	switch {
	case key.Matches(msg, m.keymap.Toggle):
		m.rightOpen = !m.rightOpen
	case key.Matches(msg, m.keymap.Open):
		return m, openIMDb(m.selectedID)
	case rateable && key.Matches(msg, m.keymap.RateUp):
		m.rating.set(min(m.rating.value+1, maxRating))
		m.refreshDetail()
	case rateable && key.Matches(msg, m.keymap.RateDown):
		m.rating.set(max(m.rating.value-1, 1))
		m.refreshDetail()
	case rateable && key.Matches(msg, m.keymap.Rate):
		m.rating.set(digitRating(msg.String()))
		m.refreshDetail()
	case rateable && key.Matches(msg, m.keymap.Add):
		return m, m.addWatched()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateWatched(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.watched.Get()
	switch {
	case key.Matches(msg, m.keymap.Toggle):
		m.rightOpen = !m.rightOpen
	case key.Matches(msg, m.keymap.Up):
		if m.watchedIdx > 0 {
			m.watchedIdx--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.watchedIdx < len(list)-1 {
			m.watchedIdx++
		}
	case key.Matches(msg, m.keymap.Delete):
		if m.watchedIdx < len(list) {
			m.deleteWatched(list[m.watchedIdx].IMDbID)
		}
	case key.Matches(msg, m.keymap.Open):
		if m.watchedIdx < len(list) {
			return m, openIMDb(list[m.watchedIdx].IMDbID)
		}
	}
	return m, nil
}

// setQuery hands the query to the search component. Starting a lookup
// closes the detail pane.
func (m *Model) setQuery(q string) tea.Cmd {
	cmd, started := m.search.SetQuery(q)
	m.cursor = 0
	if !started {
		return nil
	}
	return tea.Batch(cmd, m.closeDetail())
}

func (m Model) refocusSearch() (tea.Model, tea.Cmd) {
	if m.input.Focused() {
		return m, nil
	}
	focusCmd := m.setFocus(paneSearch)
	m.input.SetValue("")
	return m, tea.Batch(focusCmd, m.setQuery(""))
}

func (m *Model) setFocus(p pane) tea.Cmd {
	m.focus = p
	if p == paneSearch {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// selectMovie opens the detail pane for id, or closes it when id is
// already selected.
func (m *Model) selectMovie(id string) tea.Cmd {
	if id == m.selectedID {
		return m.closeDetail()
	}

	titleCmd := m.setTitle(appTitle)
	m.selectedID = id
	m.rating = starRating{}
	m.viewport.GotoTop()
	// A new selection re-registers the open pane's Escape listener.
	if m.escape == nil {
		m.escape = m.bus.Subscribe("Escape", closeDetailCmd)
	} else {
		m.escape.Rebind("Escape", closeDetailCmd)
	}
	m.setFocus(paneSide)
	cmd := m.detail.Select(id)
	m.refreshDetail()
	return tea.Batch(titleCmd, cmd)
}

// closeDetail releases everything the open detail pane holds: the pending
// lookup, the Escape listener and the window title.
func (m *Model) closeDetail() tea.Cmd {
	m.escape.Close()
	m.escape = nil
	m.selectedID = ""
	m.rating = starRating{}
	m.detail.Clear()
	return m.setTitle(appTitle)
}

func (m *Model) setTitle(title string) tea.Cmd {
	if m.windowTitle == title {
		return nil
	}
	m.windowTitle = title
	return tea.SetWindowTitle(title)
}

func (m *Model) isWatched() bool {
	return m.watched.Get().Contains(m.selectedID)
}

func (m *Model) existingUserRating() (int, bool) {
	return m.watched.Get().UserRating(m.selectedID)
}

// addWatched records the selected movie with the current rating and
// closes the detail pane.
func (m *Model) addWatched() tea.Cmd {
	if m.detail.Movie == nil || m.rating.value == 0 {
		return nil
	}
	entry := watched.NewEntry(*m.detail.Movie, m.rating.value, m.rating.decisions)
	entry.IMDbID = m.selectedID

	if list, added := m.watched.Get().Add(entry); added {
		m.persist(list)
	}
	return m.closeDetail()
}

func (m *Model) deleteWatched(id string) {
	m.persist(m.watched.Get().Delete(id))
	m.watchedIdx = clamp(m.watchedIdx, len(m.watched.Get()))
}

func (m *Model) persist(list watched.List) {
	if err := m.watched.Set(list); err != nil {
		slog.Error("persist watched list", "err", err)
		m.status = fmt.Sprintf("Could not save watched list: %v", err)
	}
}

// teardown cancels outstanding lookups and removes every key listener.
func (m *Model) teardown() {
	m.search.Close()
	m.detail.Close()
	m.escape.Close()
	m.escape = nil
	m.enter.Close()
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Custom message types
type refocusSearchMsg struct{}

type closeDetailMsg struct{}

type openBrowserMsg struct {
	err error
}

func refocusSearch() tea.Msg { return refocusSearchMsg{} }

func closeDetailCmd() tea.Msg { return closeDetailMsg{} }
