// Package detail loads the full record of the selected movie and, when a
// consensus source is configured, its critics consensus.
package detail

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebastiantruijens/movie-ranker/internal/fetch"
	"github.com/sebastiantruijens/movie-ranker/internal/omdb"
)

// FailureMessage is shown when a detail lookup fails.
const FailureMessage = "Could not load movie details"

// Fetcher loads one movie by id.
type Fetcher interface {
	Movie(ctx context.Context, id string) (*omdb.MovieDetail, error)
}

// ConsensusSource finds the critics consensus for a title.
type ConsensusSource interface {
	Consensus(ctx context.Context, title, year string) (string, error)
}

// LoadedMsg carries a detail lookup result.
type LoadedMsg struct {
	token fetch.Token
	ID    string
	Movie *omdb.MovieDetail
	Err   error
}

// ConsensusMsg carries a consensus lookup result.
type ConsensusMsg struct {
	token fetch.Token
	ID    string
	Text  string
	Err   error
}

// Model is the detail component state.
type Model struct {
	Movie     *omdb.MovieDetail
	IsLoading bool
	Err       string
	Consensus string

	id        string
	src       Fetcher
	consensus ConsensusSource
	lc        *fetch.Lifecycle
	enrich    *fetch.Lifecycle
}

// New returns a detail component. consensus may be nil.
func New(src Fetcher, consensus ConsensusSource, timeout time.Duration) Model {
	return Model{
		src:       src,
		consensus: consensus,
		lc:        fetch.New(timeout),
		enrich:    fetch.New(timeout),
	}
}

// ID returns the identifier currently shown or loading.
func (m Model) ID() string {
	return m.id
}

// Title returns the loaded title, or "" while nothing is loaded.
func (m Model) Title() string {
	if m.Movie == nil {
		return ""
	}
	return m.Movie.Title
}

// Select discards the current record, cancels outstanding lookups and
// starts loading id.
func (m *Model) Select(id string) tea.Cmd {
	m.Clear()
	m.id = id
	m.IsLoading = true

	ctx, tok := m.lc.Begin(context.Background())
	src := m.src
	return func() tea.Msg {
		if err := ctx.Err(); err != nil {
			return LoadedMsg{token: tok, ID: id, Err: err}
		}
		movie, err := src.Movie(ctx, id)
		return LoadedMsg{token: tok, ID: id, Movie: movie, Err: err}
	}
}

// Clear cancels outstanding lookups and forgets the record.
func (m *Model) Clear() {
	m.lc.Cancel()
	m.enrich.Cancel()
	m.id = ""
	m.Movie = nil
	m.IsLoading = false
	m.Err = ""
	m.Consensus = ""
}

// Update applies results that belong to the current selection. The
// returned command, if any, starts the consensus lookup.
func (m *Model) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if !m.lc.Current(msg.token) {
			return nil, true
		}
		m.lc.Finish(msg.token)
		m.IsLoading = false

		switch {
		case msg.Err == nil:
			m.Movie = msg.Movie
			m.Err = ""
			return m.loadConsensus(), true
		case fetch.IsCanceled(msg.Err):
		default:
			slog.Error("detail lookup failed", "id", msg.ID, "err", msg.Err)
			m.Err = FailureMessage
		}
		return nil, true

	case ConsensusMsg:
		if !m.enrich.Current(msg.token) {
			return nil, true
		}
		m.enrich.Finish(msg.token)
		if msg.Err != nil {
			if !fetch.IsCanceled(msg.Err) {
				slog.Warn("consensus lookup failed", "id", msg.ID, "err", msg.Err)
			}
			return nil, true
		}
		m.Consensus = msg.Text
		return nil, true
	}
	return nil, false
}

func (m *Model) loadConsensus() tea.Cmd {
	if m.consensus == nil || m.Movie == nil || m.Movie.Title == "" {
		return nil
	}
	ctx, tok := m.enrich.Begin(context.Background())
	src, id, title, year := m.consensus, m.id, m.Movie.Title, m.Movie.Year
	return func() tea.Msg {
		if err := ctx.Err(); err != nil {
			return ConsensusMsg{token: tok, ID: id, Err: err}
		}
		text, err := src.Consensus(ctx, title, year)
		return ConsensusMsg{token: tok, ID: id, Text: text, Err: err}
	}
}

// Close cancels outstanding lookups.
func (m *Model) Close() {
	m.lc.Cancel()
	m.enrich.Cancel()
}
