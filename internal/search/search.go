// Package search is the search-as-you-type component: it turns the current
// query into at most one in-flight lookup and exposes its loading, error and
// result state.
package search

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebastiantruijens/movie-ranker/internal/fetch"
	"github.com/sebastiantruijens/movie-ranker/internal/omdb"
)

// Messages shown for failed searches.
const (
	NotFoundMessage = "Movie not found"
	FailureMessage  = "Something went wrong with fetching movies"
)

// DefaultMinLength is the shortest query that triggers a lookup.
const DefaultMinLength = 3

// Searcher looks movies up by title.
type Searcher interface {
	Search(ctx context.Context, query string) ([]omdb.MovieSummary, error)
}

// ResultMsg carries the outcome of one lookup back to Update.
type ResultMsg struct {
	token  fetch.Token
	Query  string
	Movies []omdb.MovieSummary
	Err    error
}

// Model is the search component state.
type Model struct {
	Movies    []omdb.MovieSummary
	IsLoading bool
	Err       string

	query     string
	minLength int
	src       Searcher
	lc        *fetch.Lifecycle
}

// New returns a search component backed by src. Each lookup is abandoned
// after timeout; zero means no limit.
func New(src Searcher, minLength int, timeout time.Duration) Model {
	if minLength < 1 {
		minLength = DefaultMinLength
	}
	return Model{
		src:       src,
		minLength: minLength,
		lc:        fetch.New(timeout),
	}
}

// Query returns the query the current state belongs to.
func (m Model) Query() string {
	return m.query
}

// SetQuery cancels any outstanding lookup and, when q is long enough,
// starts a new one. started reports whether a lookup was issued; the caller
// closes its detail pane when it was.
func (m *Model) SetQuery(q string) (cmd tea.Cmd, started bool) {
	m.query = q
	m.lc.Cancel()

	if utf8.RuneCountInString(q) < m.minLength {
		m.Movies = nil
		m.Err = ""
		m.IsLoading = false
		return nil, false
	}

	ctx, tok := m.lc.Begin(context.Background())
	m.IsLoading = true
	m.Err = ""

	src := m.src
	return func() tea.Msg {
		if err := ctx.Err(); err != nil {
			return ResultMsg{token: tok, Query: q, Err: err}
		}
		movies, err := src.Search(ctx, q)
		return ResultMsg{token: tok, Query: q, Movies: movies, Err: err}
	}, true
}

// Update applies a ResultMsg if it belongs to the latest lookup. It reports
// whether msg was a search result at all.
func (m *Model) Update(msg tea.Msg) bool {
	res, ok := msg.(ResultMsg)
	if !ok {
		return false
	}
	if !m.lc.Current(res.token) {
		slog.Debug("dropping stale search result", "query", res.Query)
		return true
	}
	m.lc.Finish(res.token)
	m.IsLoading = false

	if res.Err != nil && fetch.IsCanceled(res.Err) {
		return true
	}

	var apiErr *omdb.APIError
	switch {
	case res.Err == nil:
		m.Movies = res.Movies
		m.Err = ""
	case errors.Is(res.Err, omdb.ErrNotFound):
		m.Movies = nil
		m.Err = NotFoundMessage
	case errors.As(res.Err, &apiErr):
		m.Movies = nil
		m.Err = apiErr.Message
	default:
		slog.Error("search failed", "query", res.Query, "err", res.Err)
		m.Movies = nil
		m.Err = FailureMessage
	}
	return true
}

// Close cancels the outstanding lookup. Results that arrive later are
// dropped.
func (m *Model) Close() {
	m.lc.Cancel()
	m.IsLoading = false
}
