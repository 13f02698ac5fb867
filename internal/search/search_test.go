package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sebastiantruijens/movie-ranker/internal/omdb"
)

// fakeSearcher answers from a table. Queries listed in block wait until
// released, then report their context error if it was cancelled.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]omdb.MovieSummary
	errs    map[string]error
	block   map[string]chan struct{}
	calls   []string
	ctxs    map[string]context.Context
}

func newFake() *fakeSearcher {
	return &fakeSearcher{
		results: map[string][]omdb.MovieSummary{},
		errs:    map[string]error{},
		block:   map[string]chan struct{}{},
		ctxs:    map[string]context.Context{},
	}
}

func (f *fakeSearcher) Search(ctx context.Context, q string) ([]omdb.MovieSummary, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.ctxs[q] = ctx
	wait := f.block[q]
	f.mu.Unlock()

	if wait != nil {
		<-wait
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if err := f.errs[q]; err != nil {
		return nil, err
	}
	return f.results[q], nil
}

func movies(ids ...string) []omdb.MovieSummary {
	out := make([]omdb.MovieSummary, len(ids))
	for i, id := range ids {
		out[i] = omdb.MovieSummary{ID: id, Title: "Movie " + id}
	}
	return out
}

func TestShortQueryIssuesNothing(t *testing.T) {
	f := newFake()
	m := New(f, 3, 0)
	m.Movies = movies("old")
	m.Err = "old error"

	for _, q := range []string{"", "b", "ba", "日本"} {
		cmd, started := m.SetQuery(q)
		if cmd != nil || started {
			t.Errorf("SetQuery(%q) issued a request", q)
		}
		if len(m.Movies) != 0 || m.Err != "" || m.IsLoading {
			t.Errorf("SetQuery(%q) left state %+v", q, m)
		}
	}
	if len(f.calls) != 0 {
		t.Errorf("searcher called %v", f.calls)
	}
}

func TestSuccessfulSearch(t *testing.T) {
	f := newFake()
	f.results["batman"] = movies("tt1", "tt2")
	m := New(f, 3, 0)
	m.Err = "previous"

	cmd, started := m.SetQuery("batman")
	if !started || cmd == nil {
		t.Fatal("expected a request")
	}
	if !m.IsLoading || m.Err != "" {
		t.Errorf("request start should set loading and clear the error: %+v", m)
	}

	if !m.Update(cmd()) {
		t.Fatal("ResultMsg not recognised")
	}
	if m.IsLoading || m.Err != "" || len(m.Movies) != 2 {
		t.Errorf("unexpected state %+v", m)
	}
}

func TestNotFound(t *testing.T) {
	f := newFake()
	f.errs["zzzzznomatch"] = omdb.ErrNotFound
	m := New(f, 3, 0)
	m.Movies = movies("stale")

	cmd, _ := m.SetQuery("zzzzznomatch")
	m.Update(cmd())

	if m.Err != NotFoundMessage {
		t.Errorf("Err = %q, want %q", m.Err, NotFoundMessage)
	}
	if len(m.Movies) != 0 {
		t.Errorf("Movies = %v, want none", m.Movies)
	}
}

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("dial tcp: connection refused"), FailureMessage},
		{&omdb.StatusError{Code: 500}, FailureMessage},
		{context.DeadlineExceeded, FailureMessage},
		{&omdb.APIError{Message: "Too many results."}, "Too many results."},
	}
	for _, tt := range tests {
		f := newFake()
		f.errs["batman"] = tt.err
		m := New(f, 3, 0)

		cmd, _ := m.SetQuery("batman")
		m.Update(cmd())
		if m.Err != tt.want {
			t.Errorf("%v: Err = %q, want %q", tt.err, m.Err, tt.want)
		}
		if m.IsLoading {
			t.Errorf("%v: still loading", tt.err)
		}
	}
}

func TestLastIssuedWins(t *testing.T) {
	f := newFake()
	f.results["bat"] = movies("a1", "a2", "a3")
	f.results["batman"] = movies("b1")
	releaseA := make(chan struct{})
	f.block["bat"] = releaseA

	m := New(f, 3, 0)
	cmdA, _ := m.SetQuery("bat")
	cmdB, _ := m.SetQuery("batman")

	// A is slow: it resolves after B.
	done := make(chan any)
	go func() { done <- cmdA() }()

	m.Update(cmdB())
	close(releaseA)
	m.Update(<-done)

	if len(m.Movies) != 1 || m.Movies[0].ID != "b1" {
		t.Errorf("Movies = %v, want only the results for the latest query", m.Movies)
	}
	if m.Err != "" {
		t.Errorf("Err = %q", m.Err)
	}
}

func TestStaleSuccessIsDropped(t *testing.T) {
	f := newFake()
	f.results["bat"] = movies("a1")
	f.results["batman"] = movies("b1")
	m := New(f, 3, 0)

	cmdA, _ := m.SetQuery("bat")
	// A's response was already on its way when B was issued.
	resA := cmdA()
	cmdB, _ := m.SetQuery("batman")

	m.Update(resA)
	if !m.IsLoading {
		t.Error("a stale result must not end the loading state of the current request")
	}
	if len(m.Movies) != 0 {
		t.Errorf("stale result applied: %v", m.Movies)
	}

	m.Update(cmdB())
	if len(m.Movies) != 1 || m.Movies[0].ID != "b1" {
		t.Errorf("Movies = %v", m.Movies)
	}
}

func TestSupersededRequestIsCancelled(t *testing.T) {
	f := newFake()
	release := make(chan struct{})
	f.block["bat"] = release
	m := New(f, 3, 0)

	cmdA, _ := m.SetQuery("bat")
	done := make(chan any)
	go func() { done <- cmdA() }()

	// Wait until A is in flight before superseding it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		ctx := f.ctxs["bat"]
		f.mu.Unlock()
		if ctx != nil {
			break
		}
		if time.Now().After(deadline) {
			close(release)
			t.Fatal("request never reached the searcher")
		}
		time.Sleep(time.Millisecond)
	}
	m.SetQuery("batm")

	f.mu.Lock()
	ctxA := f.ctxs["bat"]
	f.mu.Unlock()
	if !errors.Is(ctxA.Err(), context.Canceled) {
		t.Errorf("superseded context err = %v, want context.Canceled", ctxA.Err())
	}
	close(release)
	m.Update(<-done)
	if m.Err != "" {
		t.Errorf("cancellation surfaced as error %q", m.Err)
	}
}

func TestCancelNeverSetsError(t *testing.T) {
	f := newFake()
	f.results["batman"] = movies("b1")
	m := New(f, 3, 0)

	cmd, _ := m.SetQuery("batman")
	m.Close()

	// The command notices the cancellation before calling the searcher.
	msg := cmd()
	if res := msg.(ResultMsg); !errors.Is(res.Err, context.Canceled) {
		t.Errorf("ResultMsg.Err = %v, want context.Canceled", res.Err)
	}
	m.Update(msg)

	if m.Err != "" {
		t.Errorf("Err = %q after cancellation", m.Err)
	}
	if len(m.Movies) != 0 {
		t.Errorf("cancelled request applied movies %v", m.Movies)
	}
	if len(f.calls) != 0 {
		t.Errorf("cancelled request reached the searcher: %v", f.calls)
	}
}

func TestShortQueryCancelsOutstanding(t *testing.T) {
	f := newFake()
	f.results["batman"] = movies("b1")
	m := New(f, 3, 0)

	cmd, _ := m.SetQuery("batman")
	m.SetQuery("ba")
	m.Update(cmd())

	if len(m.Movies) != 0 {
		t.Errorf("result for an abandoned query applied: %v", m.Movies)
	}
	if m.Query() != "ba" {
		t.Errorf("Query = %q", m.Query())
	}
}

func TestUpdateIgnoresOtherMessages(t *testing.T) {
	m := New(newFake(), 3, 0)
	if m.Update("not a result") {
		t.Error("Update should only claim ResultMsg")
	}
}
