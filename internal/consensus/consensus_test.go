package consensus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const searchPage = `<html><body>
<search-page-result type="movie">
  <search-page-media-row releaseyear="1989">
    <a href="/m/batman_1989" slot="thumbnail"><img></a>
    <a href="/m/batman_1989" slot="title">Batman</a>
  </search-page-media-row>
  <search-page-media-row releaseyear="2005">
    <a href="/m/batman_begins" slot="thumbnail"><img></a>
    <a href="/m/batman_begins" slot="title">Batman Begins</a>
  </search-page-media-row>
</search-page-result>
</body></html>`

const moviePage = `<html><body>
<div id="critics-consensus"><p>Critics Consensus: Brooding and dark, but also exciting and smart, <em>Batman Begins</em> is a film that captures the essence of the character.</p></div>
</body></html>`

func server(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConsensus(t *testing.T) {
	srv := server(t, map[string]string{
		"/search":          searchPage,
		"/m/batman_begins": moviePage,
	})

	got, err := NewClient(srv.URL).Consensus(context.Background(), "Batman Begins", "2005")
	if err != nil {
		t.Fatalf("Consensus: %v", err)
	}
	want := "Brooding and dark, but also exciting and smart, Batman Begins is a film that captures the essence of the character."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestConsensusFromStructuredData(t *testing.T) {
	srv := server(t, map[string]string{
		"/search":       searchPage,
		"/m/batman_1989": `<html><script>{"reviewBody": "Tim Burton&#39;s gothic take on the caped crusader."}</script></html>`,
	})

	got, err := NewClient(srv.URL).Consensus(context.Background(), "Batman", "1989")
	if err != nil {
		t.Fatalf("Consensus: %v", err)
	}
	if !strings.HasPrefix(got, "Tim Burton") {
		t.Errorf("got %q", got)
	}
}

func TestConsensusMissing(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		srv := server(t, map[string]string{"/search": "<html></html>"})
		_, err := NewClient(srv.URL).Consensus(context.Background(), "zzzzznomatch", "")
		if !errors.Is(err, ErrNoConsensus) {
			t.Errorf("err = %v, want ErrNoConsensus", err)
		}
	})
	t.Run("no consensus", func(t *testing.T) {
		srv := server(t, map[string]string{
			"/search":          searchPage,
			"/m/batman_begins": "<html><p>short</p></html>",
		})
		_, err := NewClient(srv.URL).Consensus(context.Background(), "Batman Begins", "2005")
		if !errors.Is(err, ErrNoConsensus) {
			t.Errorf("err = %v, want ErrNoConsensus", err)
		}
	})
	t.Run("status", func(t *testing.T) {
		srv := server(t, map[string]string{})
		if _, err := NewClient(srv.URL).Consensus(context.Background(), "Batman", ""); err == nil {
			t.Error("expected an error for a 404 search page")
		}
	})
}

func TestPick(t *testing.T) {
	cands := []candidate{
		{title: "Batman", year: "1989", url: "a"},
		{title: "Batman Begins", year: "2005", url: "b"},
		{title: "Batman", year: "1966", url: "c"},
	}
	tests := []struct {
		title, year, want string
	}{
		{"Batman", "1966", "c"},
		{"batman begins", "2005", "b"},
		{"Something Else", "2005", "b"},
		{"Something Else", "", "a"},
		{"Batman", "1989–1990", "a"},
	}
	for _, tt := range tests {
		if got := pick(cands, tt.title, tt.year); got != tt.want {
			t.Errorf("pick(%q, %q) = %q, want %q", tt.title, tt.year, got, tt.want)
		}
	}
	if pick(nil, "Batman", "") != "" {
		t.Error("pick on no candidates should be empty")
	}
}
