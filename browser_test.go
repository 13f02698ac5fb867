package main

import (
	"reflect"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	url := imdbURL("tt0372784")
	if url != "https://www.imdb.com/title/tt0372784/" {
		t.Fatalf("imdbURL = %q", url)
	}

	tests := []struct {
		goos, browser string
		wantName      string
		wantArgs      []string
	}{
		{"linux", "", "xdg-open", []string{url}},
		{"freebsd", "  ", "xdg-open", []string{url}},
		{"darwin", "", "open", []string{url}},
		{"windows", "", "rundll32", []string{"url.dll,FileProtocolHandler", url}},
		{"linux", "firefox", "firefox", []string{url}},
		{"darwin", "firefox --new-tab:chromium", "firefox", []string{"--new-tab", url}},
	}
	for _, tt := range tests {
		name, args := browserCommand(tt.goos, tt.browser, url)
		if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("browserCommand(%q, %q) = %q %v, want %q %v",
				tt.goos, tt.browser, name, args, tt.wantName, tt.wantArgs)
		}
	}
}

func TestOpenIMDbWithoutID(t *testing.T) {
	if openIMDb("") != nil {
		t.Error("no id, no command")
	}
}
