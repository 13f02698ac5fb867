package main

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func imdbURL(id string) string {
	return "https://www.imdb.com/title/" + id + "/"
}

// openIMDb opens the IMDb page of a movie in the default browser
func openIMDb(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	url := imdbURL(id)
	return func() tea.Msg {
		name, args := browserCommand(runtime.GOOS, os.Getenv("BROWSER"), url)
		return openBrowserMsg{err: exec.Command(name, args...).Start()}
	}
}

// browserCommand picks the program that opens url. $BROWSER, when set, wins
// over the platform opener; its first entry is used and may carry arguments.
func browserCommand(goos, browser, url string) (string, []string) {
	if first, _, _ := strings.Cut(browser, ":"); strings.TrimSpace(first) != "" {
		fields := strings.Fields(first)
		return fields[0], append(fields[1:], url)
	}

	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}
