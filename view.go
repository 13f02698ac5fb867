package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sebastiantruijens/movie-ranker/internal/watched"
)

// Styling constants
var (
	// Colors
	primaryColor   = lipgloss.Color("#FCC419") // Popcorn yellow
	secondaryColor = lipgloss.Color("#F5F5F1") // Light cream color
	accentColor    = lipgloss.Color("#564D4D") // Dark gray
	errorColor     = lipgloss.Color("#FF6B6B")

	// Text styles
	logoStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	normalTextStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	dimTextStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	highlightedTextStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	starStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	// Component styles
	navStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	focusedBoxStyle = boxStyle.
			BorderForeground(primaryColor)
)

const navHeight = 3

// View renders the current UI
func (m Model) View() string {
	leftW, rightW := m.boxWidths()
	boxH := m.boxHeight()

	left := m.box(paneResults, m.leftOpen, leftW, boxH, m.resultsView(leftW-4))
	right := m.box(paneSide, m.rightOpen, rightW, boxH, m.sideView(rightW-4))

	var sb strings.Builder
	sb.WriteString(m.navView())
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(errorStyle.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keymap))

	return lipgloss.NewStyle().
		MaxWidth(m.width).
		MaxHeight(m.height).
		Render(sb.String())
}

func (m Model) navView() string {
	logo := logoStyle.Render("🍿 " + appTitle)
	found := normalTextStyle.Render(fmt.Sprintf("Found %d results", len(m.search.Movies)))

	style := navStyle
	if m.focus != paneSearch {
		style = style.BorderForeground(accentColor)
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center, logo, "   ", m.input.View(), "   ", found)
	return style.Width(max(m.width-2, 20)).Render(bar)
}

// box draws one of the two collapsible content boxes.
func (m Model) box(p pane, open bool, width, height int, content string) string {
	style := boxStyle
	if m.focus == p {
		style = focusedBoxStyle
	}
	if !open {
		return style.Width(width - 2).Render(dimTextStyle.Render("[+] press z to expand"))
	}
	return style.Width(width - 2).Height(height).Render(content)
}

func (m Model) resultsView(width int) string {
	switch {
	case m.search.IsLoading:
		return m.spinner.View() + " " + normalTextStyle.Render("Loading...")
	case m.search.Err != "":
		return errorStyle.Render("⛔ " + m.search.Err)
	}

	var sb strings.Builder
	for i, movie := range m.search.Movies {
		item := truncate(fmt.Sprintf("%s (%s)", movie.Title, movie.Year), width-2)
		switch {
		case movie.ID == m.selectedID:
			sb.WriteString(highlightedTextStyle.Render("● " + item))
		case i == m.cursor && m.focus == paneResults:
			sb.WriteString(highlightedTextStyle.Render("> " + item))
		default:
			sb.WriteString(normalTextStyle.Render("  " + item))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (m Model) sideView(width int) string {
	if m.selectedID != "" {
		if m.detail.IsLoading {
			return m.spinner.View() + " " + normalTextStyle.Render("Loading...")
		}
		return m.viewport.View()
	}

	list := m.watched.Get()
	var sb strings.Builder
	sb.WriteString(subtitleStyle.Render("Movies you watched"))
	sb.WriteString("\n")
	sb.WriteString(normalTextStyle.Render(summaryLine(list.Stats())))
	sb.WriteString("\n\n")

	for i, e := range list {
		line := truncate(fmt.Sprintf("%s (%s)  ⭐ %.1f  🌟 %d  ⏳ %d min",
			e.Title, e.Year, e.IMDbRating, e.UserRating, e.Runtime), width-2)
		if i == m.watchedIdx && m.focus == paneSide {
			sb.WriteString(highlightedTextStyle.Render("> " + line))
		} else {
			sb.WriteString(normalTextStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// summaryLine formats the aggregate figures of the watched list. Ties round
// away from zero, not to even.
func summaryLine(s watched.Stats) string {
	return fmt.Sprintf("#️⃣ %d movies  ⭐ %.2f  🌟 %.2f  ⏳ %.0f min",
		s.Count, roundTo(s.AvgIMDbRating, 2), roundTo(s.AvgUserRating, 2), roundTo(s.AvgRuntime, 0))
}

func roundTo(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

// ratingLine is the rating row of the detail pane.
func (m Model) ratingLine() string {
	if r, ok := m.existingUserRating(); ok {
		return normalTextStyle.Render(fmt.Sprintf("You rated this movie %d ⭐", r))
	}
	line := m.rating.view()
	if m.rating.value > 0 {
		line += "   " + highlightedTextStyle.Render("[a] + Add to list")
	}
	return line
}

// refreshDetail renders the selected movie into the viewport.
func (m *Model) refreshDetail() {
	m.viewport.SetContent(m.formatMovieDetails())
}

// Format movie details for display
func (m *Model) formatMovieDetails() string {
	switch {
	case m.selectedID == "", m.detail.IsLoading:
		return ""
	case m.detail.Err != "":
		return errorStyle.Render("⛔ " + m.detail.Err)
	case m.detail.Movie == nil:
		return ""
	}

	mv := m.detail.Movie
	maxWidth := m.viewport.Width - 2
	if maxWidth < 20 {
		maxWidth = 60
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(mv.Title))
	sb.WriteString("\n")
	sb.WriteString(normalTextStyle.Render(mv.Released + " • " + mv.Runtime))
	sb.WriteString("\n")
	sb.WriteString(normalTextStyle.Render(mv.Genre))
	sb.WriteString("\n")
	sb.WriteString(normalTextStyle.Render("⭐ " + mv.IMDbRating + " IMDb rating"))
	if v, ok := mv.RatingFrom("Rotten Tomatoes"); ok {
		sb.WriteString(normalTextStyle.Render("   🍅 " + v))
	}
	sb.WriteString("\n")
	if mv.Poster != "" && mv.Poster != "N/A" {
		sb.WriteString(dimTextStyle.Render(mv.Poster))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(m.ratingLine())
	sb.WriteString("\n\n")

	sb.WriteString(normalTextStyle.Render(wrapText(mv.Plot, maxWidth)))
	sb.WriteString("\n\n")
	sb.WriteString(normalTextStyle.Render(wrapText("Starring "+mv.Actors, maxWidth)))
	sb.WriteString("\n")
	sb.WriteString(normalTextStyle.Render(wrapText("Directed by "+mv.Director, maxWidth)))

	if m.detail.Consensus != "" {
		sb.WriteString("\n\n")
		sb.WriteString(subtitleStyle.Render("Critics Consensus:"))
		sb.WriteString("\n")
		sb.WriteString(normalTextStyle.Render(wrapText(m.detail.Consensus, maxWidth)))
	}
	return sb.String()
}

func (m Model) boxWidths() (int, int) {
	left := m.width * 2 / 5
	if left < 24 {
		left = 24
	}
	right := m.width - left
	if right < 30 {
		right = 30
	}
	return left, right
}

func (m Model) boxHeight() int {
	h := m.height - navHeight - 6
	if h < 5 {
		h = 5
	}
	return h
}

// resizeViewport fits the detail viewport into the right box.
func (m *Model) resizeViewport() {
	_, right := m.boxWidths()
	m.viewport.Width = right - 4
	m.viewport.Height = m.boxHeight()
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// wrapText wraps text to fit within a given width
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	var lineLength int

	for _, word := range strings.Fields(text) {
		// Break words longer than a whole line
		for len([]rune(word)) > width {
			if lineLength > 0 {
				result.WriteString("\n")
			}
			r := []rune(word)
			result.WriteString(string(r[:width-1]) + "-\n")
			word = string(r[width-1:])
			lineLength = 0
		}

		n := len([]rune(word))
		switch {
		case lineLength == 0:
		case lineLength+1+n > width:
			result.WriteString("\n")
			lineLength = 0
		default:
			result.WriteString(" ")
			lineLength++
		}

		result.WriteString(word)
		lineLength += n
	}

	return result.String()
}
