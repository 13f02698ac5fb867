package main

import (
	"fmt"
	"strings"
)

const maxRating = 10

// starRating is the 1–10 rating widget of the detail pane. decisions counts
// how often the user settled on a new non-zero rating.
type starRating struct {
	value     int
	decisions int
}

func (r *starRating) set(v int) {
	if v < 0 || v > maxRating || v == r.value {
		return
	}
	r.value = v
	if v > 0 {
		r.decisions++
	}
}

func (r starRating) view() string {
	stars := strings.Repeat("★", r.value) + strings.Repeat("☆", maxRating-r.value)
	if r.value == 0 {
		return starStyle.Render(stars)
	}
	return starStyle.Render(stars) + " " + fmt.Sprint(r.value)
}

// digitRating maps the keys 1-9 to themselves and 0 to ten stars.
func digitRating(s string) int {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0
	}
	if s[0] == '0' {
		return maxRating
	}
	return int(s[0] - '0')
}
