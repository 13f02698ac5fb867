// Package watched models the user's list of rated movies.
package watched

import "github.com/sebastiantruijens/movie-ranker/internal/omdb"

// StorageKey is the key the list is persisted under.
const StorageKey = "watched"

// Entry is a movie the user rated and added to the list. Field names in
// JSON match the format written by earlier versions of the list.
type Entry struct {
	IMDbID               string  `json:"imdbID"`
	Title                string  `json:"title"`
	Year                 string  `json:"year"`
	Poster               string  `json:"poster"`
	IMDbRating           float64 `json:"imdbRating"`
	Runtime              int     `json:"runtime"`
	UserRating           int     `json:"userRating"`
	CountRatingDecisions int     `json:"countRatingDecisions"`
}

// NewEntry builds an entry from a loaded detail record and the user's
// rating.
func NewEntry(d omdb.MovieDetail, userRating, decisions int) Entry {
	return Entry{
		IMDbID:               d.ID,
		Title:                d.Title,
		Year:                 d.Year,
		Poster:               d.Poster,
		IMDbRating:           d.Rating(),
		Runtime:              d.RuntimeMinutes(),
		UserRating:           userRating,
		CountRatingDecisions: decisions,
	}
}

// List is an ordered watched list. Methods never modify the receiver.
type List []Entry

// Add appends e unless an entry with the same id is already present, in
// which case the list is returned unchanged and added is false.
func (l List) Add(e Entry) (out List, added bool) {
	if l.Contains(e.IMDbID) {
		return l, false
	}
	out = make(List, 0, len(l)+1)
	out = append(out, l...)
	return append(out, e), true
}

// Delete returns the list without any entry whose id is id.
func (l List) Delete(id string) List {
	out := make(List, 0, len(l))
	for _, e := range l {
		if e.IMDbID != id {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether id is on the list.
func (l List) Contains(id string) bool {
	_, ok := l.Find(id)
	return ok
}

// Find returns the first entry with the given id.
func (l List) Find(id string) (Entry, bool) {
	for _, e := range l {
		if e.IMDbID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// UserRating returns the rating the user gave id, if it is on the list.
func (l List) UserRating(id string) (int, bool) {
	e, ok := l.Find(id)
	return e.UserRating, ok
}

// Stats are aggregate figures over a list.
type Stats struct {
	Count         int
	AvgIMDbRating float64
	AvgUserRating float64
	AvgRuntime    float64
}

// Stats computes averages over the list. An empty list averages to zero.
func (l List) Stats() Stats {
	s := Stats{Count: len(l)}
	if len(l) == 0 {
		return s
	}
	n := float64(len(l))
	for _, e := range l {
		s.AvgIMDbRating += e.IMDbRating / n
		s.AvgUserRating += float64(e.UserRating) / n
		s.AvgRuntime += float64(e.Runtime) / n
	}
	return s
}
