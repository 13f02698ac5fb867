package omdb

import (
	"strconv"
	"strings"
)

// MovieSummary is one row of a search response.
type MovieSummary struct {
	ID     string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
	Type   string `json:"Type"`
}

// Rating is a score from one review aggregator.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// MovieDetail is the full record for a single movie. Numeric fields are kept
// as the raw strings the API returns.
type MovieDetail struct {
	ID         string   `json:"imdbID"`
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Poster     string   `json:"Poster"`
	IMDbRating string   `json:"imdbRating"`
	Ratings    []Rating `json:"Ratings"`
}

// RuntimeMinutes parses Runtime ("148 min") into minutes. It returns 0 when
// the runtime is unknown.
func (d MovieDetail) RuntimeMinutes() int {
	fields := strings.Fields(d.Runtime)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// Rating parses IMDbRating. It returns 0 when the rating is "N/A".
func (d MovieDetail) Rating() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(d.IMDbRating), 64)
	if err != nil {
		return 0
	}
	return f
}

// RatingFrom returns the score reported by source, e.g. "Rotten Tomatoes".
func (d MovieDetail) RatingFrom(source string) (string, bool) {
	for _, r := range d.Ratings {
		if strings.EqualFold(r.Source, source) {
			return r.Value, true
		}
	}
	return "", false
}

// envelope is the discriminator every response carries.
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (e envelope) ok() bool {
	return strings.EqualFold(e.Response, "True")
}

type searchResponse struct {
	envelope
	Search       []MovieSummary `json:"Search"`
	TotalResults string         `json:"totalResults"`
}

type detailResponse struct {
	envelope
	MovieDetail
}
