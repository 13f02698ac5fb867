// Package consensus looks up the Rotten Tomatoes critics consensus for a
// movie by scraping the public search and movie pages.
package consensus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoConsensus is returned when the movie or its consensus cannot be found.
var ErrNoConsensus = errors.New("no critics consensus")

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var (
	yearInURL       = regexp.MustCompile(`/m/[^/]*_(\d{4})(?:/|$)`)
	reviewBody      = regexp.MustCompile(`"reviewBody":\s*"([^"]{20,})"`)
	consensusPrefix = regexp.MustCompile(`(?i)^Critics\s+Consensus:?\s*`)
	htmlTags        = regexp.MustCompile(`<[^>]*>`)
	whitespace      = regexp.MustCompile(`\s+`)
)

var selectors = []string{
	`[data-qa="critics-consensus"]`,
	"#critics-consensus p",
	".what-to-know__consensus",
	".critics-consensus",
	".consensus",
}

// Client scrapes Rotten Tomatoes.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a scraper rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type candidate struct {
	title string
	year  string
	url   string
}

// Consensus returns the critics consensus for the movie best matching title
// and year.
func (c *Client) Consensus(ctx context.Context, title, year string) (string, error) {
	searchURL := fmt.Sprintf("%s/search?search=%s", c.baseURL, url.QueryEscape(title))
	doc, err := c.fetch(ctx, searchURL)
	if err != nil {
		return "", err
	}

	movieURL := pick(c.candidates(doc), title, year)
	if movieURL == "" {
		return "", ErrNoConsensus
	}

	doc, err = c.fetch(ctx, movieURL)
	if err != nil {
		return "", err
	}
	return extract(doc)
}

func (c *Client) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rotten tomatoes: status code %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// candidates reads the movie rows of a search page.
func (c *Client) candidates(doc *goquery.Document) []candidate {
	var out []candidate
	doc.Find("search-page-media-row").Each(func(_ int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find("[slot=title]").Text())
		if title == "" {
			return
		}
		href, _ := row.Find("a[slot=title]").Attr("href")
		if href == "" {
			href, _ = row.Find("a").Attr("href")
		}
		if href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = c.baseURL + href
		}

		year, _ := row.Attr("releaseyear")
		if year == "" {
			year = strings.TrimSpace(row.Find("[slot=year]").Text())
		}
		if year == "" {
			if m := yearInURL.FindStringSubmatch(href); len(m) > 1 {
				year = m[1]
			}
		}
		out = append(out, candidate{title: title, year: year, url: href})
	})
	return dedupe(out)
}

func dedupe(in []candidate) []candidate {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, c := range in {
		if seen[c.url] {
			continue
		}
		seen[c.url] = true
		out = append(out, c)
	}
	return out
}

// pick prefers an exact title and year match, then a year match, then the
// first row.
func pick(cands []candidate, title, year string) string {
	if len(cands) == 0 {
		return ""
	}
	year = firstYear(year)
	for _, c := range cands {
		if strings.EqualFold(c.title, title) && (year == "" || c.year == year) {
			return c.url
		}
	}
	if year != "" {
		for _, c := range cands {
			if c.year == year {
				return c.url
			}
		}
	}
	return cands[0].url
}

// firstYear trims ranges such as "2008–2013" to their first year.
func firstYear(y string) string {
	y = strings.TrimSpace(y)
	if len(y) > 4 {
		return y[:4]
	}
	return y
}

func extract(doc *goquery.Document) (string, error) {
	for _, sel := range selectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := clean(node.Text()); len(text) > 20 {
				return text, nil
			}
		}
	}

	html, err := doc.Html()
	if err != nil {
		return "", err
	}
	if m := reviewBody.FindStringSubmatch(html); len(m) > 1 {
		return clean(m[1]), nil
	}
	return "", ErrNoConsensus
}

func clean(s string) string {
	s = consensusPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	s = htmlTags.ReplaceAllString(s, " ")
	s = strings.NewReplacer("&nbsp;", " ", "&quot;", `"`, "&#39;", "'", "&amp;", "&").Replace(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
