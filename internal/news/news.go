package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

const DefaultCalendarURL = "https://www.forexfactory.com/calendar?day=today"

const (
	NoHighImpactPlaceholder = "No High Impact News Today"
	UnavailablePlaceholder  = "News Feed Unavailable (Connection Timeout)"
)

// Source returns today's high-impact calendar entries.
type Source interface {
	Today(ctx context.Context) ([]models.NewsEvent, error)
}

// CalendarScraper reads the ForexFactory calendar page.
type CalendarScraper struct {
	url        string
	httpClient *http.Client
}

func NewCalendarScraper(url string, timeout time.Duration) *CalendarScraper {
	if url == "" {
		url = DefaultCalendarURL
	}
	return &CalendarScraper{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *CalendarScraper) Today(ctx context.Context) ([]models.NewsEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("news: failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news: unexpected status %d", resp.StatusCode)
	}

	events, err := ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	return events, nil
}

// Extracts high-impact rows from a calendar page. Rows with a blank time cell
// belong to the time of the row above them.
func ParseCalendar(r io.Reader) ([]models.NewsEvent, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar html: %w", err)
	}

	var (
		events   []models.NewsEvent
		lastTime string
	)

	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "tr" || !hasClass(n, "calendar__row") {
			return true
		}

		t := cellText(n, "calendar__time")
		if t != "" {
			lastTime = t
		}

		impact := impactOf(n)
		if impact != "high" {
			return false
		}

		events = append(events, models.NewsEvent{
			Time:     lastTime,
			Currency: cellText(n, "calendar__currency"),
			Event:    cellText(n, "calendar__event"),
			Impact:   impact,
		})
		return false
	})

	return events, nil
}

// Placeholder list shown when the calendar is empty or unreachable.
func Placeholder(text string) []models.NewsEvent {
	return []models.NewsEvent{{Event: text}}
}

func impactOf(row *html.Node) string {
	impact := ""
	walk(row, func(n *html.Node) bool {
		if impact != "" {
			return false
		}
		if n.Type != html.ElementNode || n.Data != "span" {
			return true
		}
		switch {
		case hasClass(n, "high") || hasClass(n, "icon--ff-impact-red"):
			impact = "high"
		case hasClass(n, "medium") || hasClass(n, "icon--ff-impact-ora"):
			impact = "medium"
		case hasClass(n, "low") || hasClass(n, "icon--ff-impact-yel"):
			impact = "low"
		}
		return true
	})
	return impact
}

func cellText(row *html.Node, class string) string {
	var text string
	found := false
	walk(row, func(n *html.Node) bool {
		if found {
			return false
		}
		if n.Type == html.ElementNode && n.Data == "td" && hasClass(n, class) {
			text = textOf(n)
			found = true
			return false
		}
		return true
	})
	return text
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// Depth-first walk. fn returns false to skip a node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
