package session

import (
	"fmt"
	"time"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

// Default trading session table in UTC hours.
var DefaultWindows = []models.SessionWindow{
	{Name: "Sydney", StartHourUTC: 22, EndHourUTC: 7},
	{Name: "Tokyo", StartHourUTC: 0, EndHourUTC: 9},
	{Name: "London", StartHourUTC: 8, EndHourUTC: 17},
	{Name: "New York", StartHourUTC: 13, EndHourUTC: 22},
}

// Band is a [Start, End) hour range in local display time. Start > End wraps midnight.
type Band struct {
	Start int
	End   int
}

var DefaultOverlap = Band{Start: 14, End: 17}

type Classifier struct {
	windows  []models.SessionWindow
	overlap  Band
	location *time.Location
}

func NewClassifier(windows []models.SessionWindow, overlap Band, location *time.Location) (*Classifier, error) {
	for _, w := range windows {
		if !validHour(w.StartHourUTC) || !validHour(w.EndHourUTC) {
			return nil, fmt.Errorf("session %q: hours must be in [0,24), got %d-%d", w.Name, w.StartHourUTC, w.EndHourUTC)
		}
	}
	if !validHour(overlap.Start) || !validHour(overlap.End) {
		return nil, fmt.Errorf("overlap band: hours must be in [0,24), got %d-%d", overlap.Start, overlap.End)
	}
	if location == nil {
		location = time.UTC
	}

	return &Classifier{windows: windows, overlap: overlap, location: location}, nil
}

// Reports active sessions (table order) and whether t falls in the local overlap band.
func (c *Classifier) Classify(t time.Time) models.SessionStatus {
	utc := t.UTC()
	local := t.In(c.location)

	return models.SessionStatus{
		Active:    c.ActiveAt(utc.Hour()),
		Overlap:   inRange(local.Hour(), c.overlap.Start, c.overlap.End),
		HourUTC:   utc.Hour(),
		LocalHour: local.Hour(),
		LocalTime: local,
		Timezone:  c.location.String(),
	}
}

// Names of the sessions open at a UTC hour.
func (c *Classifier) ActiveAt(hour int) []string {
	active := make([]string, 0, len(c.windows))
	for _, w := range c.windows {
		if inRange(hour, w.StartHourUTC, w.EndHourUTC) {
			active = append(active, w.Name)
		}
	}
	return active
}

func (c *Classifier) Windows() []models.SessionWindow {
	out := make([]models.SessionWindow, len(c.windows))
	copy(out, c.windows)
	return out
}

func inRange(hour, start, end int) bool {
	if start > end {
		return hour >= start || hour < end
	}
	return hour >= start && hour < end
}

func validHour(h int) bool {
	return h >= 0 && h < 24
}
