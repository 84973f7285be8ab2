package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

const calendarPage = `<html><body><table class="calendar__table">
<tr class="calendar__row calendar_row">
  <td class="calendar__cell calendar__time">8:30am</td>
  <td class="calendar__cell calendar__currency"> USD </td>
  <td class="calendar__cell calendar__impact"><span class="icon icon--ff-impact-red high" title="High Impact Expected"></span></td>
  <td class="calendar__cell calendar__event"><span class="calendar__event-title">Non-Farm  Employment Change</span></td>
</tr>
<tr class="calendar__row">
  <td class="calendar__cell calendar__time"></td>
  <td class="calendar__cell calendar__currency">USD</td>
  <td class="calendar__cell calendar__impact"><span class="icon icon--ff-impact-red"></span></td>
  <td class="calendar__cell calendar__event">Unemployment Rate</td>
</tr>
<tr class="calendar__row">
  <td class="calendar__cell calendar__time">10:00am</td>
  <td class="calendar__cell calendar__currency">CAD</td>
  <td class="calendar__cell calendar__impact"><span class="icon icon--ff-impact-yel"></span></td>
  <td class="calendar__cell calendar__event">Ivey PMI</td>
</tr>
<tr class="calendar__row">
  <td class="calendar__cell calendar__time">All Day</td>
  <td class="calendar__cell calendar__currency">EUR</td>
  <td class="calendar__cell calendar__impact"><span class="icon icon--ff-impact-ora medium"></span></td>
  <td class="calendar__cell calendar__event">ECOFIN Meetings</td>
</tr>
</table></body></html>`

func TestParseCalendarKeepsHighImpactOnly(t *testing.T) {
	events, err := ParseCalendar(strings.NewReader(calendarPage))
	require.NoError(t, err)

	assert.Equal(t, []models.NewsEvent{
		{Time: "8:30am", Currency: "USD", Event: "Non-Farm Employment Change", Impact: "high"},
		{Time: "8:30am", Currency: "USD", Event: "Unemployment Rate", Impact: "high"},
	}, events)
}

func TestParseCalendarEmpty(t *testing.T) {
	events, err := ParseCalendar(strings.NewReader(`<html><body><p>maintenance</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCalendarScraperToday(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		fmt.Fprint(w, calendarPage)
	}))
	defer srv.Close()

	events, err := NewCalendarScraper(srv.URL, time.Second).Today(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "Mozilla/5.0", ua)
}

func TestCalendarScraperErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewCalendarScraper(srv.URL, time.Second).Today(context.Background())
	assert.ErrorContains(t, err, "403")

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, calendarPage)
	}))
	defer slow.Close()

	_, err = NewCalendarScraper(slow.URL, 20*time.Millisecond).Today(context.Background())
	assert.Error(t, err)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, []models.NewsEvent{{Event: NoHighImpactPlaceholder}}, Placeholder(NoHighImpactPlaceholder))
}
