package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

func newTestClassifier(t *testing.T, windows []models.SessionWindow, overlap Band, loc *time.Location) *Classifier {
	t.Helper()
	c, err := NewClassifier(windows, overlap, loc)
	require.NoError(t, err)
	return c
}

func TestWraparoundWindow(t *testing.T) {
	c := newTestClassifier(t, []models.SessionWindow{{Name: "Sydney", StartHourUTC: 22, EndHourUTC: 7}}, DefaultOverlap, time.UTC)

	for _, h := range []int{22, 23, 0, 6} {
		assert.Equal(t, []string{"Sydney"}, c.ActiveAt(h), "hour %d", h)
	}
	for _, h := range []int{7, 8, 21} {
		assert.Empty(t, c.ActiveAt(h), "hour %d", h)
	}
}

func TestActiveKeepsTableOrder(t *testing.T) {
	c := newTestClassifier(t, DefaultWindows, DefaultOverlap, time.UTC)

	assert.Equal(t, []string{"Sydney", "Tokyo"}, c.ActiveAt(3))
	assert.Equal(t, []string{"Tokyo", "London"}, c.ActiveAt(8))
	assert.Equal(t, []string{"London", "New York"}, c.ActiveAt(15))
	assert.Equal(t, []string{"Sydney"}, c.ActiveAt(22))
	assert.Equal(t, []string{"New York"}, c.ActiveAt(21))
}

func TestOverlapUsesLocalTime(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	c := newTestClassifier(t, DefaultWindows, Band{Start: 14, End: 17}, lagos)

	// 13:30 UTC is 14:30 in UTC+1.
	st := c.Classify(time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC))
	assert.True(t, st.Overlap)
	assert.Equal(t, 13, st.HourUTC)
	assert.Equal(t, 14, st.LocalHour)
	assert.Equal(t, []string{"London", "New York"}, st.Active)

	st = c.Classify(time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC))
	assert.False(t, st.Overlap)
	assert.Equal(t, "WAT", st.Timezone)
}

func TestOverlapBandCanWrap(t *testing.T) {
	c := newTestClassifier(t, DefaultWindows, Band{Start: 23, End: 2}, time.UTC)

	assert.True(t, c.Classify(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)).Overlap)
	assert.True(t, c.Classify(time.Date(2024, 1, 1, 1, 59, 0, 0, time.UTC)).Overlap)
	assert.False(t, c.Classify(time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)).Overlap)
}

func TestNewClassifierRejectsBadHours(t *testing.T) {
	_, err := NewClassifier([]models.SessionWindow{{Name: "Broken", StartHourUTC: 24, EndHourUTC: 3}}, DefaultOverlap, nil)
	assert.Error(t, err)

	_, err = NewClassifier(DefaultWindows, Band{Start: -1, End: 3}, nil)
	assert.Error(t, err)
}

func TestNilLocationDefaultsToUTC(t *testing.T) {
	c := newTestClassifier(t, DefaultWindows, DefaultOverlap, nil)
	st := c.Classify(time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "UTC", st.Timezone)
	assert.True(t, st.Overlap)
}
