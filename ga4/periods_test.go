package ga4

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixNow(t *testing.T, fixed time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })
}

func TestPeriodWindowYesterday(t *testing.T) {
	fixNow(t, time.Date(2026, 8, 30, 11, 30, 0, 0, time.UTC))

	w, err := PeriodWindow("yesterday", false)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	assert.Equal(t, "2026-08-29", w.StartDate())
	assert.Equal(t, "2026-08-29", w.EndDate())
	assert.Equal(t, 1, w.Days())

	prev, _ := PeriodWindow("yesterday", true)
	assert.Equal(t, "2026-08-28", prev.StartDate())
	assert.Equal(t, "2026-08-28", prev.EndDate())
}

func TestPeriodWindow3Days(t *testing.T) {
	fixNow(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))

	w, _ := PeriodWindow("3days", false)
	assert.Equal(t, "2026-08-27", w.StartDate())
	assert.Equal(t, "2026-08-29", w.EndDate())
	assert.Equal(t, 3, w.Days())

	prev, _ := PeriodWindow("3days", true)
	assert.Equal(t, "2026-08-24", prev.StartDate())
	assert.Equal(t, "2026-08-26", prev.EndDate())
}

func TestPeriodWindowWeekly(t *testing.T) {
	fixNow(t, time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC))

	w, _ := PeriodWindow("weekly", false)
	assert.Equal(t, "2026-08-23", w.StartDate())
	assert.Equal(t, "2026-08-29", w.EndDate())
	assert.Equal(t, 7, w.Days())

	prev, _ := PeriodWindow("weekly", true)
	assert.Equal(t, "2026-08-16", prev.StartDate())
	assert.Equal(t, "2026-08-22", prev.EndDate())
}

func TestPeriodWindowsAreAdjacent(t *testing.T) {
	fixNow(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	for _, pt := range []string{"yesterday", "3days", "weekly"} {
		cur, err := PeriodWindow(pt, false)
		if err != nil {
			t.Fatalf("%s: %v", pt, err)
		}
		prev, err := PeriodWindow(pt, true)
		if err != nil {
			t.Fatalf("%s previous: %v", pt, err)
		}
		assert.Equal(t, cur.Days(), prev.Days(), pt)
		assert.Equal(t, cur.Start.AddDate(0, 0, -1), prev.End, pt)
	}
}

func TestPeriodWindowUnknownType(t *testing.T) {
	_, err := PeriodWindow("monthly", false)
	if err == nil {
		t.Fatal("expected error for unknown period type")
	}
}

func TestTranslateChannelName(t *testing.T) {
	assert.Equal(t, "自然検索", TranslateChannelName("Organic Search"))
	assert.Equal(t, "Weird Channel", TranslateChannelName("Weird Channel"))
}

func TestTranslateSourceName(t *testing.T) {
	assert.Equal(t, "Instagram", TranslateSourceName("l.instagram.com"))
	assert.Equal(t, "Google検索", TranslateSourceName("Google"))
	assert.Equal(t, "shop.example.com", TranslateSourceName("shop.example.com"))
}
