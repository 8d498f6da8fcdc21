package ga4

import (
	"context"
	"fmt"
	"time"

	"stocklens/models"
)

// now is swapped out in tests.
var now = time.Now

// Window is an inclusive date range in GA4 request format.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) StartDate() string { return w.Start.Format("2006-01-02") }
func (w Window) EndDate() string   { return w.End.Format("2006-01-02") }

// Days counts both endpoints.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

func day(offset int) time.Time {
	t := now().AddDate(0, 0, offset)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PeriodWindow returns the date window for one period type. The current
// slot always ends yesterday; the previous slot is the window of the
// same length immediately before it.
func PeriodWindow(periodType string, previous bool) (Window, error) {
	switch periodType {
	case "yesterday":
		if previous {
			return Window{Start: day(-2), End: day(-2)}, nil
		}
		return Window{Start: day(-1), End: day(-1)}, nil
	case "3days":
		if previous {
			return Window{Start: day(-6), End: day(-4)}, nil
		}
		return Window{Start: day(-3), End: day(-1)}, nil
	case "weekly":
		if previous {
			return Window{Start: day(-14), End: day(-8)}, nil
		}
		return Window{Start: day(-7), End: day(-1)}, nil
	}
	return Window{}, fmt.Errorf("unknown period type %q", periodType)
}

// FetchPeriod pulls one brand's item facts for a period type and wraps
// them with the period metadata the rest of the pipeline expects.
func (c *Client) FetchPeriod(ctx context.Context, brand, periodType string, previous bool) (*models.FactBatch, error) {
	window, err := PeriodWindow(periodType, previous)
	if err != nil {
		return nil, err
	}
	records, err := c.FetchItemReport(ctx, brand, window.StartDate(), window.EndDate())
	if err != nil {
		return nil, err
	}

	start, end := window.Start, window.End
	period := models.PeriodDescriptor{StartDate: &start, EndDate: &end}
	period.DeriveGranularity()

	return &models.FactBatch{Records: records, Period: period}, nil
}

// FetchChannelPeriod pulls one brand's channel facts for a period type,
// current and previous windows together.
func (c *Client) FetchChannelPeriod(ctx context.Context, brand, periodType string) (*models.ChannelBatch, error) {
	window, err := PeriodWindow(periodType, false)
	if err != nil {
		return nil, err
	}
	current, err := c.FetchChannelReport(ctx, brand, window.StartDate(), window.EndDate())
	if err != nil {
		return nil, err
	}

	batch := &models.ChannelBatch{Current: current}

	prevWindow, err := PeriodWindow(periodType, true)
	if err == nil {
		if prev, err := c.FetchChannelReport(ctx, brand, prevWindow.StartDate(), prevWindow.EndDate()); err == nil {
			batch.Previous = prev
		}
	}
	return batch, nil
}
