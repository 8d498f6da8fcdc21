package analysis

import (
	"testing"

	"stocklens/models"

	"github.com/stretchr/testify/assert"
)

func TestChannelBreakdownEmpty(t *testing.T) {
	assert.Empty(t, ChannelBreakdown(nil))
	assert.Empty(t, ChannelBreakdown(&models.ChannelBatch{}))
}

func TestChannelBreakdownGroupsAndSorts(t *testing.T) {
	batch := &models.ChannelBatch{
		Current: []models.ChannelFact{
			{Channel: "Organic Search", Source: "google", Sessions: 100, Purchases: 4, Revenue: 400},
			{Channel: "Organic Search", Source: "yahoo", Sessions: 50, Purchases: 1, Revenue: 100},
			{Channel: "Paid Social", Source: "instagram", Sessions: 200, Purchases: 10, Revenue: 2000},
		},
	}

	channels := ChannelBreakdown(batch)
	if len(channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(channels))
	}

	// revenue descending
	assert.Equal(t, "Paid Social", channels[0].Channel)
	assert.Equal(t, "Organic Search", channels[1].Channel)

	organic := channels[1]
	assert.Equal(t, 150, organic.Sessions)
	assert.Equal(t, 5, organic.Purchases)
	assert.InDelta(t, 500.0, organic.Revenue, 1e-9)
	// CVR = purchases/sessions, rounded to 2 decimals
	assert.InDelta(t, 3.33, organic.CVR, 1e-9)
	assert.Equal(t, "自然検索", organic.ChannelJa)

	// sources ordered by revenue
	if len(organic.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(organic.Sources))
	}
	assert.Equal(t, "Google検索", organic.Sources[0].Name)
	assert.InDelta(t, 400.0, organic.Sources[0].Revenue, 1e-9)
}

func TestChannelBreakdownTopSourcesCapped(t *testing.T) {
	batch := &models.ChannelBatch{}
	for _, src := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		batch.Current = append(batch.Current, models.ChannelFact{
			Channel: "Referral", Source: src, Sessions: 1, Revenue: 10,
		})
	}
	channels := ChannelBreakdown(batch)
	if len(channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(channels))
	}
	assert.Len(t, channels[0].Sources, 5)
}

func TestChannelBreakdownPreviousComparison(t *testing.T) {
	batch := &models.ChannelBatch{
		Current: []models.ChannelFact{
			{Channel: "Direct", Source: "(direct)", Sessions: 120, Purchases: 6, Revenue: 600},
			{Channel: "Email", Source: "newsletter", Sessions: 30, Purchases: 3, Revenue: 300},
		},
		Previous: []models.ChannelFact{
			{Channel: "Direct", Source: "(direct)", Sessions: 100, Purchases: 4, Revenue: 400},
		},
	}

	channels := ChannelBreakdown(batch)
	if len(channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(channels))
	}

	direct := channels[0]
	assert.Equal(t, "Direct", direct.Channel)
	assert.Equal(t, 100, direct.PrevSessions)
	assert.Equal(t, 20, direct.DeltaSessions)
	assert.InDelta(t, 20.0, direct.DeltaSessionsPct, 1e-9)
	assert.InDelta(t, 50.0, direct.DeltaPurchasesPct, 1e-9)

	// channel with no previous row counts fully as new, without percents
	email := channels[1]
	assert.Equal(t, 30, email.DeltaSessions)
	assert.Equal(t, 0.0, email.DeltaSessionsPct)
	assert.InDelta(t, 300.0, email.DeltaRevenue, 1e-9)
}
