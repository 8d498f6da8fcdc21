package analysis

import (
	"math"
	"sort"

	"stocklens/ga4"
	"stocklens/models"
)

const topSourcesPerChannel = 5

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// ChannelBreakdown groups one brand's channel facts by channel with the
// top revenue sources nested, and joins the previous window by channel
// name when it was fetched. Channels come back sorted by revenue.
func ChannelBreakdown(batch *models.ChannelBatch) []models.ChannelSummary {
	if batch == nil || len(batch.Current) == 0 {
		return []models.ChannelSummary{}
	}

	type channelAgg struct {
		summary models.ChannelSummary
		sources map[string]*models.ChannelSource
	}
	order := make([]string, 0)
	channels := make(map[string]*channelAgg)

	for _, f := range batch.Current {
		agg, ok := channels[f.Channel]
		if !ok {
			agg = &channelAgg{
				summary: models.ChannelSummary{
					Channel:   f.Channel,
					ChannelJa: ga4.TranslateChannelName(f.Channel),
				},
				sources: make(map[string]*models.ChannelSource),
			}
			channels[f.Channel] = agg
			order = append(order, f.Channel)
		}
		agg.summary.Sessions += f.Sessions
		agg.summary.Users += f.Users
		agg.summary.Purchases += f.Purchases
		agg.summary.Revenue += f.Revenue

		src, ok := agg.sources[f.Source]
		if !ok {
			src = &models.ChannelSource{Name: ga4.TranslateSourceName(f.Source)}
			agg.sources[f.Source] = src
		}
		src.Sessions += f.Sessions
		src.Purchases += f.Purchases
		src.Revenue += f.Revenue
	}

	prev := make(map[string]*models.ChannelSummary)
	for _, f := range batch.Previous {
		p, ok := prev[f.Channel]
		if !ok {
			p = &models.ChannelSummary{Channel: f.Channel}
			prev[f.Channel] = p
		}
		p.Sessions += f.Sessions
		p.Users += f.Users
		p.Purchases += f.Purchases
		p.Revenue += f.Revenue
	}

	results := make([]models.ChannelSummary, 0, len(order))
	for _, name := range order {
		agg := channels[name]
		s := agg.summary
		s.CVR = round2(rate(float64(s.Purchases), float64(s.Sessions)))

		if p, ok := prev[name]; ok {
			s.PrevSessions = p.Sessions
			s.PrevPurchases = p.Purchases
			s.PrevRevenue = p.Revenue
			s.DeltaSessions = s.Sessions - p.Sessions
			s.DeltaPurchases = s.Purchases - p.Purchases
			s.DeltaRevenue = s.Revenue - p.Revenue
			s.DeltaSessionsPct = round1(pctChange(float64(s.Sessions), float64(p.Sessions)))
			s.DeltaPurchasesPct = round1(pctChange(float64(s.Purchases), float64(p.Purchases)))
			s.DeltaRevenuePct = round1(pctChange(s.Revenue, p.Revenue))
		} else {
			// A channel with no previous row counts fully as new traffic
			// but carries no percent change.
			s.DeltaSessions = s.Sessions
			s.DeltaPurchases = s.Purchases
			s.DeltaRevenue = s.Revenue
		}

		srcNames := make([]string, 0, len(agg.sources))
		for name := range agg.sources {
			srcNames = append(srcNames, name)
		}
		sort.Strings(srcNames)
		sources := make([]models.ChannelSource, 0, len(srcNames))
		for _, name := range srcNames {
			sources = append(sources, *agg.sources[name])
		}
		sort.SliceStable(sources, func(i, j int) bool {
			return sources[i].Revenue > sources[j].Revenue
		})
		if len(sources) > topSourcesPerChannel {
			sources = sources[:topSourcesPerChannel]
		}
		s.Sources = sources

		results = append(results, s)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Revenue > results[j].Revenue
	})
	return results
}
