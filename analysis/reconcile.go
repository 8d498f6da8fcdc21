package analysis

import (
	"fmt"
	"sort"

	"stocklens/config"
	"stocklens/models"
)

// Result is one period type's reconciled table plus the population
// thresholds that produced its classification flags.
type Result struct {
	Records   []models.MergedRecord
	HasDeltas bool

	StockThreshold   float64
	RevenueThreshold float64
	ViewsThreshold   float64
}

// aggFact is one SKU's facts summed across brands.
type aggFact struct {
	itemName  string
	views     int
	addToCart int
	purchases int
	revenue   float64
}

// combineFacts folds all brands' fact batches into one SKU-keyed table.
// Brands are walked in sorted order so "first non-empty item name" is
// deterministic; duplicate SKUs across brands are summed.
func combineFacts(batches map[string]*models.FactBatch) map[string]*aggFact {
	brands := make([]string, 0, len(batches))
	for b, batch := range batches {
		if batch == nil || len(batch.Records) == 0 {
			continue
		}
		brands = append(brands, b)
	}
	sort.Strings(brands)

	agg := make(map[string]*aggFact)
	for _, b := range brands {
		for _, rec := range batches[b].Records {
			f, ok := agg[rec.SkuID]
			if !ok {
				f = &aggFact{itemName: rec.ItemName}
				agg[rec.SkuID] = f
			} else if f.itemName == "" {
				f.itemName = rec.ItemName
			}
			f.views += rec.Views
			f.addToCart += rec.AddToCart
			f.purchases += rec.Purchases
			f.revenue += rec.Revenue
		}
	}
	return agg
}

// rate returns num/den*100 guarded against a non-positive denominator.
func rate(num, den float64) float64 {
	if den > 0 {
		return num / den * 100
	}
	return 0
}

// pctChange applies the period-over-period percent rule: a positive
// previous value gives a true percent change, a fresh appearance counts
// as +100, and zero-to-zero is flat.
func pctChange(cur, prev float64) float64 {
	if prev > 0 {
		return (cur - prev) / prev * 100
	}
	if cur > 0 {
		return 100
	}
	return 0
}

// reconcile runs the full merge/analyze pipeline for one period type:
// combine facts across brands, left-join onto the product master, derive
// metrics, flag against population percentiles, drop the excluded brand,
// and attach previous-period deltas when a previous slot exists.
//
// The percentile thresholds are computed before the excluded brand is
// removed, so its rows still skew the cutoffs for everyone else. That
// mirrors the long-standing pipeline behaviour and is pinned by a test;
// whether it is intended is a product question, not an implementation one.
func reconcile(master []models.ProductRecord, facts, prevFacts map[string]*models.FactBatch) *Result {
	if len(master) == 0 {
		return nil
	}
	agg := combineFacts(facts)
	if len(agg) == 0 {
		return nil
	}

	// Product-master-anchored left join: every master SKU appears exactly
	// once; fact-only SKUs are dropped.
	records := make([]models.MergedRecord, 0, len(master))
	for _, p := range master {
		m := models.MergedRecord{ProductRecord: p}
		if f, ok := agg[p.SkuID]; ok {
			m.ItemName = f.itemName
			m.Views = f.views
			m.AddToCart = f.addToCart
			m.Purchases = f.purchases
			m.Revenue = f.revenue
		}
		if m.ProductURL == "" {
			m.ProductURL = synthesizeProductURL(m.Brand, m.SkuID)
		}
		m.CVR = rate(float64(m.Purchases), float64(m.Views))
		m.CartRate = rate(float64(m.AddToCart), float64(m.Views))
		if m.TotalStock > 0 {
			m.StockEfficiency = m.Revenue / float64(m.TotalStock)
		}
		records = append(records, m)
	}

	// Thresholds over the full joined table, excluded brand included.
	stocks := make([]float64, len(records))
	revenues := make([]float64, len(records))
	views := make([]float64, len(records))
	for i, m := range records {
		stocks[i] = float64(m.TotalStock)
		revenues[i] = m.Revenue
		views[i] = float64(m.Views)
	}
	res := &Result{
		StockThreshold:   percentile(stocks, 0.7),
		RevenueThreshold: percentile(revenues, 0.3),
		ViewsThreshold:   percentile(views, 0.7),
	}

	for i := range records {
		m := &records[i]
		m.IsProblem = float64(m.TotalStock) >= res.StockThreshold && m.Revenue <= res.RevenueThreshold
		m.IsOpportunity = float64(m.Views) >= res.ViewsThreshold &&
			m.TotalStock <= 5 &&
			float64(m.Purchases) < float64(m.Views)*0.05
	}

	// Excluded brand removed after flagging.
	kept := records[:0]
	for _, m := range records {
		if m.Brand == config.ExcludedBrand {
			continue
		}
		kept = append(kept, m)
	}
	res.Records = kept

	if prevAgg := combineFacts(prevFacts); len(prevAgg) > 0 {
		attachDeltas(res, prevAgg)
	}
	return res
}

func attachDeltas(res *Result, prevAgg map[string]*aggFact) {
	for i := range res.Records {
		m := &res.Records[i]
		if p, ok := prevAgg[m.SkuID]; ok {
			m.PrevViews = p.views
			m.PrevAddToCart = p.addToCart
			m.PrevPurchases = p.purchases
			m.PrevRevenue = p.revenue
		}

		m.DeltaViews = m.Views - m.PrevViews
		m.DeltaViewsPct = pctChange(float64(m.Views), float64(m.PrevViews))
		m.DeltaAddToCart = m.AddToCart - m.PrevAddToCart
		m.DeltaAddToCartPct = pctChange(float64(m.AddToCart), float64(m.PrevAddToCart))
		m.DeltaPurchases = m.Purchases - m.PrevPurchases
		m.DeltaPurchasesPct = pctChange(float64(m.Purchases), float64(m.PrevPurchases))
		m.DeltaRevenue = m.Revenue - m.PrevRevenue
		m.DeltaRevenuePct = pctChange(m.Revenue, m.PrevRevenue)

		m.PrevCVR = rate(float64(m.PrevPurchases), float64(m.PrevViews))
		m.DeltaCVR = m.CVR - m.PrevCVR
	}
	res.HasDeltas = true
}

// synthesizeProductURL builds a storefront URL from the brand slug and
// SKU. Unmappable brands and blank SKUs keep an empty URL.
func synthesizeProductURL(brand, skuID string) string {
	slug := config.BrandSlug(brand)
	if slug == "" || skuID == "" {
		return ""
	}
	return fmt.Sprintf(config.ProductURLTemplate, slug, skuID)
}
