package analysis

import (
	"sort"

	"stocklens/models"
)

// brandMatches implements the query-level brand filter: a case-sensitive
// exact match, with "" and "all" meaning no filter.
func brandMatches(record *models.MergedRecord, brand string) bool {
	if brand == "" || brand == "all" {
		return true
	}
	return record.Brand == brand
}

func truncate(records []models.MergedRecord, limit int) []models.MergedRecord {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

// BrandSummary aggregates the merged set per brand, with the totals
// recomputed from sums rather than averaged per-record rates.
func (r *Result) BrandSummary() []models.BrandSummary {
	if r == nil {
		return nil
	}

	byBrand := make(map[string]*models.BrandSummary)
	for i := range r.Records {
		m := &r.Records[i]
		s, ok := byBrand[m.Brand]
		if !ok {
			s = &models.BrandSummary{Brand: m.Brand}
			byBrand[m.Brand] = s
		}
		s.SkuCount++
		s.TotalStock += m.TotalStock
		s.TotalViews += m.Views
		s.TotalAddToCart += m.AddToCart
		s.TotalPurchases += m.Purchases
		s.TotalRevenue += m.Revenue
		if m.IsProblem {
			s.ProblemCount++
		}
		if m.IsOpportunity {
			s.OpportunityCount++
		}
		if r.HasDeltas {
			s.PrevTotalRevenue += m.PrevRevenue
			s.PrevTotalViews += m.PrevViews
			s.PrevTotalAddToCart += m.PrevAddToCart
			s.PrevTotalPurchases += m.PrevPurchases
		}
	}

	brands := make([]string, 0, len(byBrand))
	for b := range byBrand {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	summaries := make([]models.BrandSummary, 0, len(brands))
	for _, b := range brands {
		s := byBrand[b]
		s.OverallCVR = rate(float64(s.TotalPurchases), float64(s.TotalViews))
		if r.HasDeltas {
			s.DeltaRevenue = s.TotalRevenue - s.PrevTotalRevenue
			s.DeltaRevenuePct = pctChange(s.TotalRevenue, s.PrevTotalRevenue)
			s.DeltaViews = s.TotalViews - s.PrevTotalViews
			s.DeltaViewsPct = pctChange(float64(s.TotalViews), float64(s.PrevTotalViews))
			s.DeltaPurchases = s.TotalPurchases - s.PrevTotalPurchases
			s.DeltaPurchasesPct = pctChange(float64(s.TotalPurchases), float64(s.PrevTotalPurchases))
			s.DeltaAddToCart = s.TotalAddToCart - s.PrevTotalAddToCart
			s.DeltaAddToCartPct = pctChange(float64(s.TotalAddToCart), float64(s.PrevTotalAddToCart))
		}
		summaries = append(summaries, *s)
	}
	return summaries
}

// ProblemProducts lists overstocked low sellers, largest stock first.
func (r *Result) ProblemProducts(brand string, limit int) []models.MergedRecord {
	if r == nil {
		return []models.MergedRecord{}
	}
	filtered := make([]models.MergedRecord, 0)
	for i := range r.Records {
		if r.Records[i].IsProblem && brandMatches(&r.Records[i], brand) {
			filtered = append(filtered, r.Records[i])
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].TotalStock > filtered[j].TotalStock
	})
	return truncate(filtered, limit)
}

// OpportunityProducts lists high-demand near-stockout items, most viewed first.
func (r *Result) OpportunityProducts(brand string, limit int) []models.MergedRecord {
	if r == nil {
		return []models.MergedRecord{}
	}
	filtered := make([]models.MergedRecord, 0)
	for i := range r.Records {
		if r.Records[i].IsOpportunity && brandMatches(&r.Records[i], brand) {
			filtered = append(filtered, r.Records[i])
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Views > filtered[j].Views
	})
	return truncate(filtered, limit)
}

// TopPerformers lists SKUs by revenue descending.
func (r *Result) TopPerformers(brand string, limit int) []models.MergedRecord {
	if r == nil {
		return []models.MergedRecord{}
	}
	filtered := make([]models.MergedRecord, 0, len(r.Records))
	for i := range r.Records {
		if brandMatches(&r.Records[i], brand) {
			filtered = append(filtered, r.Records[i])
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Revenue > filtered[j].Revenue
	})
	return truncate(filtered, limit)
}

// BrandStats is the headline stat block for one brand's detail view.
func (r *Result) BrandStats(brand string) models.BrandStats {
	var stats models.BrandStats
	if r == nil {
		return stats
	}
	var cvrSum float64
	for i := range r.Records {
		m := &r.Records[i]
		if !brandMatches(m, brand) {
			continue
		}
		stats.TotalSku++
		stats.TotalStock += m.TotalStock
		stats.TotalRevenue += m.Revenue
		stats.TotalViews += m.Views
		cvrSum += m.CVR
		if m.IsProblem {
			stats.ProblemCount++
		}
		if m.IsOpportunity {
			stats.OpportunityCount++
		}
	}
	if stats.TotalSku > 0 {
		stats.AvgCVR = cvrSum / float64(stats.TotalSku)
	}
	return stats
}

// Brands lists the distinct brands present in the merged set, in first
// appearance order.
func (r *Result) Brands() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool)
	brands := make([]string, 0)
	for i := range r.Records {
		b := r.Records[i].Brand
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		brands = append(brands, b)
	}
	return brands
}

// PVRanking collapses SKUs onto their product class and ranks by views.
// Views are taken from the first SKU in a class (GA4 reports them at
// product level, duplicated across variants) while the other metrics
// are summed. Only classes with any viewed SKU are kept; the nested SKU
// rows are ordered by purchases and carry their delta fields.
func (r *Result) PVRanking(brand string, limit int) []models.RankedProduct {
	if r == nil {
		return []models.RankedProduct{}
	}

	type group struct {
		ranked  models.RankedProduct
		members []*models.MergedRecord
		viewed  bool
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	for i := range r.Records {
		m := &r.Records[i]
		if !brandMatches(m, brand) || m.ProductClassID == "" {
			continue
		}
		g, ok := groups[m.ProductClassID]
		if !ok {
			g = &group{ranked: models.RankedProduct{
				ProductClassID: m.ProductClassID,
				Brand:          m.Brand,
				ProductName:    m.ProductName,
				ImageURL:       m.ImageURL,
				ProductURL:     m.ProductURL,
				Views:          m.Views,
			}}
			groups[m.ProductClassID] = g
			order = append(order, m.ProductClassID)
		}
		g.ranked.AddToCart += m.AddToCart
		g.ranked.Purchases += m.Purchases
		g.ranked.Revenue += m.Revenue
		g.ranked.TotalStock += m.TotalStock
		if m.Views > 0 {
			g.viewed = true
		}
		g.members = append(g.members, m)
	}

	ranking := make([]models.RankedProduct, 0, len(order))
	for _, id := range order {
		g := groups[id]
		if !g.viewed {
			continue
		}
		g.ranked.CVR = rate(float64(g.ranked.Purchases), float64(g.ranked.Views))
		g.ranked.PurchaseRate = g.ranked.CVR
		g.ranked.Skus = skuDetails(g.members)
		ranking = append(ranking, g.ranked)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Views > ranking[j].Views
	})
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

func skuDetails(members []*models.MergedRecord) []models.SkuDetail {
	details := make([]models.SkuDetail, 0, len(members))
	for _, m := range members {
		colorTag := m.ColorTag
		if colorTag == "" {
			colorTag = "#888"
		}
		details = append(details, models.SkuDetail{
			ColorName:         m.ColorName,
			ColorTag:          colorTag,
			Size:              m.Size,
			Views:             m.Views,
			AddToCart:         m.AddToCart,
			Purchases:         m.Purchases,
			CVR:               m.CVR,
			TotalStock:        m.TotalStock,
			DeltaPurchases:    m.DeltaPurchases,
			DeltaPurchasesPct: m.DeltaPurchasesPct,
			DeltaAddToCart:    m.DeltaAddToCart,
			DeltaCVR:          m.DeltaCVR,
			PrevPurchases:     m.PrevPurchases,
		})
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Purchases > details[j].Purchases
	})
	return details
}

// PVRankingByBrand runs the PV ranking once per brand in the set.
func (r *Result) PVRankingByBrand(limitPerBrand int) map[string][]models.RankedProduct {
	result := make(map[string][]models.RankedProduct)
	for _, brand := range r.Brands() {
		result[brand] = r.PVRanking(brand, limitPerBrand)
	}
	return result
}

// TopPerformersGrouped ranks product classes by summed revenue with the
// member SKUs nested, likewise revenue-ordered.
func (r *Result) TopPerformersGrouped(brand string, limit int) []models.RankedProduct {
	if r == nil {
		return []models.RankedProduct{}
	}

	type group struct {
		ranked  models.RankedProduct
		members []*models.MergedRecord
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	for i := range r.Records {
		m := &r.Records[i]
		if !brandMatches(m, brand) || m.ProductClassID == "" {
			continue
		}
		g, ok := groups[m.ProductClassID]
		if !ok {
			g = &group{ranked: models.RankedProduct{
				ProductClassID: m.ProductClassID,
				Brand:          m.Brand,
				ProductName:    m.ProductName,
				ImageURL:       m.ImageURL,
				ProductURL:     m.ProductURL,
			}}
			groups[m.ProductClassID] = g
			order = append(order, m.ProductClassID)
		}
		g.ranked.SkuCount++
		g.ranked.Views += m.Views
		g.ranked.AddToCart += m.AddToCart
		g.ranked.Purchases += m.Purchases
		g.ranked.Revenue += m.Revenue
		g.ranked.TotalStock += m.TotalStock
		g.members = append(g.members, m)
	}

	ranking := make([]models.RankedProduct, 0, len(order))
	for _, id := range order {
		g := groups[id]
		g.ranked.CVR = rate(float64(g.ranked.Purchases), float64(g.ranked.Views))
		g.ranked.PurchaseRate = g.ranked.CVR
		sort.SliceStable(g.members, func(i, j int) bool {
			return g.members[i].Revenue > g.members[j].Revenue
		})
		g.ranked.Skus = skuDetails(g.members)
		ranking = append(ranking, g.ranked)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Revenue > ranking[j].Revenue
	})
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

// Anomalies surfaces rising and warning products from the delta fields.
// Without previous-period facts both lists are empty.
func (r *Result) Anomalies(brand string, limit int) models.AnomalyReport {
	report := models.AnomalyReport{
		Rising:  []models.AnomalyItem{},
		Warning: []models.AnomalyItem{},
	}
	if r == nil || !r.HasDeltas {
		return report
	}

	for i := range r.Records {
		m := &r.Records[i]
		if !brandMatches(m, brand) {
			continue
		}

		rising := (m.DeltaViewsPct >= 50 && m.Views >= 50) ||
			(m.DeltaPurchasesPct >= 50 && m.Purchases >= 3)
		warning := m.TotalStock > 0 &&
			((m.DeltaViewsPct <= -30 && m.PrevViews >= 30) ||
				(m.DeltaPurchasesPct <= -30 && m.PrevPurchases >= 2))

		if !rising && !warning {
			continue
		}
		item := anomalyItem(m)
		if rising {
			report.Rising = append(report.Rising, item)
		}
		if warning {
			report.Warning = append(report.Warning, item)
		}
	}

	// Rising ranks by biggest gains, warning by steepest drops.
	sort.SliceStable(report.Rising, func(i, j int) bool {
		return report.Rising[i].Score > report.Rising[j].Score
	})
	sort.SliceStable(report.Warning, func(i, j int) bool {
		return report.Warning[i].Score < report.Warning[j].Score
	})
	if limit > 0 && len(report.Rising) > limit {
		report.Rising = report.Rising[:limit]
	}
	if limit > 0 && len(report.Warning) > limit {
		report.Warning = report.Warning[:limit]
	}
	return report
}

// anomalyScore weights the period-over-period changes: purchases matter
// most, then views, then revenue.
func anomalyScore(m *models.MergedRecord) float64 {
	return m.DeltaViewsPct*0.3 + m.DeltaPurchasesPct*0.5 + m.DeltaRevenuePct*0.2
}

func anomalyItem(m *models.MergedRecord) models.AnomalyItem {
	return models.AnomalyItem{
		SkuID:             m.SkuID,
		Brand:             m.Brand,
		ProductName:       m.ProductName,
		ColorName:         m.ColorName,
		Size:              m.Size,
		ImageURL:          m.ImageURL,
		ProductURL:        m.ProductURL,
		TotalStock:        m.TotalStock,
		Views:             m.Views,
		PrevViews:         m.PrevViews,
		DeltaViews:        m.DeltaViews,
		DeltaViewsPct:     m.DeltaViewsPct,
		Purchases:         m.Purchases,
		PrevPurchases:     m.PrevPurchases,
		DeltaPurchases:    m.DeltaPurchases,
		DeltaPurchasesPct: m.DeltaPurchasesPct,
		Revenue:           m.Revenue,
		PrevRevenue:       m.PrevRevenue,
		DeltaRevenue:      m.DeltaRevenue,
		DeltaRevenuePct:   m.DeltaRevenuePct,
		CVR:               m.CVR,
		Score:             anomalyScore(m),
	}
}
