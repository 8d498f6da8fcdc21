package analysis

import (
	"testing"

	"stocklens/models"

	"github.com/stretchr/testify/assert"
)

func merged(sku, classID, brand string, views, purchases int, revenue float64) models.MergedRecord {
	return models.MergedRecord{
		ProductRecord: models.ProductRecord{
			SkuID:          sku,
			ProductClassID: classID,
			Brand:          brand,
			ProductName:    "Product " + classID,
		},
		Views:     views,
		Purchases: purchases,
		Revenue:   revenue,
		CVR:       rate(float64(purchases), float64(views)),
	}
}

func TestBrandSummaryAggregates(t *testing.T) {
	r := &Result{Records: []models.MergedRecord{
		merged("A1", "C1", "rady", 100, 10, 1000),
		merged("A2", "C1", "rady", 50, 5, 500),
		merged("B1", "C2", "cherimi", 200, 2, 300),
	}}

	summaries := r.BrandSummary()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	// sorted by brand name
	assert.Equal(t, "cherimi", summaries[0].Brand)
	assert.Equal(t, "rady", summaries[1].Brand)

	rady := summaries[1]
	assert.Equal(t, 2, rady.SkuCount)
	assert.Equal(t, 150, rady.TotalViews)
	assert.Equal(t, 15, rady.TotalPurchases)
	assert.InDelta(t, 1500.0, rady.TotalRevenue, 1e-9)
	// overall CVR recomputed from totals, not averaged per record
	assert.InDelta(t, 10.0, rady.OverallCVR, 1e-9)
	// no previous facts means no delta fields
	assert.Equal(t, 0.0, rady.DeltaRevenuePct)
}

func TestBrandSummaryDeltas(t *testing.T) {
	rec := merged("A1", "C1", "rady", 100, 10, 300)
	rec.PrevRevenue = 200
	rec.PrevViews = 50
	r := &Result{Records: []models.MergedRecord{rec}, HasDeltas: true}

	summaries := r.BrandSummary()
	assert.InDelta(t, 100.0, summaries[0].DeltaRevenue, 1e-9)
	assert.InDelta(t, 50.0, summaries[0].DeltaRevenuePct, 1e-9)
	assert.Equal(t, 50, summaries[0].DeltaViews)
}

func TestProblemProductsSortedByStock(t *testing.T) {
	a := merged("A1", "C1", "rady", 10, 0, 0)
	a.TotalStock = 5
	a.IsProblem = true
	b := merged("A2", "C2", "rady", 10, 0, 0)
	b.TotalStock = 50
	b.IsProblem = true
	c := merged("A3", "C3", "rady", 10, 9, 900)

	r := &Result{Records: []models.MergedRecord{a, b, c}}
	problems := r.ProblemProducts("all", 0)
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(problems))
	}
	assert.Equal(t, "A2", problems[0].SkuID)
	assert.Equal(t, "A1", problems[1].SkuID)
}

func TestBrandFilterIsExact(t *testing.T) {
	r := &Result{Records: []models.MergedRecord{
		merged("A1", "C1", "rady", 10, 1, 100),
		merged("B1", "C2", "Rady", 10, 1, 100),
	}}
	top := r.TopPerformers("rady", 0)
	if len(top) != 1 {
		t.Fatalf("expected 1 record, got %d", len(top))
	}
	assert.Equal(t, "A1", top[0].SkuID)

	assert.Len(t, r.TopPerformers("all", 0), 2)
	assert.Len(t, r.TopPerformers("", 0), 2)
}

func TestTopPerformersLimit(t *testing.T) {
	r := &Result{Records: []models.MergedRecord{
		merged("A1", "C1", "rady", 10, 1, 100),
		merged("A2", "C2", "rady", 10, 1, 300),
		merged("A3", "C3", "rady", 10, 1, 200),
	}}
	top := r.TopPerformers("rady", 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 records, got %d", len(top))
	}
	assert.Equal(t, "A2", top[0].SkuID)
	assert.Equal(t, "A3", top[1].SkuID)
}

func TestBrandStatsAveragesCVR(t *testing.T) {
	r := &Result{Records: []models.MergedRecord{
		merged("A1", "C1", "rady", 100, 10, 1000), // CVR 10
		merged("A2", "C2", "rady", 100, 30, 3000), // CVR 30
	}}
	stats := r.BrandStats("rady")
	assert.Equal(t, 2, stats.TotalSku)
	assert.InDelta(t, 20.0, stats.AvgCVR, 1e-9)
}

func TestBrandsAppearanceOrder(t *testing.T) {
	r := &Result{Records: []models.MergedRecord{
		merged("A1", "C1", "solni", 1, 0, 0),
		merged("B1", "C2", "rady", 1, 0, 0),
		merged("A2", "C3", "solni", 1, 0, 0),
	}}
	assert.Equal(t, []string{"solni", "rady"}, r.Brands())
}

func TestPVRankingGroupsByProductClass(t *testing.T) {
	// GA4 reports views at product level, duplicated across variants:
	// views come from the first SKU, the other metrics are summed.
	a := merged("A1", "C1", "rady", 100, 4, 400)
	b := merged("A2", "C1", "rady", 100, 6, 600)
	c := merged("B1", "C2", "rady", 40, 1, 100)
	noClass := merged("Z1", "", "rady", 999, 9, 900)

	r := &Result{Records: []models.MergedRecord{a, b, c, noClass}}
	ranking := r.PVRanking("rady", 0)
	if len(ranking) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(ranking))
	}

	top := ranking[0]
	assert.Equal(t, "C1", top.ProductClassID)
	assert.Equal(t, 100, top.Views)
	assert.Equal(t, 10, top.Purchases)
	assert.InDelta(t, 1000.0, top.Revenue, 1e-9)
	assert.InDelta(t, 10.0, top.CVR, 1e-9)

	// nested SKUs ordered by purchases
	if len(top.Skus) != 2 {
		t.Fatalf("expected 2 nested SKUs, got %d", len(top.Skus))
	}
	assert.Equal(t, 6, top.Skus[0].Purchases)
	assert.Equal(t, 4, top.Skus[1].Purchases)

	assert.Equal(t, "C2", ranking[1].ProductClassID)
}

func TestPVRankingDropsUnviewedGroups(t *testing.T) {
	a := merged("A1", "C1", "rady", 0, 0, 0)
	b := merged("A2", "C1", "rady", 0, 1, 100)
	c := merged("B1", "C2", "rady", 10, 0, 0)

	r := &Result{Records: []models.MergedRecord{a, b, c}}
	ranking := r.PVRanking("rady", 0)
	if len(ranking) != 1 {
		t.Fatalf("expected 1 group, got %d", len(ranking))
	}
	assert.Equal(t, "C2", ranking[0].ProductClassID)
}

func TestPVRankingByBrand(t *testing.T) {
	r := &Result{Records: []models.MergedRecord{
		merged("A1", "C1", "rady", 10, 1, 100),
		merged("B1", "C2", "cherimi", 20, 2, 200),
	}}
	byBrand := r.PVRankingByBrand(10)
	assert.Len(t, byBrand, 2)
	assert.Len(t, byBrand["rady"], 1)
	assert.Len(t, byBrand["cherimi"], 1)
}

func TestTopPerformersGroupedSumsViews(t *testing.T) {
	a := merged("A1", "C1", "rady", 100, 4, 400)
	b := merged("A2", "C1", "rady", 100, 6, 600)
	c := merged("B1", "C2", "rady", 40, 10, 2000)

	r := &Result{Records: []models.MergedRecord{a, b, c}}
	ranking := r.TopPerformersGrouped("rady", 0)
	if len(ranking) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(ranking))
	}

	// revenue-ordered, and views summed unlike the PV ranking
	assert.Equal(t, "C2", ranking[0].ProductClassID)
	assert.Equal(t, "C1", ranking[1].ProductClassID)
	assert.Equal(t, 200, ranking[1].Views)
	assert.Equal(t, 2, ranking[1].SkuCount)
}

func TestSkuDetailColorTagDefault(t *testing.T) {
	a := merged("A1", "C1", "rady", 10, 1, 100)
	a.ColorTag = ""
	b := merged("A2", "C1", "rady", 10, 2, 200)
	b.ColorTag = "#f00"

	r := &Result{Records: []models.MergedRecord{a, b}}
	ranking := r.PVRanking("rady", 0)
	if len(ranking) != 1 || len(ranking[0].Skus) != 2 {
		t.Fatalf("unexpected ranking shape: %+v", ranking)
	}
	assert.Equal(t, "#f00", ranking[0].Skus[0].ColorTag)
	assert.Equal(t, "#888", ranking[0].Skus[1].ColorTag)
}

func TestAnomaliesEmptyWithoutDeltas(t *testing.T) {
	rec := merged("A1", "C1", "rady", 100, 10, 1000)
	rec.DeltaViewsPct = 200
	r := &Result{Records: []models.MergedRecord{rec}}

	report := r.Anomalies("all", 10)
	assert.Empty(t, report.Rising)
	assert.Empty(t, report.Warning)
}

func TestAnomaliesRisingAndWarning(t *testing.T) {
	rising := merged("A1", "C1", "rady", 80, 1, 100)
	rising.DeltaViewsPct = 60
	rising.DeltaPurchasesPct = 80
	rising.DeltaRevenuePct = 40

	smallRise := merged("A2", "C2", "rady", 10, 0, 0)
	smallRise.DeltaViewsPct = 90 // views below the floor of 50

	warning := merged("B1", "C3", "rady", 20, 1, 100)
	warning.TotalStock = 8
	warning.PrevViews = 40
	warning.DeltaViewsPct = -50

	soldOut := merged("B2", "C4", "rady", 20, 1, 100)
	soldOut.TotalStock = 0 // stock gone, drop is expected
	soldOut.PrevViews = 40
	soldOut.DeltaViewsPct = -50

	r := &Result{
		Records:   []models.MergedRecord{rising, smallRise, warning, soldOut},
		HasDeltas: true,
	}
	report := r.Anomalies("all", 10)

	if len(report.Rising) != 1 {
		t.Fatalf("expected 1 rising item, got %d", len(report.Rising))
	}
	assert.Equal(t, "A1", report.Rising[0].SkuID)
	// score = 0.3*views + 0.5*purchases + 0.2*revenue pct changes
	assert.InDelta(t, 66.0, report.Rising[0].Score, 1e-9)

	if len(report.Warning) != 1 {
		t.Fatalf("expected 1 warning item, got %d", len(report.Warning))
	}
	assert.Equal(t, "B1", report.Warning[0].SkuID)
}

func TestAnomaliesOrderingAndLimit(t *testing.T) {
	big := merged("A1", "C1", "rady", 100, 5, 500)
	big.DeltaPurchasesPct = 300
	small := merged("A2", "C2", "rady", 100, 5, 500)
	small.DeltaPurchasesPct = 60

	r := &Result{Records: []models.MergedRecord{small, big}, HasDeltas: true}
	report := r.Anomalies("all", 1)
	if len(report.Rising) != 1 {
		t.Fatalf("expected limit of 1, got %d", len(report.Rising))
	}
	assert.Equal(t, "A1", report.Rising[0].SkuID)
}

func TestNilResultQueries(t *testing.T) {
	var r *Result
	assert.Nil(t, r.BrandSummary())
	assert.Empty(t, r.ProblemProducts("all", 0))
	assert.Empty(t, r.OpportunityProducts("all", 0))
	assert.Empty(t, r.TopPerformers("all", 0))
	assert.Empty(t, r.PVRanking("all", 0))
	assert.Empty(t, r.Anomalies("all", 0).Rising)
}
