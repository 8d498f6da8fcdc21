package handlers

import (
	"strconv"
	"strings"

	"stocklens/analysis"
	"stocklens/config"
	"stocklens/middleware"
	"stocklens/models"
	"stocklens/utils"

	"github.com/gofiber/fiber/v2"
)

// visibleBrands narrows a brand list to the ones the caller may see.
func visibleBrands(claims *models.JwtClaims, brands []string) []string {
	if claims.IsAdmin {
		return brands
	}
	var out []string
	for _, b := range brands {
		if middleware.CanAccessBrand(claims, b) {
			out = append(out, b)
		}
	}
	return out
}

// HandleDashboard returns the cross-brand overview for the active period.
// GET /api/v1/dashboard
func (a *API) HandleDashboard(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}

	res := a.Store.ActiveResult()
	if res == nil {
		return c.JSON(fiber.Map{
			"status":            "success",
			"data_loaded":       false,
			"period_type":       a.Store.ActivePeriodType(),
			"available_periods": a.Store.AvailablePeriods(),
		})
	}

	brands := visibleBrands(claims, res.Brands())
	summaries := res.BrandSummary()
	if !claims.IsAdmin {
		filtered := summaries[:0:0]
		for _, s := range summaries {
			if middleware.CanAccessBrand(claims, s.Brand) {
				filtered = append(filtered, s)
			}
		}
		summaries = filtered
	}

	rankings := res.PVRankingByBrand(30)
	if !claims.IsAdmin {
		for b := range rankings {
			if !middleware.CanAccessBrand(claims, b) {
				delete(rankings, b)
			}
		}
	}

	period := a.Store.AnalysisPeriod()
	periodRange := ""
	if period != nil {
		start, end := "", ""
		if period.MinStart != nil {
			start = period.MinStart.Format("2006-01-02")
		}
		if period.MaxEnd != nil {
			end = period.MaxEnd.Format("2006-01-02")
		}
		periodRange = utils.FormatDateRange(start, end)
	}

	return c.JSON(fiber.Map{
		"status":            "success",
		"data_loaded":       true,
		"period_type":       a.Store.ActivePeriodType(),
		"period_label":      utils.PeriodLabel(a.Store.ActivePeriodType()),
		"available_periods": a.Store.AvailablePeriods(),
		"analysis_period":   period,
		"period_range":      periodRange,
		"has_deltas":        res.HasDeltas,
		"brands":            brands,
		"brand_summary":     summaries,
		"pv_ranking":        rankings,
	})
}

// HandleSwitchPeriod changes which period type the read endpoints serve.
// POST /api/v1/periods/switch
func (a *API) HandleSwitchPeriod(c *fiber.Ctx) error {
	var req struct {
		PeriodType string `json:"period_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if !config.IsValidPeriodType(req.PeriodType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unknown period type: " + req.PeriodType})
	}
	if err := a.Store.SwitchActive(req.PeriodType); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No data loaded for period: " + req.PeriodType})
	}
	return c.JSON(fiber.Map{
		"status":      "success",
		"period_type": a.Store.ActivePeriodType(),
	})
}

// HandleBrandDetail returns the drill-down view for one brand, or the
// combined view when brand is "all" (admin only).
// GET /api/v1/brands/:brand
func (a *API) HandleBrandDetail(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}

	brand := c.Params("brand")
	if strings.EqualFold(brand, "all") {
		if !claims.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Admin access required"})
		}
		brand = "all"
	} else if !middleware.CanAccessBrand(claims, brand) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Access to this brand is not allowed"})
	}

	res := a.Store.ActiveResult()
	if res == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No analysis data loaded"})
	}

	payload := fiber.Map{
		"status":        "success",
		"brand":         brand,
		"period_type":   a.Store.ActivePeriodType(),
		"stats":         res.BrandStats(brand),
		"problems":      res.ProblemProducts(brand, 50),
		"opportunities": res.OpportunityProducts(brand, 50),
		"top_products":  res.TopPerformers(brand, 30),
		"pv_ranking":    res.PVRanking(brand, 50),
		"anomalies":     res.Anomalies(brand, 10),
	}

	if brand != "all" {
		if batch := a.Store.ActiveChannelData(strings.ToLower(brand)); batch != nil {
			payload["channels"] = analysis.ChannelBreakdown(batch)
		}
	}

	return c.JSON(payload)
}

// HandleProducts lists products by category with optional brand filtering.
// GET /api/v1/products?category=problem&brand=rady&limit=50
func (a *API) HandleProducts(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}

	res := a.Store.ActiveResult()
	if res == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No analysis data loaded"})
	}

	brand := c.Query("brand", "all")
	if strings.EqualFold(brand, "all") {
		if !claims.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Admin access required"})
		}
	} else if !middleware.CanAccessBrand(claims, brand) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Access to this brand is not allowed"})
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	category := c.Query("category", "problem")
	var data interface{}
	switch category {
	case "problem":
		data = res.ProblemProducts(brand, limit)
	case "opportunity":
		data = res.OpportunityProducts(brand, limit)
	case "pv":
		data = res.PVRanking(brand, limit)
	case "top":
		data = res.TopPerformersGrouped(brand, limit)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unknown category: " + category})
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"category": category,
		"brand":    brand,
		"products": data,
	})
}
