package handlers

import (
	"log"

	"stocklens/analysis"
	"stocklens/config"
	"stocklens/ga4"
	"stocklens/normalize"

	"github.com/gofiber/fiber/v2"
)

// fetchBrandPeriod pulls item and channel reports for one brand and
// stores them under the given period type.
func (a *API) fetchBrandPeriod(c *fiber.Ctx, client *ga4.Client, brand, periodType string, archive bool) (string, error) {
	ctx := c.Context()

	current, err := client.FetchPeriod(ctx, brand, periodType, false)
	if err != nil {
		return "", err
	}
	if err := a.Store.SetFacts(periodType, brand, analysis.SlotCurrent, current); err != nil {
		return "", err
	}

	if previous, err := client.FetchPeriod(ctx, brand, periodType, true); err != nil {
		log.Printf("GA4 previous period fetch failed for %s/%s: %v", brand, periodType, err)
	} else if err := a.Store.SetFacts(periodType, brand, analysis.SlotPrevious, previous); err != nil {
		log.Printf("Could not store previous period for %s/%s: %v", brand, periodType, err)
	}

	if channels, err := client.FetchChannelPeriod(ctx, brand, periodType); err != nil {
		log.Printf("GA4 channel fetch failed for %s/%s: %v", brand, periodType, err)
	} else if err := a.Store.SetChannelData(periodType, brand, channels); err != nil {
		log.Printf("Could not store channel data for %s/%s: %v", brand, periodType, err)
	}

	if archive && config.IsStorageEnabled() {
		if sc, err := a.storageClient(ctx); err == nil {
			if err := sc.SaveFactExport(ctx, brand, current); err != nil {
				log.Printf("Failed to archive GA4 export for %s: %v", brand, err)
			}
		}
	}

	return normalize.DescribeBatch(current), nil
}

// HandleFetchGA4 pulls fresh item and channel reports from the GA4 Data
// API for every configured brand.
// POST /api/v1/admin/fetch-ga4
func (a *API) HandleFetchGA4(c *fiber.Ctx) error {
	var req struct {
		PeriodType string `json:"period_type"`
	}
	if err := c.BodyParser(&req); err != nil || req.PeriodType == "" {
		req.PeriodType = "weekly"
	}
	if !config.IsValidPeriodType(req.PeriodType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unknown period type: " + req.PeriodType})
	}

	brands := config.ConfiguredGA4Brands()
	if len(brands) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "GA4 is not configured for any brand"})
	}
	client, err := a.ga4Client(c.Context())
	if err != nil {
		log.Printf("GA4 client error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Could not connect to GA4"})
	}

	results := fiber.Map{}
	fetched := 0
	for _, brand := range brands {
		desc, err := a.fetchBrandPeriod(c, client, brand, req.PeriodType, true)
		if err != nil {
			log.Printf("GA4 fetch failed for %s: %v", brand, err)
			results[brand] = fiber.Map{"status": "error", "message": err.Error()}
			continue
		}
		fetched++
		results[brand] = fiber.Map{"status": "success", "detail": desc}
	}

	if fetched == 0 {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": "All GA4 fetches failed",
			"results": results,
		})
	}

	if _, err := a.Store.Reconcile(req.PeriodType); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
			"results": results,
		})
	}
	if err := a.Store.SwitchActive(req.PeriodType); err != nil {
		log.Printf("Could not activate period %s after fetch: %v", req.PeriodType, err)
	}

	return c.JSON(fiber.Map{
		"status":      "success",
		"period_type": req.PeriodType,
		"results":     results,
	})
}

// HandleScheduledUpdate refreshes all three period types in one pass.
// It is meant to be called by an external scheduler and is guarded by
// a shared secret header instead of a JWT.
// POST /api/v1/internal/scheduled-update
func (a *API) HandleScheduledUpdate(c *fiber.Ctx) error {
	if c.Get("X-Scheduler-Secret") != config.AppConfig.SchedulerSecret {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid scheduler secret"})
	}

	brands := config.ConfiguredGA4Brands()
	if len(brands) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "GA4 is not configured for any brand"})
	}
	client, err := a.ga4Client(c.Context())
	if err != nil {
		log.Printf("GA4 client error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Could not connect to GA4"})
	}

	results := fiber.Map{}
	for _, periodType := range config.PeriodTypes {
		periodResults := fiber.Map{}
		fetched := 0
		// Only archive the default period to keep one canonical export per day.
		archive := periodType == config.DefaultPeriodType
		for _, brand := range brands {
			desc, err := a.fetchBrandPeriod(c, client, brand, periodType, archive)
			if err != nil {
				log.Printf("Scheduled GA4 fetch failed for %s/%s: %v", brand, periodType, err)
				periodResults[brand] = fiber.Map{"status": "error", "message": err.Error()}
				continue
			}
			fetched++
			periodResults[brand] = fiber.Map{"status": "success", "detail": desc}
		}
		if fetched > 0 {
			if _, err := a.Store.Reconcile(periodType); err != nil {
				log.Printf("Scheduled reconcile failed for %s: %v", periodType, err)
			}
		}
		results[periodType] = periodResults
	}

	if err := a.Store.SwitchActive(config.DefaultPeriodType); err != nil {
		log.Printf("Could not activate default period after scheduled update: %v", err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"results": results,
	})
}
