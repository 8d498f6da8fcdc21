package handlers

import (
	"io"
	"log"
	"mime/multipart"

	"stocklens/analysis"
	"stocklens/config"
	"stocklens/normalize"

	"github.com/gofiber/fiber/v2"
)

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// HandleUpload ingests a product master CSV and per-brand GA4 item
// exports from a multipart form, then rebuilds the analysis.
// POST /api/v1/admin/upload
func (a *API) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Multipart form is required"})
	}

	periodType := c.FormValue("period_type", config.DefaultPeriodType)
	if !config.IsValidPeriodType(periodType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unknown period type: " + periodType})
	}

	messages := []string{}
	loadedAny := false

	if files := form.File["product_csv"]; len(files) > 0 {
		raw, err := readFormFile(files[0])
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Could not read product_csv"})
		}
		records, err := normalize.LoadProductMaster(raw)
		if err != nil {
			messages = append(messages, "product_csv: "+err.Error())
		} else {
			a.Store.SetProductMaster(records)
			loadedAny = true
			messages = append(messages, "product master loaded")
			if config.IsStorageEnabled() {
				if sc, err := a.storageClient(c.Context()); err == nil {
					if err := sc.UploadProductMaster(c.Context(), raw); err != nil {
						log.Printf("Failed to archive product master: %v", err)
					}
				}
			}
		}
	}

	for _, brand := range config.Brands {
		files := form.File["ga_csv_"+brand]
		if len(files) == 0 {
			continue
		}
		raw, err := readFormFile(files[0])
		if err != nil {
			messages = append(messages, "ga_csv_"+brand+": could not read file")
			continue
		}
		batch, err := normalize.LoadFactExport(raw)
		if err != nil {
			messages = append(messages, "ga_csv_"+brand+": "+err.Error())
			continue
		}
		if err := a.Store.SetFacts(periodType, brand, analysis.SlotCurrent, batch); err != nil {
			messages = append(messages, "ga_csv_"+brand+": "+err.Error())
			continue
		}
		loadedAny = true
		messages = append(messages, brand+": "+normalize.DescribeBatch(batch))
	}

	if !loadedAny {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":   "error",
			"message":  "No usable files in upload",
			"messages": messages,
		})
	}

	if _, err := a.Store.Reconcile(periodType); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":   "error",
			"message":  err.Error(),
			"messages": messages,
		})
	}
	if err := a.Store.SwitchActive(periodType); err != nil {
		log.Printf("Could not activate period %s after upload: %v", periodType, err)
	}

	return c.JSON(fiber.Map{
		"status":      "success",
		"period_type": periodType,
		"messages":    messages,
	})
}

// HandleSyncStorage pulls the most recent product master and archived
// GA4 exports out of object storage and rebuilds every loaded period.
// POST /api/v1/admin/sync-storage
func (a *API) HandleSyncStorage(c *fiber.Ctx) error {
	if !config.IsStorageEnabled() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Object storage is not configured"})
	}
	sc, err := a.storageClient(c.Context())
	if err != nil {
		log.Printf("Storage client error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Could not connect to object storage"})
	}

	messages := []string{}

	raw, key, err := sc.DownloadProductMaster(c.Context())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No product master found in storage"})
	}
	records, err := normalize.LoadProductMaster(raw)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Stored product master could not be parsed: " + err.Error()})
	}
	a.Store.SetProductMaster(records)
	messages = append(messages, "product master restored from "+key)

	for _, brand := range config.Brands {
		batch, err := sc.LoadLatestFactExport(c.Context(), brand)
		if err != nil || batch == nil {
			continue
		}
		if err := a.Store.SetFacts(config.DefaultPeriodType, brand, analysis.SlotCurrent, batch); err != nil {
			messages = append(messages, brand+": "+err.Error())
			continue
		}
		messages = append(messages, brand+": "+normalize.DescribeBatch(batch))
	}

	for _, pt := range a.Store.AvailablePeriods() {
		if _, err := a.Store.Reconcile(pt); err != nil {
			messages = append(messages, pt+": "+err.Error())
		}
	}
	if a.Store.ActivePeriodType() == "" {
		if err := a.Store.SwitchActive(config.DefaultPeriodType); err != nil {
			log.Printf("Could not activate default period after sync: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"messages": messages,
	})
}
