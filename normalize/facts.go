package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"stocklens/models"
)

// factColumnMap renames GA4 item-export headers to canonical fact fields.
var factColumnMap = map[string]string{
	"Item name":           "item_name",
	"Item ID":             "sku_id",
	"Items viewed":        "views",
	"Items added to cart": "add_to_cart",
	"Items purchased":     "purchases",
	"Item revenue":        "revenue",
}

// factExportEncodings is the attempt order for analytics exports, which
// tend to be UTF-8 unlike the product master.
var factExportEncodings = []string{"utf-8", "utf-8-sig", "cp932"}

var (
	startDateRe = regexp.MustCompile(`Start date:\s*(\d{8})`)
	endDateRe   = regexp.MustCompile(`End date:\s*(\d{8})`)
	propertyRe  = regexp.MustCompile(`Property:\s*(.+)`)
)

// LoadFactExport parses a raw GA4 item-export into a FactBatch: the
// period metadata from the preamble plus the normalized fact rows.
func LoadFactExport(raw []byte) (*models.FactBatch, error) {
	var lastErr error
	for _, enc := range factExportEncodings {
		text, err := decode(enc, raw)
		if err != nil {
			lastErr = err
			continue
		}
		batch, err := parseFactExport(text)
		if err != nil {
			lastErr = err
			continue
		}
		return batch, nil
	}
	return nil, &ParseError{Kind: "analytics export", Err: lastErr}
}

func parseFactExport(text string) (*models.FactBatch, error) {
	lines := strings.Split(text, "\n")

	period := parsePeriodPreamble(lines)

	headerIdx := findHeaderLine(lines)
	tbl, err := parseTable(strings.Join(lines[headerIdx:], "\n"), factColumnMap)
	if err != nil {
		return nil, err
	}
	if !tbl.hasColumn("sku_id") {
		return nil, &MissingKeyError{Column: "Item ID"}
	}

	records := make([]models.FactRecord, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		records = append(records, models.FactRecord{
			SkuID:     tbl.cell(row, "sku_id"),
			ItemName:  tbl.cell(row, "item_name"),
			Views:     tbl.intCell(row, "views"),
			AddToCart: tbl.intCell(row, "add_to_cart"),
			Purchases: tbl.intCell(row, "purchases"),
			Revenue:   tbl.floatCell(row, "revenue"),
		})
	}

	return &models.FactBatch{Records: records, Period: period}, nil
}

// parsePeriodPreamble scans the first 15 lines for the GA4 export's
// Start date / End date / Property metadata.
func parsePeriodPreamble(lines []string) models.PeriodDescriptor {
	period := models.PeriodDescriptor{PeriodType: "unknown"}

	limit := len(lines)
	if limit > 15 {
		limit = 15
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if m := startDateRe.FindStringSubmatch(line); m != nil {
			if t, err := time.Parse("20060102", m[1]); err == nil {
				period.StartDate = &t
			}
		}
		if m := endDateRe.FindStringSubmatch(line); m != nil {
			if t, err := time.Parse("20060102", m[1]); err == nil {
				period.EndDate = &t
			}
		}
		if m := propertyRe.FindStringSubmatch(line); m != nil {
			period.Property = strings.TrimSpace(m[1])
		}
	}

	period.DeriveGranularity()
	return period
}

// findHeaderLine returns the index of the first non-comment line that
// carries a recognized item header marker. Falls back to the first line
// so a markerless table still gets a parse attempt.
func findHeaderLine(lines []string) int {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if strings.Contains(line, "Item name") || strings.Contains(line, "Item ID") {
			return i
		}
	}
	return 0
}

// DescribeBatch gives a short human-readable summary for status messages.
func DescribeBatch(batch *models.FactBatch) string {
	if batch == nil {
		return "no data"
	}
	p := batch.Period
	if p.StartDate != nil && p.EndDate != nil {
		return fmt.Sprintf("%d rows (%s - %s)", len(batch.Records),
			p.StartDate.Format("01/02"), p.EndDate.Format("01/02"))
	}
	return fmt.Sprintf("%d rows", len(batch.Records))
}
