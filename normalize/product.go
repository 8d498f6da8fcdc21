package normalize

import (
	"fmt"

	"stocklens/models"
)

// productColumnMap renames the product master's source headers to the
// canonical field names. Consulted once per load; no schema inference.
var productColumnMap = map[string]string{
	"SKU商品ID":    "sku_id",
	"商品ID（型単位）":  "product_class_id",
	"ブランド名":      "brand",
	"商品名":        "product_name",
	"カラー名":       "color_name",
	"カラータグ":      "color_tag",
	"サイズ名":       "size",
	"販売価格":       "price",
	"WEB在庫":      "web_stock",
	"調整在庫":       "adjust_stock",
	"見込み在庫":      "expected_stock",
	"商品ページURL":   "product_url",
	"商品画像URL":    "image_url",
	"公開ステータス":    "publish_status",
	"販売ステータス":    "sales_status",
}

// productMasterEncodings is the attempt order for master uploads, which
// usually come out of the PIM as Shift_JIS.
var productMasterEncodings = []string{"cp932", "utf-8", "utf-8-sig"}

// LoadProductMaster parses raw product-master CSV bytes into the
// canonical ProductRecord relation. The first encoding that yields a
// table with at least one recognized column wins.
func LoadProductMaster(raw []byte) ([]models.ProductRecord, error) {
	var lastErr error
	for _, enc := range productMasterEncodings {
		text, err := decode(enc, raw)
		if err != nil {
			lastErr = err
			continue
		}
		tbl, err := parseTable(text, productColumnMap)
		if err != nil {
			lastErr = err
			continue
		}
		if !hasRecognizedProductColumn(tbl) {
			lastErr = fmt.Errorf("no recognized product master columns")
			continue
		}
		return buildProductRecords(tbl), nil
	}
	return nil, &ParseError{Kind: "product master", Err: lastErr}
}

func hasRecognizedProductColumn(tbl *table) bool {
	for _, canonical := range productColumnMap {
		if tbl.hasColumn(canonical) {
			return true
		}
	}
	return false
}

func buildProductRecords(tbl *table) []models.ProductRecord {
	// total_stock is only derivable when every stock column exists.
	allStocks := tbl.hasColumn("web_stock") && tbl.hasColumn("adjust_stock") && tbl.hasColumn("expected_stock")

	records := make([]models.ProductRecord, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		rec := models.ProductRecord{
			SkuID:          tbl.cell(row, "sku_id"),
			ProductClassID: tbl.cell(row, "product_class_id"),
			Brand:          tbl.cell(row, "brand"),
			ProductName:    tbl.cell(row, "product_name"),
			ColorName:      tbl.cell(row, "color_name"),
			ColorTag:       tbl.cell(row, "color_tag"),
			Size:           tbl.cell(row, "size"),
			Price:          tbl.floatCell(row, "price"),
			WebStock:       tbl.intCell(row, "web_stock"),
			AdjustStock:    tbl.intCell(row, "adjust_stock"),
			ExpectedStock:  tbl.intCell(row, "expected_stock"),
			ProductURL:     tbl.cell(row, "product_url"),
			ImageURL:       tbl.cell(row, "image_url"),
			PublishStatus:  tbl.cell(row, "publish_status"),
			SalesStatus:    tbl.cell(row, "sales_status"),
		}
		if allStocks {
			rec.TotalStock = rec.WebStock + rec.AdjustStock + rec.ExpectedStock
		}
		records = append(records, rec)
	}
	return records
}
