package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	IsAdmin bool     `json:"isAdmin"`
	Brands  []string `json:"brands"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Password string `json:"password"`
}

// --- Core Records ---

// ProductRecord is one SKU row of the product master. The master is
// fully replaced on every load, never merged.
type ProductRecord struct {
	SkuID          string  `json:"sku_id"`
	ProductClassID string  `json:"product_class_id"`
	Brand          string  `json:"brand"`
	ProductName    string  `json:"product_name"`
	ColorName      string  `json:"color_name"`
	ColorTag       string  `json:"color_tag"`
	Size           string  `json:"size"`
	Price          float64 `json:"price"`
	WebStock       int     `json:"web_stock"`
	AdjustStock    int     `json:"adjust_stock"`
	ExpectedStock  int     `json:"expected_stock"`
	TotalStock     int     `json:"total_stock"`
	ProductURL     string  `json:"product_url"`
	ImageURL       string  `json:"image_url"`
	PublishStatus  string  `json:"publish_status"`
	SalesStatus    string  `json:"sales_status"`
}

// FactRecord is one SKU row of a GA4 item export for one brand and
// one period window.
type FactRecord struct {
	SkuID     string  `json:"sku_id"`
	ItemName  string  `json:"item_name"`
	Views     int     `json:"views"`
	AddToCart int     `json:"add_to_cart"`
	Purchases int     `json:"purchases"`
	Revenue   float64 `json:"revenue"`
}

// PeriodDescriptor describes the date window a fact batch covers.
type PeriodDescriptor struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Property  string     `json:"property,omitempty"`
	Days      int        `json:"days"`
	// daily, weekly, monthly, custom, or unknown when no dates were found
	PeriodType string `json:"period_type"`
}

// Granularity derived from the day count of the window.
func (p *PeriodDescriptor) DeriveGranularity() {
	if p.StartDate == nil || p.EndDate == nil {
		p.PeriodType = "unknown"
		return
	}
	p.Days = int(p.EndDate.Sub(*p.StartDate).Hours()/24) + 1 // both ends inclusive
	switch {
	case p.Days == 1:
		p.PeriodType = "daily"
	case p.Days == 7:
		p.PeriodType = "weekly"
	case p.Days >= 28 && p.Days <= 31:
		p.PeriodType = "monthly"
	default:
		p.PeriodType = "custom"
	}
}

// FactBatch is one brand's fact rows plus the window they cover.
type FactBatch struct {
	Records []FactRecord     `json:"records"`
	Period  PeriodDescriptor `json:"period"`
}

// ChannelFact is one (channel, source) row of a GA4 traffic report.
type ChannelFact struct {
	Channel   string  `json:"channel"`
	Source    string  `json:"source"`
	Sessions  int     `json:"sessions"`
	Users     int     `json:"users"`
	Purchases int     `json:"purchases"`
	Revenue   float64 `json:"revenue"`
}

// ChannelBatch holds one brand's current channel rows and, when the
// previous window was fetched, the rows to compare against.
type ChannelBatch struct {
	Current  []ChannelFact `json:"current"`
	Previous []ChannelFact `json:"previous,omitempty"`
}

// MergedRecord is one SKU after the product master has been joined with
// the combined fact table for a period type. Prev*/Delta* fields are
// only meaningful when HasDeltas is set on the owning result.
type MergedRecord struct {
	ProductRecord

	ItemName  string  `json:"item_name"`
	Views     int     `json:"views"`
	AddToCart int     `json:"add_to_cart"`
	Purchases int     `json:"purchases"`
	Revenue   float64 `json:"revenue"`

	CVR             float64 `json:"cvr"`
	CartRate        float64 `json:"cart_rate"`
	StockEfficiency float64 `json:"stock_efficiency"`
	IsProblem       bool    `json:"is_problem"`
	IsOpportunity   bool    `json:"is_opportunity"`

	PrevViews     int     `json:"prev_views"`
	PrevAddToCart int     `json:"prev_add_to_cart"`
	PrevPurchases int     `json:"prev_purchases"`
	PrevRevenue   float64 `json:"prev_revenue"`
	PrevCVR       float64 `json:"prev_cvr"`

	DeltaViews        int     `json:"delta_views"`
	DeltaViewsPct     float64 `json:"delta_views_pct"`
	DeltaAddToCart    int     `json:"delta_add_to_cart"`
	DeltaAddToCartPct float64 `json:"delta_add_to_cart_pct"`
	DeltaPurchases    int     `json:"delta_purchases"`
	DeltaPurchasesPct float64 `json:"delta_purchases_pct"`
	DeltaRevenue      float64 `json:"delta_revenue"`
	DeltaRevenuePct   float64 `json:"delta_revenue_pct"`
	DeltaCVR          float64 `json:"delta_cvr"`
}

// AnalysisPeriod summarizes the windows covered by all loaded brands.
type AnalysisPeriod struct {
	Brands    []BrandPeriod `json:"brands"`
	MinStart  *time.Time    `json:"min_start"`
	MaxEnd    *time.Time    `json:"max_end"`
	TotalDays int           `json:"total_days"`
}

type BrandPeriod struct {
	Brand string `json:"brand"`
	PeriodDescriptor
}
