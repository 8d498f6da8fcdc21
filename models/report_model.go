package models

// BrandSummary holds one brand's aggregated totals with period-over-period
// comparison when previous facts were loaded.
type BrandSummary struct {
	Brand            string  `json:"brand"`
	SkuCount         int     `json:"sku_count"`
	TotalStock       int     `json:"total_stock"`
	TotalViews       int     `json:"total_views"`
	TotalAddToCart   int     `json:"total_add_to_cart"`
	TotalPurchases   int     `json:"total_purchases"`
	TotalRevenue     float64 `json:"total_revenue"`
	ProblemCount     int     `json:"problem_count"`
	OpportunityCount int     `json:"opportunity_count"`
	OverallCVR       float64 `json:"overall_cvr"`

	PrevTotalRevenue   float64 `json:"prev_total_revenue,omitempty"`
	PrevTotalViews     int     `json:"prev_total_views,omitempty"`
	PrevTotalAddToCart int     `json:"prev_total_add_to_cart,omitempty"`
	PrevTotalPurchases int     `json:"prev_total_purchases,omitempty"`

	DeltaRevenue      float64 `json:"delta_revenue,omitempty"`
	DeltaRevenuePct   float64 `json:"delta_revenue_pct,omitempty"`
	DeltaViews        int     `json:"delta_views,omitempty"`
	DeltaViewsPct     float64 `json:"delta_views_pct,omitempty"`
	DeltaPurchases    int     `json:"delta_purchases,omitempty"`
	DeltaPurchasesPct float64 `json:"delta_purchases_pct,omitempty"`
	DeltaAddToCart    int     `json:"delta_add_to_cart,omitempty"`
	DeltaAddToCartPct float64 `json:"delta_add_to_cart_pct,omitempty"`
}

// BrandStats is the headline block on the brand detail view.
type BrandStats struct {
	TotalSku         int     `json:"total_sku"`
	TotalStock       int     `json:"total_stock"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalViews       int     `json:"total_views"`
	AvgCVR           float64 `json:"avg_cvr"`
	ProblemCount     int     `json:"problem_count"`
	OpportunityCount int     `json:"opportunity_count"`
}

// RankedProduct is one row of the PV ranking: SKUs collapsed onto their
// product class, with per-SKU detail nested underneath.
type RankedProduct struct {
	ProductClassID string      `json:"product_class_id"`
	Brand          string      `json:"brand"`
	ProductName    string      `json:"product_name"`
	ImageURL       string      `json:"image_url"`
	ProductURL     string      `json:"product_url"`
	Views          int         `json:"views"`
	AddToCart      int         `json:"add_to_cart"`
	Purchases      int         `json:"purchases"`
	Revenue        float64     `json:"revenue"`
	TotalStock     int         `json:"total_stock"`
	CVR            float64     `json:"cvr"`
	PurchaseRate   float64     `json:"purchase_rate"`
	SkuCount       int         `json:"sku_count,omitempty"`
	Skus           []SkuDetail `json:"skus"`
}

// SkuDetail is the nested per-SKU row inside a ranked product.
type SkuDetail struct {
	ColorName  string  `json:"color_name"`
	ColorTag   string  `json:"color_tag"`
	Size       string  `json:"size"`
	Views      int     `json:"views"`
	AddToCart  int     `json:"add_to_cart"`
	Purchases  int     `json:"purchases"`
	CVR        float64 `json:"cvr"`
	TotalStock int     `json:"total_stock"`

	DeltaPurchases    int     `json:"delta_purchases"`
	DeltaPurchasesPct float64 `json:"delta_purchases_pct"`
	DeltaAddToCart    int     `json:"delta_add_to_cart"`
	DeltaCVR          float64 `json:"delta_cvr"`
	PrevPurchases     int     `json:"prev_purchases"`
}

// AnomalyItem is one rising or warning product with the delta fields the
// anomaly views render. String fields default to "", numeric fields to 0.
type AnomalyItem struct {
	SkuID       string `json:"sku_id"`
	Brand       string `json:"brand"`
	ProductName string `json:"product_name"`
	ColorName   string `json:"color_name"`
	Size        string `json:"size"`
	ImageURL    string `json:"image_url"`
	ProductURL  string `json:"product_url"`

	TotalStock int `json:"total_stock"`

	Views         int     `json:"views"`
	PrevViews     int     `json:"prev_views"`
	DeltaViews    int     `json:"delta_views"`
	DeltaViewsPct float64 `json:"delta_views_pct"`

	Purchases         int     `json:"purchases"`
	PrevPurchases     int     `json:"prev_purchases"`
	DeltaPurchases    int     `json:"delta_purchases"`
	DeltaPurchasesPct float64 `json:"delta_purchases_pct"`

	Revenue         float64 `json:"revenue"`
	PrevRevenue     float64 `json:"prev_revenue"`
	DeltaRevenue    float64 `json:"delta_revenue"`
	DeltaRevenuePct float64 `json:"delta_revenue_pct"`

	CVR   float64 `json:"cvr"`
	Score float64 `json:"score"`
}

// AnomalyReport pairs the two anomaly classes.
type AnomalyReport struct {
	Rising  []AnomalyItem `json:"rising"`
	Warning []AnomalyItem `json:"warning"`
}

// ChannelSummary is one acquisition channel with totals, comparison and
// its top sources by revenue.
type ChannelSummary struct {
	Channel   string  `json:"channel"`
	ChannelJa string  `json:"channel_ja"`
	Sessions  int     `json:"sessions"`
	Users     int     `json:"users"`
	Purchases int     `json:"purchases"`
	Revenue   float64 `json:"revenue"`
	CVR       float64 `json:"cvr"`

	PrevSessions  int     `json:"prev_sessions"`
	PrevPurchases int     `json:"prev_purchases"`
	PrevRevenue   float64 `json:"prev_revenue"`

	DeltaSessions     int     `json:"delta_sessions"`
	DeltaSessionsPct  float64 `json:"delta_sessions_pct"`
	DeltaPurchases    int     `json:"delta_purchases"`
	DeltaPurchasesPct float64 `json:"delta_purchases_pct"`
	DeltaRevenue      float64 `json:"delta_revenue"`
	DeltaRevenuePct   float64 `json:"delta_revenue_pct"`

	Sources []ChannelSource `json:"sources"`
}

// ChannelSource is one traffic source nested inside a channel.
type ChannelSource struct {
	Name      string  `json:"name"`
	Sessions  int     `json:"sessions"`
	Purchases int     `json:"purchases"`
	Revenue   float64 `json:"revenue"`
}

// InsightsResponse is the structured commentary parsed from the AI reply.
type InsightsResponse struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Actions    []string `json:"actions"`
}
