package ga4

import (
	"context"
	"fmt"
	"strconv"

	"stocklens/config"
	"stocklens/models"

	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

const analyticsReadScope = "https://www.googleapis.com/auth/analytics.readonly"

// Client wraps the GA4 Data API for the configured brand properties.
type Client struct {
	svc *analyticsdata.Service
}

// NewClient builds a GA4 Data API client from the service-account JSON
// in the application config.
func NewClient(ctx context.Context) (*Client, error) {
	creds := config.AppConfig.GA4CredentialsJSON
	if creds == "" {
		return nil, fmt.Errorf("GA4_CREDENTIALS_JSON is not set")
	}
	svc, err := analyticsdata.NewService(ctx,
		option.WithCredentialsJSON([]byte(creds)),
		option.WithScopes(analyticsReadScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GA4 client: %w", err)
	}
	return &Client{svc: svc}, nil
}

func propertyFor(brand string) (string, error) {
	id := config.AppConfig.GA4Properties[brand]
	if id == "" {
		return "", fmt.Errorf("GA4 property ID not set for brand %q", brand)
	}
	return "properties/" + id, nil
}

// FetchItemReport pulls the per-item ecommerce metrics for one brand
// over an inclusive date window (YYYY-MM-DD).
func (c *Client) FetchItemReport(ctx context.Context, brand, startDate, endDate string) ([]models.FactRecord, error) {
	property, err := propertyFor(brand)
	if err != nil {
		return nil, err
	}

	req := &analyticsdata.RunReportRequest{
		Dimensions: []*analyticsdata.Dimension{
			{Name: "itemId"},
			{Name: "itemName"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "itemsViewed"},
			{Name: "itemsAddedToCart"},
			{Name: "itemsPurchased"},
			{Name: "itemRevenue"},
		},
		DateRanges: []*analyticsdata.DateRange{
			{StartDate: startDate, EndDate: endDate},
		},
	}

	resp, err := c.svc.Properties.RunReport(property, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("GA4 item report for %s: %w", brand, err)
	}

	records := make([]models.FactRecord, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) < 2 || len(row.MetricValues) < 4 {
			continue
		}
		records = append(records, models.FactRecord{
			SkuID:     row.DimensionValues[0].Value,
			ItemName:  row.DimensionValues[1].Value,
			Views:     metricInt(row.MetricValues[0].Value),
			AddToCart: metricInt(row.MetricValues[1].Value),
			Purchases: metricInt(row.MetricValues[2].Value),
			Revenue:   metricFloat(row.MetricValues[3].Value),
		})
	}
	return records, nil
}

// FetchChannelReport pulls the per-(channel, source) traffic metrics for
// one brand over an inclusive date window.
func (c *Client) FetchChannelReport(ctx context.Context, brand, startDate, endDate string) ([]models.ChannelFact, error) {
	property, err := propertyFor(brand)
	if err != nil {
		return nil, err
	}

	req := &analyticsdata.RunReportRequest{
		Dimensions: []*analyticsdata.Dimension{
			{Name: "sessionDefaultChannelGroup"},
			{Name: "sessionSource"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "sessions"},
			{Name: "totalUsers"},
			{Name: "ecommercePurchases"},
			{Name: "purchaseRevenue"},
		},
		DateRanges: []*analyticsdata.DateRange{
			{StartDate: startDate, EndDate: endDate},
		},
	}

	resp, err := c.svc.Properties.RunReport(property, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("GA4 channel report for %s: %w", brand, err)
	}

	facts := make([]models.ChannelFact, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) < 2 || len(row.MetricValues) < 4 {
			continue
		}
		facts = append(facts, models.ChannelFact{
			Channel:   row.DimensionValues[0].Value,
			Source:    row.DimensionValues[1].Value,
			Sessions:  metricInt(row.MetricValues[0].Value),
			Users:     metricInt(row.MetricValues[1].Value),
			Purchases: metricInt(row.MetricValues[2].Value),
			Revenue:   metricFloat(row.MetricValues[3].Value),
		})
	}
	return facts, nil
}

func metricInt(v string) int {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func metricFloat(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
