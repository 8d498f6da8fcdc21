package config

import (
	"os"
	"strings"
)

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret       string
	SchedulerSecret string

	// S3-compatible object storage (Cloudflare R2)
	StorageEndpoint    string
	StorageAccessKeyID string
	StorageSecretKey   string
	StorageBucket      string
	ProductMasterKey   string

	// GA4 Data API
	GA4CredentialsJSON string
	GA4Properties      map[string]string // brand -> property ID

	// Initial passwords (overridden by the stored password set once loaded)
	AdminPassword  string
	BrandPasswords map[string]string
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Brands is the fixed allow-list of brand identifiers the app knows about.
var Brands = []string{"rady", "cherimi", "michellmacaron", "solni"}

// ExcludedBrand never appears in any analysis output.
const ExcludedBrand = "Regalect"

// ProductURLTemplate builds the storefront URL for a brand slug + SKU.
const ProductURLTemplate = "https://mycolor.jp/%s/item/%s"

// PeriodTypes are the three reporting windows tracked independently.
var PeriodTypes = []string{"yesterday", "3days", "weekly"}

// DefaultPeriodType is shown after a scheduled refresh.
const DefaultPeriodType = "yesterday"

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load populates AppConfig from environment variables.
func Load() {
	AppConfig = Config{
		JWTSecret:       getenv("JWT_SECRET", ""),
		SchedulerSecret: getenv("SCHEDULER_SECRET", "default-scheduler-secret-change-me"),

		StorageEndpoint:    os.Getenv("R2_ENDPOINT_URL"),
		StorageAccessKeyID: os.Getenv("R2_ACCESS_KEY_ID"),
		StorageSecretKey:   os.Getenv("R2_SECRET_ACCESS_KEY"),
		StorageBucket:      getenv("R2_BUCKET_NAME", "analyzeap-data"),
		ProductMasterKey:   getenv("R2_PRODUCT_MASTER_KEY", "product_master.csv"),

		GA4CredentialsJSON: os.Getenv("GA4_CREDENTIALS_JSON"),
		GA4Properties: map[string]string{
			"rady":           os.Getenv("GA4_PROPERTY_RADY"),
			"cherimi":        os.Getenv("GA4_PROPERTY_CHERIMI"),
			"michellmacaron": os.Getenv("GA4_PROPERTY_MICHELLMACARON"),
			"solni":          os.Getenv("GA4_PROPERTY_SOLNI"),
		},

		AdminPassword: getenv("ADMIN_PASSWORD", "admin898989"),
		BrandPasswords: map[string]string{
			"rady":           getenv("BRAND_PASSWORD_RADY", "rady2025"),
			"cherimi":        getenv("BRAND_PASSWORD_CHERIMI", "cherimi2025"),
			"michellmacaron": getenv("BRAND_PASSWORD_MICHELLMACARON", "mm2025"),
			"solni":          getenv("BRAND_PASSWORD_SOLNI", "solni2025"),
		},
	}
}

// IsStorageEnabled reports whether the object storage credentials are set.
func IsStorageEnabled() bool {
	c := AppConfig
	return c.StorageEndpoint != "" && c.StorageAccessKeyID != "" && c.StorageSecretKey != ""
}

// IsGA4Configured reports whether the GA4 API can be used for at least one brand.
func IsGA4Configured() bool {
	if AppConfig.GA4CredentialsJSON == "" {
		return false
	}
	for _, id := range AppConfig.GA4Properties {
		if id != "" {
			return true
		}
	}
	return false
}

// ConfiguredGA4Brands returns the brands that have a GA4 property ID set.
func ConfiguredGA4Brands() []string {
	brands := make([]string, 0, len(Brands))
	for _, b := range Brands {
		if AppConfig.GA4Properties[b] != "" {
			brands = append(brands, b)
		}
	}
	return brands
}

// BrandSlug maps a raw brand label onto its storefront slug by substring
// match on the normalized (lower-cased, whitespace/underscore-stripped)
// brand string. Empty when no slug applies.
func BrandSlug(brand string) string {
	raw := strings.ToLower(brand)
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, "_", "")
	switch {
	case strings.Contains(raw, "rady"):
		return "rady"
	case strings.Contains(raw, "cherimi"):
		return "cherimi"
	case strings.Contains(raw, "michell"), strings.Contains(raw, "macaron"):
		return "michellmacaron"
	case strings.Contains(raw, "solni"):
		return "solni"
	}
	return ""
}

// IsValidPeriodType reports whether p is one of the tracked period types.
func IsValidPeriodType(p string) bool {
	for _, pt := range PeriodTypes {
		if pt == p {
			return true
		}
	}
	return false
}
