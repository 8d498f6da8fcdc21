package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"stocklens/config"
	"stocklens/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func signToken(t *testing.T, claims *models.JwtClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func makeApp(admin bool) *fiber.App {
	app := fiber.New()
	app.Use(JWTMiddleware)
	if admin {
		app.Use(AdminRequired)
	}
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func validClaims(isAdmin bool, brands []string) *models.JwtClaims {
	return &models.JwtClaims{
		IsAdmin: isAdmin,
		Brands:  brands,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp(false)
	req := httptest.NewRequest("GET", "/test", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without header, got %d", resp.StatusCode)
	}
}

func TestJWTMiddleware_BadPrefix(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp(false)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, _ := app.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for bad prefix, got %d", resp.StatusCode)
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp(false)
	token := signToken(t, validClaims(false, []string{"rady"}), "other-secret")
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for wrong secret, got %d", resp.StatusCode)
	}
}

func TestJWTMiddleware_Expired(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp(false)
	claims := validClaims(false, []string{"rady"})
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, claims, "test-secret")
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp(false)
	token := signToken(t, validClaims(false, []string{"rady"}), "test-secret")
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for valid token, got %d", resp.StatusCode)
	}
}

func TestAdminRequired_DeniesBrandSession(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp(true)
	token := signToken(t, validClaims(false, []string{"rady"}), "test-secret")
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403 for brand session, got %d", resp.StatusCode)
	}
}

func TestAdminRequired_AllowsAdmin(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp(true)
	token := signToken(t, validClaims(true, config.Brands), "test-secret")
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for admin session, got %d", resp.StatusCode)
	}
}

func TestCanAccessBrand(t *testing.T) {
	admin := validClaims(true, nil)
	if !CanAccessBrand(admin, "cherimi") {
		t.Fatal("admin should access every brand")
	}

	brand := validClaims(false, []string{"rady"})
	if !CanAccessBrand(brand, "rady") {
		t.Fatal("brand session should access its own brand")
	}
	if !CanAccessBrand(brand, "Rady") {
		t.Fatal("brand comparison should be case-insensitive")
	}
	if CanAccessBrand(brand, "cherimi") {
		t.Fatal("brand session should not access other brands")
	}
	if CanAccessBrand(nil, "rady") {
		t.Fatal("nil claims should never pass")
	}
}
