package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"stocklens/middleware"
	"stocklens/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// HandleInsights asks Gemini for a short written analysis of the
// active period, scoped to the brands the caller may see.
// POST /api/v1/insights
func (a *API) HandleInsights(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "AI insights are not configured"})
	}

	res := a.Store.ActiveResult()
	if res == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No analysis data loaded"})
	}

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
	if len(summaries) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No brand data available"})
	}

	anomalyBrand := "all"
	if !claims.IsAdmin && len(claims.Brands) == 1 {
		anomalyBrand = claims.Brands[0]
	}
	anomalies := res.Anomalies(anomalyBrand, 5)

	prompt := constructInsightsPrompt(a.Store.ActivePeriodType(), summaries, anomalies)

	ctx := c.Context()
	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to connect to AI service"})
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Error from Gemini API: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate insights"})
	}

	insights, err := parseInsightsResponse(resp)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"generated_at": time.Now(),
		"insights":     insights,
	})
}

// constructInsightsPrompt summarizes the period numbers into a prompt
// asking for merchandiser-facing commentary in Japanese.
func constructInsightsPrompt(periodType string, summaries []models.BrandSummary, anomalies models.AnomalyReport) string {
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "- %s: revenue %.0f JPY, purchases %d, views %d, CVR %.2f%%, stock %d, problem items %d, opportunity items %d\n",
			s.Brand, s.TotalRevenue, s.TotalPurchases, s.TotalViews, s.OverallCVR, s.TotalStock, s.ProblemCount, s.OpportunityCount)
	}

	anomalyStr := ""
	for _, item := range anomalies.Rising {
		anomalyStr += fmt.Sprintf("- RISING %s (%s): views %+.0f%%, purchases %+.0f%%\n", item.ProductName, item.Brand, item.DeltaViewsPct, item.DeltaPurchasesPct)
	}
	for _, item := range anomalies.Warning {
		anomalyStr += fmt.Sprintf("- WARNING %s (%s): views %+.0f%%, purchases %+.0f%%, stock %d\n", item.ProductName, item.Brand, item.DeltaViewsPct, item.DeltaPurchasesPct, item.TotalStock)
	}
	if anomalyStr == "" {
		anomalyStr = "No notable movement detected.\n"
	}

	jsonFormat := `{"summary":"string","highlights":["string",...],"actions":["string",...]}`

	return fmt.Sprintf(`
        You are an experienced e-commerce merchandiser for Japanese fashion brands. Analyze the following period summary and write concise, practical commentary in Japanese.

        **Period:** %s
        **Today's Date:** %s

        **Brand Summary:**
        %s
        **Notable Product Movement:**
        %s
        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, periodType, time.Now().Format("2006-01-02"), b.String(), anomalyStr, jsonFormat)
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

// parseInsightsResponse pulls the JSON payload out of the model reply.
func parseInsightsResponse(resp *genai.GenerateContentResponse) (*models.InsightsResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content received from AI")
	}

	var geminiText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			geminiText += string(txt)
		}
	}
	if geminiText == "" {
		return nil, fmt.Errorf("no text content received from AI")
	}

	jsonStr := extractJSON(geminiText)
	if jsonStr == "" {
		log.Printf("Could not extract JSON from Gemini response: %s", geminiText)
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var insights models.InsightsResponse
	if err := json.Unmarshal([]byte(jsonStr), &insights); err != nil {
		log.Printf("Error parsing Gemini JSON: %v\nRaw JSON: %s", err, jsonStr)
		return nil, fmt.Errorf("failed to parse AI insights data")
	}
	return &insights, nil
}
