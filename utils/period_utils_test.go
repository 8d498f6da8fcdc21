package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "前日", PeriodLabel("yesterday"))
	assert.Equal(t, "3日間", PeriodLabel("3days"))
	assert.Equal(t, "週間", PeriodLabel("weekly"))
	assert.Equal(t, "週間", PeriodLabel("Weekly"))
	assert.Equal(t, "monthly", PeriodLabel("monthly"))
}

func TestFormatDateRange(t *testing.T) {
	assert.Equal(t, "", FormatDateRange("", ""))
	assert.Equal(t, "2026-08-29", FormatDateRange("2026-08-29", "2026-08-29"))
	assert.Equal(t, "2026-08-29", FormatDateRange("2026-08-29", ""))
	assert.Equal(t, "2026-08-29", FormatDateRange("", "2026-08-29"))
	assert.Equal(t, "2026-08-23 〜 2026-08-29", FormatDateRange("2026-08-23", "2026-08-29"))
}
