package utils

import "strings"

var periodLabels = map[string]string{
	"yesterday": "前日",
	"3days":     "3日間",
	"weekly":    "週間",
}

// PeriodLabel returns the Japanese display label for a period type.
// Unknown period types are returned unchanged.
func PeriodLabel(periodType string) string {
	if label, ok := periodLabels[strings.ToLower(periodType)]; ok {
		return label
	}
	return periodType
}

// FormatDateRange joins two ISO dates into the range string the
// dashboard header shows. Either side may be empty.
func FormatDateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case start == end || end == "":
		return start
	case start == "":
		return end
	default:
		return start + " 〜 " + end
	}
}
