package ga4

import "strings"

// channelNamesJa maps GA4 default channel groups to the labels the
// merchandising team reads.
var channelNamesJa = map[string]string{
	"Organic Search":  "自然検索",
	"Paid Search":     "有料検索",
	"Direct":          "直接流入",
	"Organic Social":  "SNS（オーガニック）",
	"Paid Social":     "SNS広告",
	"Email":           "メール",
	"Referral":        "参照サイト",
	"Display":         "ディスプレイ広告",
	"Affiliates":      "アフィリエイト",
	"Organic Video":   "動画（オーガニック）",
	"Paid Shopping":   "ショッピング広告",
	"Cross-network":   "クロスネットワーク",
	"Unassigned":      "未分類",
}

// sourceNamesJa maps common session sources to display names.
var sourceNamesJa = map[string]string{
	"google":          "Google検索",
	"yahoo":           "Yahoo!検索",
	"bing":            "Bing検索",
	"instagram":       "Instagram",
	"instagram.com":   "Instagram",
	"l.instagram.com": "Instagram",
	"facebook":        "Facebook",
	"m.facebook.com":  "Facebook",
	"twitter":         "X (Twitter)",
	"t.co":            "X (Twitter)",
	"line":            "LINE",
	"line.me":         "LINE",
	"youtube.com":     "YouTube",
	"(direct)":        "直接アクセス",
}

// TranslateChannelName returns the display label for a GA4 channel
// group, falling back to the raw name.
func TranslateChannelName(channel string) string {
	if ja, ok := channelNamesJa[channel]; ok {
		return ja
	}
	return channel
}

// TranslateSourceName returns the display label for a session source,
// falling back to the raw name.
func TranslateSourceName(source string) string {
	if ja, ok := sourceNamesJa[strings.ToLower(source)]; ok {
		return ja
	}
	return source
}
