package domain

// UsagePeriod is the activity of the current billing period.
type UsagePeriod struct {
	PeriodStart        string `json:"periodStart"`
	PeriodEnd          string `json:"periodEnd"`
	ScreenshotsCount   int    `json:"screenshotsCount"`
	BandwidthFormatted string `json:"bandwidthFormatted"`
}

// ScreenshotQuota counts captures against the plan limit.
type ScreenshotQuota struct {
	Used        int `json:"used"`
	Limit       int `json:"limit"`
	Remaining   int `json:"remaining"`
	PercentUsed int `json:"percentUsed"`
}

// BandwidthQuota measures transfer against the plan limit.
type BandwidthQuota struct {
	UsedBytes      int64  `json:"usedBytes"`
	LimitBytes     int64  `json:"limitBytes"`
	UsedFormatted  string `json:"usedFormatted"`
	LimitFormatted string `json:"limitFormatted"`
	PercentUsed    int    `json:"percentUsed"`
}

// Quota groups the plan limits.
type Quota struct {
	Screenshots ScreenshotQuota `json:"screenshots"`
	Bandwidth   BandwidthQuota  `json:"bandwidth"`
}

// UsageHistoryEntry is a past billing period.
type UsageHistoryEntry struct {
	PeriodStart      string `json:"periodStart,omitempty"`
	ScreenshotsCount int    `json:"screenshotsCount"`
}

// UsageTotals is all-time activity.
type UsageTotals struct {
	ScreenshotsCount   int64  `json:"screenshotsCount"`
	BandwidthFormatted string `json:"bandwidthFormatted"`
}

// Usage is the account activity report.
type Usage struct {
	Tier          string              `json:"tier"`
	CurrentPeriod UsagePeriod         `json:"currentPeriod"`
	Quota         *Quota              `json:"quota,omitempty"`
	History       []UsageHistoryEntry `json:"history,omitempty"`
	Totals        *UsageTotals        `json:"totals,omitempty"`
}

// QuotaStatus is the short quota view.
type QuotaStatus struct {
	Tier        string          `json:"tier"`
	Screenshots ScreenshotQuota `json:"screenshots"`
	Bandwidth   BandwidthQuota  `json:"bandwidth"`
	PeriodEnds  string          `json:"periodEnds,omitempty"`
}
