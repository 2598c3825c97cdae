package types

import (
	"fmt"
	"time"
)

// UsageRecord accumulates one user's consumption for a calendar month.
// Period bounds are unix timestamps of the first instant of the month and of
// the next month. Cost is tracked in integer micro-dollars.
type UsageRecord struct {
	UserID        string `json:"user_id" db:"user_id"`
	PeriodStart   int64  `json:"period_start" db:"period_start"`
	PeriodEnd     int64  `json:"period_end" db:"period_end"`
	MessagesCount int64  `json:"messages_count" db:"messages_count"`
	TokensUsed    int64  `json:"tokens_used" db:"tokens_used"`
	APICost       int64  `json:"api_cost" db:"api_cost"`
}

type UsageStatus struct {
	UserID        string `json:"user_id"`
	PeriodStart   int64  `json:"period_start"`
	PeriodEnd     int64  `json:"period_end"`
	MessagesCount int64  `json:"messages_count"`
	Limit         int64  `json:"limit"`
	Remaining     int64  `json:"remaining"`
	TokensUsed    int64  `json:"tokens_used"`
}

const UsageCounterTTL = time.Hour

// UsageCounterKey is the redis fast-path counter for the given month.
func UsageCounterKey(userID string, period time.Time) string {
	return fmt.Sprintf("usage:%s:%s", userID, period.UTC().Format("2006-01"))
}

// PeriodStartOf truncates t to the first instant of its month (UTC).
func PeriodStartOf(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodEndOf is the first instant of the following month.
func PeriodEndOf(t time.Time) time.Time {
	return PeriodStartOf(t).AddDate(0, 1, 0)
}
