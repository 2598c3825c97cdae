package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/ai"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/types"
)

type UsageLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewUsageLogic(ctx context.Context, core *core.Core) *UsageLogic {
	return &UsageLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// CheckQuota rejects the message before any model spend happens. The redis
// counter is only a fast path; on a miss the database row is authoritative
// and re-seeds the counter.
func (l *UsageLogic) CheckQuota(user types.User) error {
	now := time.Now()
	if user.TrialExpired(now) {
		return errors.New("UsageLogic.CheckQuota.trial", i18n.ERROR_TRIAL_EXPIRED, nil).Code(http.StatusForbidden)
	}

	count, err := l.currentCount(user.ID, now)
	if err != nil {
		return errors.Trace("UsageLogic.CheckQuota", err)
	}

	if count >= user.MonthlyLimit() {
		l.core.Metrics().UsageLimitDeniedInc(string(user.Tier))
		return errors.New("UsageLogic.CheckQuota.limit", i18n.ERROR_USAGE_LIMIT_EXCEEDED, nil).Code(http.StatusTooManyRequests)
	}
	return nil
}

func (l *UsageLogic) currentCount(userID string, now time.Time) (int64, error) {
	key := types.UsageCounterKey(userID, now)

	if raw, err := l.core.Store().Cache().Get(l.ctx, key); err == nil && raw != "" {
		if count, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return count, nil
		}
	}

	record, err := l.core.Store().UsageStore().GetPeriod(l.ctx, userID, types.PeriodStartOf(now).Unix())
	if err != nil && err != sql.ErrNoRows {
		return 0, errors.New("UsageLogic.currentCount.UsageStore.GetPeriod", i18n.ERROR_INTERNAL, err)
	}

	var count int64
	if record != nil {
		count = record.MessagesCount
	}

	if err := l.core.Store().Cache().SetEx(l.ctx, key, strconv.FormatInt(count, 10), types.UsageCounterTTL); err != nil {
		slog.Error("Failed to seed usage counter", slog.String("key", key), slog.Any("error", err))
	}
	return count, nil
}

// Record persists one exchange's consumption. The database upsert is the
// source of truth; the redis counter is advanced best effort and any failure
// here is logged, never surfaced to the chat flow.
func (l *UsageLogic) Record(userID string, usage *openai.Usage) {
	now := time.Now()
	var tokens int64
	if usage != nil {
		tokens = int64(usage.TotalTokens)
	}

	err := l.core.Store().UsageStore().Increment(l.ctx, userID,
		types.PeriodStartOf(now).Unix(), types.PeriodEndOf(now).Unix(),
		1, tokens, ai.CostMicrodollars(usage))
	if err != nil {
		slog.Error("Failed to record usage", slog.String("user_id", userID), slog.Any("error", err))
		return
	}

	key := types.UsageCounterKey(userID, now)
	if _, err := l.core.Store().Cache().Incr(l.ctx, key); err != nil {
		slog.Error("Failed to bump usage counter", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := l.core.Store().Cache().Expire(l.ctx, key, types.UsageCounterTTL); err != nil {
		slog.Error("Failed to refresh usage counter ttl", slog.String("key", key), slog.Any("error", err))
	}
}

// Status reports the caller's consumption for the current period.
func (l *UsageLogic) Status() (types.UsageStatus, error) {
	user := l.GetUserInfo().User
	now := time.Now()
	periodStart := types.PeriodStartOf(now)

	record, err := l.core.Store().UsageStore().GetPeriod(l.ctx, user.ID, periodStart.Unix())
	if err != nil && err != sql.ErrNoRows {
		return types.UsageStatus{}, errors.New("UsageLogic.Status.UsageStore.GetPeriod", i18n.ERROR_INTERNAL, err)
	}

	status := types.UsageStatus{
		UserID:      user.ID,
		PeriodStart: periodStart.Unix(),
		PeriodEnd:   types.PeriodEndOf(now).Unix(),
		Limit:       user.MonthlyLimit(),
	}
	if record != nil {
		status.MessagesCount = record.MessagesCount
		status.TokensUsed = record.TokensUsed
	}
	status.Remaining = status.Limit - status.MessagesCount
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	return status, nil
}
