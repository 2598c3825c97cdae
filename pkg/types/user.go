package types

import "time"

type UserTier string

const (
	USER_TIER_BASIC UserTier = "basic"
	USER_TIER_VIP   UserTier = "vip"
)

const (
	// TrialDays is how long a basic account may chat before upgrading.
	TrialDays = 7

	MonthlyLimitBasic = 50
	MonthlyLimitVIP   = 1000
)

type User struct {
	ID         string   `json:"id" db:"id"`
	Email      string   `json:"email" db:"email"`
	Username   string   `json:"username" db:"username"`
	Tier       UserTier `json:"tier" db:"tier"`
	IsActive   bool     `json:"is_active" db:"is_active"`
	IsAdmin    bool     `json:"is_admin" db:"is_admin"`
	TrialEndAt int64    `json:"trial_end_at" db:"trial_end_at"`
	CreatedAt  int64    `json:"created_at" db:"created_at"`
	UpdatedAt  int64    `json:"updated_at" db:"updated_at"`
}

func (u User) MonthlyLimit() int64 {
	if u.Tier == USER_TIER_VIP {
		return MonthlyLimitVIP
	}
	return MonthlyLimitBasic
}

// TrialExpired only ever applies to basic members; trial end defaults to
// TrialDays after signup when the column was never set.
func (u User) TrialExpired(now time.Time) bool {
	if u.Tier == USER_TIER_VIP {
		return false
	}
	end := u.TrialEndAt
	if end == 0 {
		end = time.Unix(u.CreatedAt, 0).AddDate(0, 0, TrialDays).Unix()
	}
	return now.Unix() > end
}
