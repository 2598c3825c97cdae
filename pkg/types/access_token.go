package types

type AccessToken struct {
	ID        int64  `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	Token     string `json:"token" db:"token"`
	ExpiresAt int64  `json:"expires_at" db:"expires_at"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// TokenClaims is what the auth middleware puts into the request context.
type TokenClaims struct {
	User User
	Lang string
}
