package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/types"
	"github.com/taysluxe/tayai/pkg/utils"
)

const accessTokenLength = 64

type AuthLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAuthLogic(ctx context.Context, core *core.Core) *AuthLogic {
	return &AuthLogic{
		ctx:  ctx,
		core: core,
	}
}

// InitAdminUser creates the bootstrap admin account and returns its token.
func (l *AuthLogic) InitAdminUser() (string, error) {
	user := types.User{
		ID:       utils.GenUniqIDStr(),
		Email:    "admin@taysluxe.com",
		Username: "admin",
		Tier:     types.USER_TIER_VIP,
		IsActive: true,
		IsAdmin:  true,
	}
	if err := l.core.Store().UserStore().Create(l.ctx, user); err != nil {
		return "", errors.New("AuthLogic.InitAdminUser.UserStore.Create", i18n.ERROR_INTERNAL, err)
	}

	token, err := l.IssueToken(user.ID, 0)
	if err != nil {
		return "", errors.Trace("AuthLogic.InitAdminUser", err)
	}
	return token, nil
}

// IssueToken mints an access token; ttl zero means it never expires.
func (l *AuthLogic) IssueToken(userID string, ttl time.Duration) (string, error) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	token := utils.RandomStr(accessTokenLength)
	err := l.core.Store().AccessTokenStore().Create(l.ctx, types.AccessToken{
		ID:        utils.GenUniqID(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", errors.New("AuthLogic.IssueToken.AccessTokenStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return token, nil
}

// GetTokenClaims resolves a bearer token to the user behind it.
func (l *AuthLogic) GetTokenClaims(token string) (types.TokenClaims, error) {
	accessToken, err := l.core.Store().AccessTokenStore().GetAccessToken(l.ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.TokenClaims{}, errors.New("AuthLogic.GetTokenClaims.AccessTokenStore.GetAccessToken.nil", i18n.ERROR_INVALID_TOKEN, nil).Code(http.StatusUnauthorized)
		}
		return types.TokenClaims{}, errors.New("AuthLogic.GetTokenClaims.AccessTokenStore.GetAccessToken", i18n.ERROR_INTERNAL, err)
	}

	if accessToken.ExpiresAt > 0 && accessToken.ExpiresAt < time.Now().Unix() {
		return types.TokenClaims{}, errors.New("AuthLogic.GetTokenClaims.expired", i18n.ERROR_INVALID_TOKEN, nil).Code(http.StatusUnauthorized)
	}

	user, err := l.core.Store().UserStore().GetUser(l.ctx, accessToken.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.TokenClaims{}, errors.New("AuthLogic.GetTokenClaims.UserStore.GetUser.nil", i18n.ERROR_INVALID_ACCOUNT, nil).Code(http.StatusUnauthorized)
		}
		return types.TokenClaims{}, errors.New("AuthLogic.GetTokenClaims.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}

	if !user.IsActive {
		return types.TokenClaims{}, errors.New("AuthLogic.GetTokenClaims.inactive", i18n.ERROR_INVALID_ACCOUNT, nil).Code(http.StatusForbidden)
	}

	return types.TokenClaims{User: *user}, nil
}

// PurgeExpiredTokens drops tokens whose expiry has passed; zero-expiry tokens
// are permanent and kept.
func (l *AuthLogic) PurgeExpiredTokens() error {
	if err := l.core.Store().AccessTokenStore().DeleteExpired(l.ctx, time.Now().Unix()); err != nil {
		return errors.New("AuthLogic.PurgeExpiredTokens.AccessTokenStore.DeleteExpired", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
