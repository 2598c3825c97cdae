package v1

import (
	"context"
	"log/slog"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/types"
)

const TOKEN_CONTEXT_KEY = "__tayai.access_token"

func InjectTokenClaim(ctx context.Context) (types.TokenClaims, bool) {
	claims, ok := ctx.Value(TOKEN_CONTEXT_KEY).(types.TokenClaims)
	return claims, ok
}

type UserInfo interface {
	GetUserInfo() types.TokenClaims
}

type _userInfo struct {
	u *types.TokenClaims
}

func (u *_userInfo) GetUserInfo() types.TokenClaims {
	return *u.u
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = types.TokenClaims{}
	}
	return &_userInfo{
		u: &userInfo,
	}
}
