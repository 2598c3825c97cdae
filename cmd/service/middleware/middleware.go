package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taysluxe/tayai/app/core"
	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/app/response"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
)

const ACCESS_TOKEN_HEADER_KEY = "X-Access-Token"

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

func Cors(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept-Language, "+ACCESS_TOKEN_HEADER_KEY)
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// Authorization resolves the access token from the header, or from the query
// string for endpoints the browser can't set headers on (SSE, websocket).
func Authorization(core *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue := c.GetHeader(ACCESS_TOKEN_HEADER_KEY)
		if tokenValue == "" {
			tokenValue = c.Query("token")
		}
		if tokenValue == "" {
			response.APIError(c, errors.New("middleware.Authorization.nil", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		claims, err := v1.NewAuthLogic(c, core).GetTokenClaims(tokenValue)
		if err != nil {
			response.APIError(c, errors.Trace("middleware.Authorization", err))
			return
		}

		claims.Lang = response.GetLangFromRequestOrDefault(c)
		c.Set(v1.TOKEN_CONTEXT_KEY, claims)
	}
}

// AdminOnly sits behind Authorization and rejects non-admin callers before
// the handler runs.
func AdminOnly(c *gin.Context) {
	claims, ok := v1.InjectTokenClaim(c)
	if !ok || !claims.User.IsAdmin {
		response.APIError(c, errors.New("middleware.AdminOnly", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden))
		return
	}
	c.Next()
}

type LimiterFunc func(key string, opts ...core.LimitOption) gin.HandlerFunc

// UseLimit builds a rate-limit middleware keyed by genKey, backed by the
// plugin's limiter registry.
func UseLimit(appCore *core.Core, method string, genKey func(c *gin.Context) string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := genKey(c)
		if !appCore.UseLimiter(c, key, method, opts...).Allow() {
			response.APIError(c, errors.New("middleware.UseLimit."+method, i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
			return
		}
		c.Next()
	}
}
