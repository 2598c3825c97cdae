package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/utils"
)

const (
	RequestIDKey = "request_id"
	ResponseKey  = "response_key"
)

func ProvideResponseLocalizer(l i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("i18n", l)
	}
}

func InjectResponseLocalizer(c *gin.Context) i18n.Localizer {
	return c.MustGet("i18n").(i18n.Localizer)
}

type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data"`
}

type Meta struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// ListResult is the envelope for paged endpoints.
type ListResult struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
}

func GetLangFromRequestOrDefault(c *gin.Context) string {
	lang := c.Request.Header.Get("Accept-Language")
	if i18n.ALLOW_LANG[lang] {
		return lang
	}
	return i18n.DEFAULT_LANG
}

func APIError(c *gin.Context, err error) {
	c.Abort()
	l := InjectResponseLocalizer(c)

	res := c.MustGet(ResponseKey).(*Response)
	if cerr, ok := err.(*errors.CustomizedError); !ok {
		res.Meta.Code = http.StatusInternalServerError
		res.Meta.Message = err.Error()
	} else {
		res.Meta.Code = cerr.GetCode()
		res.Meta.Message = l.Get(GetLangFromRequestOrDefault(c), cerr.Message())
	}

	c.JSON(res.Meta.Code, res)

	slog.Error("response error",
		slog.String("request_uri", c.Request.URL.Path),
		slog.Int("code", res.Meta.Code),
		slog.String("error", err.Error()),
	)
}

func APISuccess(c *gin.Context, response interface{}) {
	c.Abort()
	res := c.MustGet(ResponseKey).(*Response)
	if response != nil {
		res.Data = response
	}
	c.JSON(http.StatusOK, res)
}

func NewResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ResponseKey, &Response{
			Meta: Meta{
				RequestID: utils.GenRandomID(),
			},
		})
	}
}
