package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/app/response"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/types/protocol"
	"github.com/taysluxe/tayai/pkg/utils"
)

type SendMessageRequest struct {
	Message        string `json:"message" binding:"required"`
	IncludeSources bool   `json:"include_sources"`
}

// SendMessage is the synchronous chat endpoint; the whole answer comes back
// in one response.
func (s *HttpSrv) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewChatLogic(c, s.Core).SendMessage(req.Message, req.IncludeSources)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}

// StreamMessage answers over SSE. Each stream event becomes one SSE event
// named after its type; failures after the stream opened surface as the
// terminal error event instead of an HTTP status.
func (s *HttpSrv) StreamMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	emit := func(ev protocol.StreamEvent) error {
		c.SSEvent(string(ev.Type), ev)
		c.Writer.Flush()
		return nil
	}

	if err := v1.NewChatLogic(c, s.Core).StreamMessage(req.Message, req.IncludeSources, emit); err != nil {
		emit(protocol.ErrorEvent(localizedError(c, err)))
	}
}

func localizedError(c *gin.Context, err error) string {
	if cerr, ok := err.(*errors.CustomizedError); ok {
		l := response.InjectResponseLocalizer(c)
		return l.Get(response.GetLangFromRequestOrDefault(c), cerr.Message())
	}
	return http.StatusText(http.StatusInternalServerError)
}

// ListChatHistory pages the caller's past exchanges.
func (s *HttpSrv) ListChatHistory(c *gin.Context) {
	page, pageSize := paging(c)

	list, total, err := v1.NewChatHistoryLogic(c, s.Core).ListMessages(page, pageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.ListResult{List: list, Total: total})
}

func (s *HttpSrv) ClearChatHistory(c *gin.Context) {
	if err := v1.NewChatHistoryLogic(c, s.Core).ClearHistory(); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
