package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/taysluxe/tayai/app/core"
	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/app/response"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/types/protocol"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsChatRequest struct {
	Message        string `json:"message"`
	IncludeSources bool   `json:"include_sources"`
}

// Websocket runs chat over a websocket: each client frame is one question,
// answered by the same event sequence the SSE endpoint emits, as JSON
// frames. One question streams at a time per connection.
func Websocket(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("Websocket upgrade failed", slog.String("error", err.Error()))
			response.APIError(c, errors.New("api.Websocket.Upgrade", "failed to upgrade http", err))
			return
		}
		defer ws.Close()

		emit := func(ev protocol.StreamEvent) error {
			return ws.WriteJSON(ev)
		}

		for {
			var req wsChatRequest
			if err := ws.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Error("Websocket read failed", slog.String("error", err.Error()))
				}
				return
			}

			if err := v1.NewChatLogic(c, appCore).StreamMessage(req.Message, req.IncludeSources, emit); err != nil {
				if writeErr := emit(protocol.ErrorEvent(localizedError(c, err))); writeErr != nil {
					return
				}
			}
		}
	}
}
