package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/grandplaza/roomvoice/pkg/config"
	"github.com/grandplaza/roomvoice/pkg/flow"
	"github.com/grandplaza/roomvoice/pkg/logger"
	"github.com/grandplaza/roomvoice/pkg/order"
	"github.com/grandplaza/roomvoice/pkg/response"
	"github.com/grandplaza/roomvoice/pkg/session"
	"github.com/grandplaza/roomvoice/pkg/speech"
)

var callUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// callFrame is one message on the call socket. Inbound frames carry a
// recognized guest utterance; outbound frames carry the assistant reply or
// the end-of-call notice.
type callFrame struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// HandleVoiceCall runs one room-service call over a websocket. The telephony
// side streams recognized utterances as text frames and speaks the replies.
func (h *Handlers) HandleVoiceCall(c *gin.Context) {
	externalID := c.Query("sessionId")

	gateway := order.NewGateway(h.submitter)
	manager := flow.NewManager(h.catalog, h.directory, gateway, config.GlobalConfig.RoomRetryLimit)

	provider, err := h.newProvider(manager)
	if err != nil {
		logger.Error("provider construction failed", zap.Error(err))
		response.Error(c, "no reasoning provider available")
		return
	}
	provider.RegisterTools(manager.Tools())
	provider.Reset()

	runner, err := session.Start(h.db, manager, gateway, externalID)
	if err != nil {
		response.Fail(c, "failed to open session: "+err.Error(), nil)
		return
	}

	conn, err := callUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", zap.Error(err))
		runner.Finalize(err)
		return
	}
	defer conn.Close()

	runCall(c.Request.Context(), conn, runner, manager, provider)
}

func runCall(ctx context.Context, conn *websocket.Conn, runner *session.Runner, manager *flow.Manager, provider speech.Provider) {
	defer runner.Recover()

	greeting := manager.Greeting()
	runner.AppendTurn("assistant", greeting)
	if err := conn.WriteJSON(callFrame{Type: "reply", Text: greeting, SessionID: runner.SessionID()}); err != nil {
		runner.Finalize(context.Canceled)
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// Guest hangup or transport loss.
			runner.Finalize(context.Canceled)
			return
		}

		var frame callFrame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Type != "utterance" {
			continue
		}
		runner.AppendTurn("guest", frame.Text)

		reply, err := provider.Respond(ctx, frame.Text)
		if err != nil {
			status := runner.Finalize(err)
			_ = conn.WriteJSON(callFrame{Type: "end", Status: string(status)})
			return
		}
		runner.AppendTurn("assistant", reply)
		if err := conn.WriteJSON(callFrame{Type: "reply", Text: reply}); err != nil {
			runner.Finalize(context.Canceled)
			return
		}

		if manager.Done() {
			status := runner.Finalize(nil)
			_ = conn.WriteJSON(callFrame{Type: "end", Status: string(status)})
			return
		}
	}
}
