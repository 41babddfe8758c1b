package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// WSHandler answers report requests over a websocket so a dashboard can
// re-query as its top-N control changes without new HTTP round trips.
type WSHandler struct {
	reports     ReportBuilder
	defaultTopN int
	upgrader    websocket.Upgrader
}

func NewWSHandler(reports ReportBuilder, defaultTopN int) *WSHandler {
	return &WSHandler{
		reports:     reports,
		defaultTopN: defaultTopN,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type reportRequest struct {
	Dataset string `json:"dataset"`
	N       int    `json:"n"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and answers "report" messages.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// Single writer goroutine; gorilla connections allow one concurrent writer.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Warn("ws write error", "error", err)
				_ = conn.Close()
				return
			}
		}
	}()
	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "report":
			req := reportRequest{N: h.defaultTopN}
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &req); err != nil {
					emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid report payload"}})
					continue
				}
			}
			if req.N == 0 {
				req.N = h.defaultTopN
			}
			report, err := h.reports.Build(r.Context(), req.Dataset, req.N)
			if err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			emit(outboundMessage[any]{Type: "report", Payload: report})
		default:
			emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	close(send)
	<-writerDone
}
