package handlers

import (
	"context"
	"net/http"
	"time"

	"heating_controller/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12

	defaultPollInterval = 5 * time.Second
	minPollInterval     = 10 * time.Millisecond
	maxPollInterval     = time.Minute

	wsTypeTarget = "target"
	wsTypeError  = "error"
)

// wsEnvelope is the frame written to stream clients.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Target stream
// @Description  WebSocket upgrade. Sends {"type":"target","data":TargetView} on connect and again whenever the target or its summary changes. The target is re-evaluated every ?interval (Go duration, 10ms..1m, default 5s).
// @Tags         target
// @Param        interval  query  string  false  "Re-evaluation interval"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := pollInterval(c.Query("interval"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.drainReads(conn, done)

	ctx := c.Request.Context()
	last, err := h.pushTarget(ctx, conn, nil)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_initial_target_failed", "err", err)
		}
		return
	}

	poll := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer poll.Stop()
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-poll.C:
			if last, err = h.pushTarget(ctx, conn, last); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// pollInterval parses a Go duration within bounds, falling back to the default.
func pollInterval(s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d >= minPollInterval && d <= maxPollInterval {
		return d
	}
	return defaultPollInterval
}

// drainReads consumes control frames and closes done when the peer goes away.
func (h *Handler) drainReads(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// pushTarget computes the target and writes it when it differs from last.
// A compute failure is reported to the client as an error frame and
// returned; the returned view is what the client has last seen.
func (h *Handler) pushTarget(ctx context.Context, conn *websocket.Conn, last *models.TargetView) (*models.TargetView, error) {
	view, err := h.services.Target.Current(ctx, h.now())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_target_failed", "err", err)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: wsTypeError, Error: "failed to compute target"})
		return last, err
	}
	if last != nil && sameView(*last, view) {
		return last, nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: wsTypeTarget, Data: view}); err != nil {
		return last, err
	}
	return &view, nil
}

// sameView compares what a client displays; At always moves.
func sameView(a, b models.TargetView) bool {
	if a.Value != b.Value || a.HoldID != b.HoldID || a.FromSchedule != b.FromSchedule ||
		a.RuleID != b.RuleID || a.Summary != b.Summary || a.Timezone != b.Timezone {
		return false
	}
	if (a.NextChange == nil) != (b.NextChange == nil) {
		return false
	}
	return a.NextChange == nil || a.NextChange.Equal(*b.NextChange)
}
