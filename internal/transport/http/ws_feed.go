package http

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tekno-rank-service/internal/ranking"
)

// WSFeed pushes leaderboard snapshots to websocket clients on an interval,
// replacing client-side polling. Each connection carries its own scope
// parameters; unchanged boards are not re-sent.
type WSFeed struct {
	engine   *ranking.Engine
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewWSFeed(engine *ranking.Engine, interval time.Duration) *WSFeed {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &WSFeed{
		engine:   engine,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type feedMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS upgrades the request and streams the scoped leaderboard until
// the client disconnects.
func (f *WSFeed) ServeWS(w http.ResponseWriter, r *http.Request) {
	params := leaderboardParams(r)

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Reader goroutine only detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var last []byte
	push := func() bool {
		entries, err := f.engine.Leaderboard(r.Context(), params)
		if err != nil {
			if writeErr := conn.WriteJSON(feedMessage{Type: "error", Payload: map[string]string{"message": "rankings temporarily unavailable"}}); writeErr != nil {
				return false
			}
			return true
		}
		raw, err := json.Marshal(entries)
		if err != nil {
			return true
		}
		if bytes.Equal(raw, last) {
			return true
		}
		last = raw
		if err := conn.WriteJSON(feedMessage{Type: "leaderboard", Payload: json.RawMessage(raw)}); err != nil {
			log.Printf("ws write error: %v", err)
			return false
		}
		return true
	}

	if !push() {
		return
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !push() {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
