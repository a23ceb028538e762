package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"tekno-rank-service/internal/domain"
	"tekno-rank-service/internal/infra/memory"
	"tekno-rank-service/internal/query"
	"tekno-rank-service/internal/ranking"
)

func TestWSFeedPushesLeaderboard(t *testing.T) {
	backend := memory.NewBackend("relational")
	memory.SeedDemo(backend)
	router := query.NewRouter(nil, backend, time.Second)
	feed := NewWSFeed(ranking.NewEngine(router, nil, 500), 50*time.Millisecond)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/leaderboard", feed.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/leaderboard?scope=turkey&limit=10"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	typ, entries := readFeed(conn, t)
	if typ != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %s", typ)
	}
	if len(entries) != 3 || entries[0].Rank != 1 {
		t.Fatalf("unexpected snapshot: %+v", entries)
	}

	// Change the underlying data; the next tick must push a fresh board.
	backend.Seed("leaderboard", []query.Hit{
		{"student_id": "s-9", "full_name": "Yeni", "total_points": 2000.0},
	})

	typ, entries = readFeed(conn, t)
	if typ != "leaderboard" {
		t.Fatalf("expected leaderboard update, got %s", typ)
	}
	if len(entries) != 1 || entries[0].EntityID != "s-9" {
		t.Fatalf("expected refreshed board, got %+v", entries)
	}
}

func readFeed(conn *websocket.Conn, t *testing.T) (string, []domain.RankEntry) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	var entries []domain.RankEntry
	if msg.Type == "leaderboard" {
		if err := json.Unmarshal(msg.Payload, &entries); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
	}
	return msg.Type, entries
}
