package trade_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
	"github.com/TsigelnikovNikita/mySwap/internal/custody"
	"github.com/TsigelnikovNikita/mySwap/internal/metrics"
	"github.com/TsigelnikovNikita/mySwap/internal/store"
	"github.com/TsigelnikovNikita/mySwap/internal/trade"
)

func TestWSHub_BroadcastsPoolEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := trade.NewWSHub()
	go hub.Run(ctx)

	svc := trade.NewService(store.NewMemoryStore(), custody.NewBank(), cpmm.DefaultFee, hub)
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ws", hub.HandleWS)
		svc.Routes(r)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(metrics.WebSocketClients) < 1 {
		if time.Now().After(deadline) {
			t.Fatal("client was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	body, _ := json.Marshal(trade.CreatePoolRequest{
		Token: "WSTK",
		Owner: "0x00000000000000000000000000000000000000aa",
	})
	resp, err := http.Post(srv.URL+"/api/v1/pools", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create pool status = %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg trade.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	if msg.Type != "pool_created" {
		t.Errorf("type = %q, want pool_created", msg.Type)
	}
	if msg.Token != "WSTK" {
		t.Errorf("token = %q, want WSTK", msg.Token)
	}
	if msg.BaseReserve != "0" || msg.TokenReserve != "0" {
		t.Errorf("reserves = %s/%s, want 0/0", msg.BaseReserve, msg.TokenReserve)
	}

	cancel()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected connection to close after hub shutdown")
	}
}
