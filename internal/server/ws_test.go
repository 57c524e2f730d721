package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/ayusman/fingerspell/internal/app"
)

func TestPredictionsHandler_Upgrade(t *testing.T) {
	a := app.New(app.Config{Heuristic: true})
	srv := New(Config{App: a})
	defer srv.Close()

	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/predictions"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	conn.Close()
}

func TestPredictionsHandler_Close(t *testing.T) {
	t.Run("stops the broadcast loop", func(t *testing.T) {
		a := app.New(app.Config{Heuristic: true})
		h := NewPredictionsHandler(a)

		h.Close()

		select {
		case <-h.done:
		default:
			t.Error("expected the done channel to be closed")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		a := app.New(app.Config{Heuristic: true})
		h := NewPredictionsHandler(a)

		h.Close()
		h.Close()
	})

	t.Run("server close reaches the handler", func(t *testing.T) {
		a := app.New(app.Config{Heuristic: true})
		srv := New(Config{App: a})

		srv.Close()
		srv.Close()

		select {
		case <-srv.predictions.done:
		default:
			t.Error("expected the broadcast loop to be stopped")
		}
	})
}
