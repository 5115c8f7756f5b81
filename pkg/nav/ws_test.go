package nav_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/routekit-go/routekit/pkg/nav"
)

// wsPair upgrades one connection through an httptest server and returns
// both ends.
func wsPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(time.Second):
		t.Fatal("server connection never arrived")
	}
	t.Cleanup(func() { server.Close() })
	return server, client
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var f map[string]string
	if err := json.Unmarshal(msg, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func TestWSHistoryWritesNavFrames(t *testing.T) {
	server, client := wsPair(t)
	hist := nav.NewWSHistory(server, "/home", nav.DefaultWSHistoryConfig())

	if err := hist.Push("/users/42", "Users"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	f := readFrame(t, client)
	if f["type"] != "NAV_PUSH" || f["path"] != "/users/42" || f["title"] != "Users" {
		t.Errorf("push frame = %v", f)
	}
	if hist.Current() != "/users/42" {
		t.Errorf("Current = %q, want %q", hist.Current(), "/users/42")
	}

	if err := hist.Replace("/users/7", ""); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if f := readFrame(t, client); f["type"] != "NAV_REPLACE" || f["path"] != "/users/7" {
		t.Errorf("replace frame = %v", f)
	}

	if err := hist.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if f := readFrame(t, client); f["type"] != "NAV_BACK" {
		t.Errorf("back frame = %v", f)
	}
}

func TestWSHistoryReadLoopDeliversIntents(t *testing.T) {
	server, client := wsPair(t)
	hist := nav.NewWSHistory(server, "/home", nav.DefaultWSHistoryConfig())

	done := make(chan error, 1)
	go func() { done <- hist.ReadLoop(context.Background()) }()

	payload := `{"type":"INTENT","path":"/users/42"}`
	if err := client.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write intent: %v", err)
	}

	select {
	case path := <-hist.Intents():
		if path != "/users/42" {
			t.Errorf("intent = %q, want %q", path, "/users/42")
		}
	case <-time.After(time.Second):
		t.Fatal("intent never delivered")
	}
	if hist.Current() != "/users/42" {
		t.Errorf("Current = %q, want %q", hist.Current(), "/users/42")
	}

	// A clean client close ends the loop without error and closes the
	// intent channel.
	client.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	client.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ReadLoop = %v, want nil on normal close", err)
		}
	case <-time.After(time.Second):
		t.Fatal("ReadLoop never returned")
	}

	if _, ok := <-hist.Intents(); ok {
		t.Error("intent channel still open after ReadLoop returned")
	}
}
