package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fortuna/courtside/internal/games"
	"github.com/gorilla/websocket"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := NewServer()
	go s.Run(ctx)

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readBoard(t *testing.T, conn *websocket.Conn) BoardMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg BoardMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func TestNewSubscriberGetsLastBoard(t *testing.T) {
	s, url := startServer(t)

	if err := s.BroadcastBoard("20240613", []games.GameCard{{GameID: "401656363", Badges: []string{}}}); err != nil {
		t.Fatal(err)
	}

	msg := readBoard(t, dial(t, url))
	if msg.Type != "board" || msg.Date != "20240613" {
		t.Errorf("message = %+v", msg)
	}
	if len(msg.Games) != 1 || msg.Games[0].GameID != "401656363" {
		t.Errorf("games = %+v", msg.Games)
	}
}

func TestBroadcastReachesSubscribers(t *testing.T) {
	s, url := startServer(t)
	conn := dial(t, url)

	deadline := time.Now().Add(5 * time.Second)
	for s.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.BroadcastBoard("20240614", nil); err != nil {
		t.Fatal(err)
	}

	msg := readBoard(t, conn)
	if msg.Date != "20240614" {
		t.Errorf("date = %q", msg.Date)
	}
	if msg.Games == nil || len(msg.Games) != 0 {
		t.Errorf("expected an empty games list, got %+v", msg.Games)
	}
}

func TestSubscriberJoiningDuringBroadcastsSeesLatestBoard(t *testing.T) {
	s, url := startServer(t)

	dates := []string{"20240601", "20240602", "20240603", "20240604", "20240605", "20240606", "20240607", "20240608"}
	s.BroadcastBoard("20240531", nil)

	broadcasting := make(chan struct{})
	go func() {
		defer close(broadcasting)
		for _, d := range dates {
			s.BroadcastBoard(d, nil)
		}
	}()
	conn := dial(t, url)
	<-broadcasting

	var last string
	for {
		conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg BoardMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		last = msg.Date
	}
	if want := dates[len(dates)-1]; last != want {
		t.Errorf("last board seen = %q, want %q", last, want)
	}
}
