package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/fortuna/courtside/internal/games"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the board is public, same policy as the REST CORS headers
	},
}

// BoardMessage is pushed to subscribers whenever a board is rebuilt.
type BoardMessage struct {
	Type  string           `json:"type"`
	Date  string           `json:"date"`
	Games []games.GameCard `json:"games"`
}

// Server pushes assembled boards to websocket subscribers. New subscribers
// receive the most recent board immediately.
type Server struct {
	hub *Hub

	mu   sync.Mutex
	last []byte
}

// NewServer creates a websocket server. Run must be started before clients
// connect.
func NewServer() *Server {
	return &Server{hub: NewHub()}
}

// Run serves the hub until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

// ServeHTTP upgrades the request and subscribes the connection to boards.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	// Holding mu until the hub has the client orders the snapshot before any
	// later broadcast.
	s.mu.Lock()
	if s.last != nil {
		client.send <- s.last
	}
	added := s.hub.add(client)
	s.mu.Unlock()

	if !added {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// HandleHealth reports the subscriber count.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// BroadcastBoard sends a board to every subscriber and keeps it as the
// snapshot for new ones.
func (s *Server) BroadcastBoard(date string, cards []games.GameCard) error {
	if cards == nil {
		cards = []games.GameCard{}
	}
	data, err := json.Marshal(BoardMessage{Type: "board", Date: date, Games: cards})
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = data
	s.hub.Broadcast(data)
	return nil
}

// ClientCount returns the number of connected subscribers.
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}
