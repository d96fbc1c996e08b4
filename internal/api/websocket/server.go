package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/tlebon/ccb-dashboard/internal/cache"
	"github.com/tlebon/ccb-dashboard/internal/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server pushes show and lineup updates to connected dashboard clients.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	cache  *cache.RedisCache
}

// NewServer creates a new WebSocket server
func NewServer(rc *cache.RedisCache) *Server {
	return &Server{
		hub:   NewHub(),
		cache: rc,
	}
}

// Start starts the WebSocket server and the Redis stream relay
func (s *Server) Start(ctx context.Context, port string) error {
	s.port = port

	// Start the hub in a goroutine
	go s.hub.Run()

	if s.cache != nil {
		go s.relayStreams(ctx)
	}

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/shows", s.handleShows)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleShows handles WebSocket connections for show updates
func (s *Server) handleShows(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// Broadcast sends a raw message to all connected clients
func (s *Server) Broadcast(data []byte) {
	s.hub.Broadcast(data)
}

// relayStreams tails the show and lineup streams and fans every entry
// out to connected clients. Read errors back off and retry; the loop
// ends with the context.
func (s *Server) relayStreams(ctx context.Context) {
	client := s.cache.Client()
	lastIDs := map[string]string{
		publisher.ShowUpdatesStream:   "$",
		publisher.LineupUpdatesStream: "$",
	}

	for {
		if ctx.Err() != nil {
			return
		}

		// XRead wants all stream names first, then their cursor IDs
		names := []string{publisher.ShowUpdatesStream, publisher.LineupUpdatesStream}
		streams := make([]string, 0, 2*len(names))
		streams = append(streams, names...)
		for _, name := range names {
			streams = append(streams, lastIDs[name])
		}

		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: streams,
			Block:   5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			log.Printf("[ws] Stream read failed: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}

		for _, result := range results {
			for _, msg := range result.Messages {
				lastIDs[result.Stream] = msg.ID
				if data, ok := msg.Values["data"].(string); ok {
					s.hub.Broadcast([]byte(data))
				}
			}
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
