// Local coordination server for manual testing of the sync client.
// Answers ping with pong, replies to sync_request with a state_update,
// and echoes every other event back to the sender.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inbound struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	flag.Parse()

	http.HandleFunc("/sync/ws/", handleSync)
	log.Printf("coordination server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

func handleSync(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/sync/ws/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		http.Error(w, "expected /sync/ws/{platform}/{userId}", http.StatusBadRequest)
		return
	}
	platform, userID := parts[0], parts[1]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("connected: platform=%s user=%s", platform, userID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("disconnected: platform=%s user=%s (%v)", platform, userID, err)
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("drop malformed message: %v", err)
			continue
		}

		switch msg.EventType {
		case "ping":
			write(conn, map[string]any{"type": "pong"})
		case "sync_request":
			write(conn, map[string]any{
				"type":      "state_update",
				"platform":  platform,
				"user_id":   userID,
				"data":      map[string]any{"mode": "idle"},
				"timestamp": now(),
				"event_id":  eventID(),
			})
		default:
			write(conn, map[string]any{
				"event_type": msg.EventType,
				"platform":   platform,
				"user_id":    userID,
				"data":       msg.Data,
				"timestamp":  now(),
				"event_id":   eventID(),
			})
		}
	}
}

func write(conn *websocket.Conn, payload any) {
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("write failed: %v", err)
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func eventID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}
