// internal/gateway/gateway.go
//
// WebSocket session gateway: the transport boundary between clients and the
// room engine.
//
// Responsibilities:
//   - Upgrade HTTP connections and assign each an ephemeral connection id.
//   - Decode the JSON envelope {type, data} and route the four inbound
//     actions (create_room, join_room, start_game_command, submit_guess)
//     into the registry.
//   - Implement room.Sender: serialized writes per connection, so engine
//     broadcasts from different goroutines never interleave frames.
//   - Detach the connection from its room when the socket closes.
//
// The engine never sees a *websocket.Conn; it only talks to Sender.

package gateway

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pietrosantos15/termomultiplayer/internal/room"
)

// Gateway accepts websocket sessions and feeds their actions to the registry.
type Gateway struct {
	registry *room.Registry
	upgrader websocket.Upgrader
}

// New constructs a Gateway. Origin checking is left to the CORS layer, as
// the whole pack of clients (dev server, static hosting) shares the API.
func New(reg *room.Registry) *Gateway {
	return &Gateway{
		registry: reg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// message is the wire envelope in both directions. Inbound data stays raw
// until the action-specific payload shape is known.
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// outMessage mirrors message for writes, with an already-decoded payload.
type outMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound payload shapes, field names matching the web client.
type joinPayload struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
}

type guessPayload struct {
	RoomID string `json:"roomId"`
	Guess  string `json:"guess"`
}

// client is one live connection. roomID is only touched by the read pump,
// so it needs no lock; writes go through the mutex to keep frames whole.
type client struct {
	id     string
	conn   *websocket.Conn
	mu     sync.Mutex
	roomID string
}

// Send implements room.Sender.
func (c *client) Send(event string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(outMessage{Type: event, Data: data})
}

// Handle upgrades the request and runs the connection's read pump until the
// socket closes.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	log.Info().Str("conn", c.id).Msg("client connected")

	g.readPump(c)
}

// readPump decodes and routes inbound actions for one connection.
func (g *Gateway) readPump(c *client) {
	defer func() {
		c.conn.Close()
		if c.roomID != "" {
			g.registry.Leave(c.roomID, c.id)
		}
		log.Info().Str("conn", c.id).Msg("client disconnected")
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug().Str("conn", c.id).Err(err).Msg("malformed message")
			continue
		}

		switch msg.Type {
		case "create_room":
			var nickname string
			if err := json.Unmarshal(msg.Data, &nickname); err != nil {
				continue
			}
			c.roomID = g.registry.CreateRoom(c.id, nickname, c)

		case "join_room":
			var p joinPayload
			if err := json.Unmarshal(msg.Data, &p); err != nil {
				continue
			}
			if g.registry.Join(p.RoomID, c.id, p.Nickname, c) {
				c.roomID = p.RoomID
			}

		case "start_game_command":
			var roomID string
			if err := json.Unmarshal(msg.Data, &roomID); err != nil {
				continue
			}
			g.registry.Start(roomID, c.id, c)

		case "submit_guess":
			var p guessPayload
			if err := json.Unmarshal(msg.Data, &p); err != nil {
				continue
			}
			g.registry.SubmitGuess(p.RoomID, c.id, p.Guess, c)

		default:
			log.Debug().Str("conn", c.id).Str("type", msg.Type).Msg("unknown action")
		}
	}
}
