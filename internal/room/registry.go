// internal/room/registry.go
//
// The Registry owns every live room. It is the single entry point for
// inbound player actions: create, join, start, guess, disconnect. The
// registry map has its own RWMutex for concurrent insertion/lookup; each
// room serializes its own mutation under the room mutex, so a guess landing
// at the same instant as a timer expiry cannot corrupt room state.

package room

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config carries the engine's timing and rule knobs.
type Config struct {
	RoundSeconds int           // countdown for a whole timed game
	MaxAttempts  int           // guesses per player per round
	ResetDelay   time.Duration // grace between round end and the next word
	LobbyDelay   time.Duration // grace between game over and the lobby
	Tick         time.Duration // timer resolution; one second in production
}

// DefaultConfig matches the timings the web client animates against.
func DefaultConfig() Config {
	return Config{
		RoundSeconds: 60,
		MaxAttempts:  6,
		ResetDelay:   3 * time.Second,
		LobbyDelay:   4 * time.Second,
		Tick:         time.Second,
	}
}

// Registry holds the live rooms.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	dict Dictionary
	cfg  Config
}

// NewRegistry constructs an empty registry. The dictionary must already be
// loaded; it is shared read-only by every room.
func NewRegistry(dict Dictionary, cfg Config) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		dict:  dict,
		cfg:   cfg,
	}
}

// lookup fetches a room by code.
func (r *Registry) lookup(roomID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[roomID]
	return rm, ok
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// codeAlphabet keeps room codes short, uppercase, and easy to share.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const codeLength = 6

func newRoomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b)
}

// CreateRoom creates a room owned by connID, tells the creator its code,
// and implicitly joins them. Returns the new room's code.
func (r *Registry) CreateRoom(connID, nickname string, s Sender) string {
	ctx, cancel := context.WithCancel(context.Background())
	rm := &Room{
		Host:     connID,
		Status:   StatusWaiting,
		TimeLeft: r.cfg.RoundSeconds,
		word:     r.dict.Pick(""),
		ctx:      ctx,
		cancel:   cancel,
	}

	r.mu.Lock()
	for {
		code := newRoomCode()
		if _, taken := r.rooms[code]; !taken {
			rm.ID = code
			r.rooms[code] = rm
			break
		}
	}
	r.mu.Unlock()

	log.Info().Str("room", rm.ID).Str("host", connID).Msg("room created")

	_ = s.Send(EventRoomCreated, rm.ID)
	r.Join(rm.ID, connID, nickname, s)
	return rm.ID
}

// Join inserts or updates the roster entry for connID. Re-joining with the
// same connection id updates the nickname in place instead of duplicating
// the entry. The whole room gets a fresh snapshot.
func (r *Registry) Join(roomID, connID, nickname string, s Sender) bool {
	rm, ok := r.lookup(roomID)
	if !ok {
		_ = s.Send(EventError, "Sala não encontrada")
		return false
	}

	rm.mu.Lock()
	if p := rm.player(connID); p != nil {
		p.Nickname = nickname
		p.sender = s
		p.connected = true
	} else {
		rm.Players = append(rm.Players, &Player{
			ID:        connID,
			Nickname:  nickname,
			connected: true,
			sender:    s,
		})
	}
	out := rm.toAll(EventUpdateRoom, rm.view())
	players := len(rm.Players)
	rm.mu.Unlock()

	log.Info().Str("room", roomID).Str("player", connID).
		Str("nickname", nickname).Int("players", players).Msg("player joined")

	deliver(out)
	return true
}

// Start begins the timed game. Only the host may start, and only from the
// lobby; anything else is a stale client action and is ignored. Every
// player's score and round state is wiped: a start is a new game.
func (r *Registry) Start(roomID, connID string, s Sender) {
	rm, ok := r.lookup(roomID)
	if !ok {
		_ = s.Send(EventError, "Sala não encontrada")
		return
	}

	rm.mu.Lock()
	if rm.Host != connID || rm.Status != StatusWaiting {
		rm.mu.Unlock()
		return
	}
	for _, p := range rm.Players {
		p.resetGame()
	}
	rm.Status = StatusPlaying
	rm.TimeLeft = r.cfg.RoundSeconds
	out := rm.toAll(EventUpdateRoom, rm.view())
	rm.mu.Unlock()

	log.Info().Str("room", roomID).Int("seconds", r.cfg.RoundSeconds).Msg("game started")

	deliver(out)
	go r.runTimer(rm)
}

// Leave detaches a connection from its room. The roster entry survives with
// its score, so a quick reconnect re-joins the same slot; once the last
// connected player is gone the room is torn down and its timer canceled.
func (r *Registry) Leave(roomID, connID string) {
	rm, ok := r.lookup(roomID)
	if !ok {
		return
	}

	rm.mu.Lock()
	p := rm.player(connID)
	if p == nil {
		rm.mu.Unlock()
		return
	}
	p.connected = false
	p.sender = nil
	empty := !rm.anyConnected()
	rm.mu.Unlock()

	log.Info().Str("room", roomID).Str("player", connID).Msg("player disconnected")

	if empty {
		r.remove(rm)
	}
}

// remove tears the room down: timer canceled via context, entry deleted.
func (r *Registry) remove(rm *Room) {
	rm.cancel()
	r.mu.Lock()
	delete(r.rooms, rm.ID)
	r.mu.Unlock()
	log.Info().Str("room", rm.ID).Msg("room removed")
}
