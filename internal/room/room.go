// internal/room/room.go
//
// Room and player state for the multiplayer Termo engine.
//
// A Room is an isolated game session: roster, secret word, status machine,
// and countdown. All mutation of a room happens under its mutex, driven by
// the Registry handlers and the round timer; nothing outside this package
// touches a Room directly.
//
// Status machine:
//
//	waiting → playing → resetting → playing   (round loop: solve / all out)
//	          playing → finished → waiting    (countdown expiry)
//
// Broadcasting contract: handlers build deliveries while holding the room
// lock (snapshotting any mutable data) and flush them after unlocking, so a
// slow client connection can never stall the room.

package room

import (
	"context"
	"sync"

	"github.com/pietrosantos15/termomultiplayer/internal/game"
)

// Status is the room's position in the session state machine.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusResetting Status = "resetting"
	StatusFinished  Status = "finished"
)

// Outbound event names, as consumed by the web client.
const (
	EventRoomCreated   = "room_created"
	EventUpdateRoom    = "update_room"
	EventTimerUpdate   = "timer_update"
	EventGuessFeedback = "guess_feedback"
	EventRoundWinner   = "round_winner_alert"
	EventWordSkipped   = "word_skipped_alert"
	EventEliminated    = "eliminated_round"
	EventInvalidWord   = "invalid_word_alert"
	EventResetBoard    = "reset_board_force"
	EventGameOver      = "game_over"
	EventBackToLobby   = "back_to_lobby"
	EventError         = "error"
)

// Sender delivers one event to a single connected client. The transport
// (websocket gateway, test fake) provides the implementation.
type Sender interface {
	Send(event string, data any) error
}

// Dictionary is the word source the engine draws secrets from and validates
// guesses against. Implemented by words.List.
type Dictionary interface {
	// Pick returns a random answer, never equal to excluding while the
	// pool has more than one entry.
	Pick(excluding string) string
	// Validate maps a raw guess to its canonical accented form.
	Validate(raw string) (string, bool)
}

// Player is one roster entry, keyed by its connection identifier.
type Player struct {
	ID         string
	Nickname   string
	Score      int
	Attempts   int
	Eliminated bool
	Guesses    []game.Guess

	connected bool
	sender    Sender
}

// resetRound clears the per-round fields: attempts, guesses, elimination.
// Score survives; it belongs to the game, not the round.
func (p *Player) resetRound() {
	p.Attempts = 0
	p.Eliminated = false
	p.Guesses = nil
}

// resetGame additionally clears the score. Only a fresh game start may do
// this; conflating it with resetRound wipes scores on every word change.
func (p *Player) resetGame() {
	p.resetRound()
	p.Score = 0
}

// history returns a stable copy of the player's guesses for delivery
// outside the room lock.
func (p *Player) history() []game.Guess {
	return append([]game.Guess(nil), p.Guesses...)
}

// Room is a single game session.
type Room struct {
	ID       string
	Host     string // connection id of the creator; only the host starts games
	Status   Status
	TimeLeft int
	Players  []*Player // join order

	word string // current secret, canonical accented form; never serialized

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// player finds a roster entry by connection id. Caller holds rm.mu.
func (rm *Room) player(connID string) *Player {
	for _, p := range rm.Players {
		if p.ID == connID {
			return p
		}
	}
	return nil
}

// activeRemaining reports whether any connected player can still guess.
// Caller holds rm.mu.
func (rm *Room) activeRemaining() bool {
	for _, p := range rm.Players {
		if p.connected && !p.Eliminated {
			return true
		}
	}
	return false
}

// anyConnected reports whether at least one client is still attached.
// Caller holds rm.mu.
func (rm *Room) anyConnected() bool {
	for _, p := range rm.Players {
		if p.connected {
			return true
		}
	}
	return false
}

// ----------------------------- snapshots -----------------------------------

// PlayerView is the broadcast shape of a roster entry.
type PlayerView struct {
	ID         string       `json:"id"`
	Nickname   string       `json:"nickname"`
	Score      int          `json:"score"`
	Attempts   int          `json:"attempts"`
	Eliminated bool         `json:"eliminated"`
	Guesses    []game.Guess `json:"guesses"`
}

// View is the broadcast shape of a room. The secret word is deliberately
// absent: it is only ever revealed inside round-end and game-over events.
type View struct {
	ID       string       `json:"id"`
	Host     string       `json:"host"`
	Players  []PlayerView `json:"players"`
	Status   Status       `json:"status"`
	TimeLeft int          `json:"timeLeft"`
}

// view deep-copies the room into a View. Caller holds rm.mu; the result is
// safe to serialize after the lock is released.
func (rm *Room) view() View {
	players := make([]PlayerView, 0, len(rm.Players))
	for _, p := range rm.Players {
		gs := p.Guesses
		if gs == nil {
			gs = []game.Guess{}
		}
		players = append(players, PlayerView{
			ID:         p.ID,
			Nickname:   p.Nickname,
			Score:      p.Score,
			Attempts:   p.Attempts,
			Eliminated: p.Eliminated,
			Guesses:    append([]game.Guess{}, gs...),
		})
	}
	return View{
		ID:       rm.ID,
		Host:     rm.Host,
		Players:  players,
		Status:   rm.Status,
		TimeLeft: rm.TimeLeft,
	}
}

// ----------------------------- deliveries ----------------------------------

// delivery is one pending outbound event, flushed after the room lock is
// released.
type delivery struct {
	to    Sender
	event string
	data  any
}

// toAll queues event for every connected player. Caller holds rm.mu.
func (rm *Room) toAll(event string, data any) []delivery {
	ds := make([]delivery, 0, len(rm.Players))
	for _, p := range rm.Players {
		if p.connected && p.sender != nil {
			ds = append(ds, delivery{p.sender, event, data})
		}
	}
	return ds
}

// toPlayer queues event for a single player, if still attached.
func toPlayer(p *Player, event string, data any) []delivery {
	if p == nil || !p.connected || p.sender == nil {
		return nil
	}
	return []delivery{{p.sender, event, data}}
}

// deliver flushes queued events. Must be called without any locks held;
// send errors are the transport's problem, not the engine's.
func deliver(ds []delivery) {
	for _, d := range ds {
		_ = d.to.Send(d.event, d.data)
	}
}
