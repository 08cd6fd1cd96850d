// internal/room/timer.go
//
// The per-room round timer: one goroutine per started game, ticking at the
// configured resolution. The countdown spans the whole timed game — a
// mid-game word reset pauses it (status is resetting) but never restarts
// it. Every tick re-checks that the room still exists before touching
// state, so a torn-down room can never be mutated by a dangling timer.

package room

import (
	"time"

	"github.com/rs/zerolog/log"
)

// runTimer drives a room's countdown until expiry, game end, or teardown.
func (r *Registry) runTimer(rm *Room) {
	ticker := time.NewTicker(r.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-rm.ctx.Done():
			return
		case <-ticker.C:
			if r.tick(rm) {
				return
			}
		}
	}
}

// tick advances the countdown by one step and reports whether the timer is
// done. The room lock serializes it against guess submissions, so an expiry
// and a winning guess in the same instant resolve in a defined order.
func (r *Registry) tick(rm *Room) (done bool) {
	r.mu.RLock()
	_, alive := r.rooms[rm.ID]
	r.mu.RUnlock()
	if !alive {
		return true
	}

	rm.mu.Lock()
	if rm.Status != StatusPlaying {
		// resetting pauses the countdown; anything past playing means
		// this game's timer has no more work.
		done = rm.Status == StatusFinished || rm.Status == StatusWaiting
		rm.mu.Unlock()
		return done
	}

	rm.TimeLeft--
	out := rm.toAll(EventTimerUpdate, rm.TimeLeft)

	if rm.TimeLeft > 0 {
		rm.mu.Unlock()
		deliver(out)
		return false
	}

	// Expiry: exactly one finished transition, then the timer stops.
	out = append(out, r.finishLocked(rm)...)
	rm.mu.Unlock()
	deliver(out)
	return true
}

// finishLocked runs the playing → finished transition: classify the final
// scores, reveal the secret, and schedule the return to the lobby. Caller
// holds rm.mu.
func (r *Registry) finishLocked(rm *Room) []delivery {
	rm.Status = StatusFinished

	result := classify(rm.Players)
	result.Word = rm.word

	log.Info().Str("room", rm.ID).Str("result", result.Type).
		Int("score", result.Score).Msg("game over")

	roomID := rm.ID
	time.AfterFunc(r.cfg.LobbyDelay, func() { r.backToLobby(roomID) })

	return rm.toAll(EventGameOver, result)
}
