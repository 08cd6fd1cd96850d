// internal/room/guess.go
//
// Guess submission and the round transitions it can trigger.
//
// A submission runs entirely under the room lock: validate against the
// dictionary, score against the secret, then resolve whichever transition
// applies — win, elimination, full wipe-out, or a plain roster update.
// Rejections never consume an attempt and stay private to the submitter.

package room

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pietrosantos15/termomultiplayer/internal/game"
)

// RoundWinnerData reveals the solved word alongside the winner's nickname.
type RoundWinnerData struct {
	Winner string `json:"winner"`
	Word   string `json:"word"`
}

// GameOverData is the terminal payload for a timed game. Exactly one of
// Winner/Winners is set for win/draw; fail carries only the message. The
// secret word is always revealed here.
type GameOverData struct {
	Type    string   `json:"type"` // "win" | "draw" | "fail"
	Winner  string   `json:"winner,omitempty"`
	Winners []string `json:"winners,omitempty"`
	Score   int      `json:"score,omitempty"`
	Message string   `json:"message,omitempty"`
	Word    string   `json:"word"`
}

// SubmitGuess drives one guess from connID through validation, evaluation,
// and state transition. Preconditions that fail (room not playing, player
// eliminated or unknown) follow the error taxonomy: not-found is signaled
// to the origin only, stale actions are silently dropped.
func (r *Registry) SubmitGuess(roomID, connID, raw string, s Sender) {
	rm, ok := r.lookup(roomID)
	if !ok {
		_ = s.Send(EventError, "Sala não encontrada")
		return
	}

	rm.mu.Lock()
	if rm.Status != StatusPlaying {
		// Late guess against a resetting/finished/lobby room.
		rm.mu.Unlock()
		return
	}
	p := rm.player(connID)
	if p == nil {
		rm.mu.Unlock()
		_ = s.Send(EventError, "Jogador não está na sala")
		return
	}
	if p.Eliminated {
		rm.mu.Unlock()
		return
	}

	canonical, valid := r.dict.Validate(raw)
	if !valid {
		// Not a word: no attempt consumed, no broadcast.
		out := toPlayer(p, EventInvalidWord, "Palavra desconhecida!")
		rm.mu.Unlock()
		deliver(out)
		return
	}

	p.Attempts++
	colors := game.Evaluate(rm.word, canonical)
	p.Guesses = append(p.Guesses, game.Guess{Word: canonical, Colors: colors})

	log.Debug().Str("room", roomID).Str("player", connID).
		Str("guess", canonical).Int("attempts", p.Attempts).Msg("guess accepted")

	// Solved: score the winner, reveal the word, schedule the next round.
	if canonical == rm.word {
		rm.Status = StatusResetting
		p.Score++
		out := toPlayer(p, EventGuessFeedback, p.history())
		out = append(out, rm.toAll(EventRoundWinner, RoundWinnerData{
			Winner: p.Nickname,
			Word:   rm.word,
		})...)
		rm.mu.Unlock()

		log.Info().Str("room", roomID).Str("winner", connID).Msg("round solved")

		deliver(out)
		time.AfterFunc(r.cfg.ResetDelay, func() { r.nextWord(roomID) })
		return
	}

	justEliminated := false
	if p.Attempts >= r.cfg.MaxAttempts {
		p.Eliminated = true
		justEliminated = true
	}

	// Everyone out: skip the word through the same delayed reset path a
	// win takes, revealing the secret to the whole room.
	if !rm.activeRemaining() {
		rm.Status = StatusResetting
		msg := fmt.Sprintf("Ninguém acertou! A palavra era: %s", rm.word)
		out := toPlayer(p, EventGuessFeedback, p.history())
		out = append(out, rm.toAll(EventWordSkipped, msg)...)
		rm.mu.Unlock()

		log.Info().Str("room", roomID).Msg("word skipped, all players eliminated")

		deliver(out)
		time.AfterFunc(r.cfg.ResetDelay, func() { r.nextWord(roomID) })
		return
	}

	var out []delivery
	if justEliminated {
		out = toPlayer(p, EventEliminated, nil)
	}
	out = append(out, toPlayer(p, EventGuessFeedback, p.history())...)
	out = append(out, rm.toAll(EventUpdateRoom, rm.view())...)
	rm.mu.Unlock()
	deliver(out)
}

// nextWord is the resetting → playing transition: draw a fresh secret
// (never the one just played), clear every player's round state, and force
// the boards clean. Score is untouched — the game is still running.
func (r *Registry) nextWord(roomID string) {
	rm, ok := r.lookup(roomID)
	if !ok {
		return
	}

	rm.mu.Lock()
	if rm.Status != StatusResetting {
		rm.mu.Unlock()
		return
	}
	rm.word = r.dict.Pick(rm.word)
	rm.Status = StatusPlaying
	for _, p := range rm.Players {
		p.resetRound()
	}
	out := rm.toAll(EventResetBoard, nil)
	out = append(out, rm.toAll(EventUpdateRoom, rm.view())...)
	rm.mu.Unlock()

	log.Info().Str("room", roomID).Msg("next word drawn")

	deliver(out)
}

// backToLobby is the finished → waiting transition after the post-game
// grace period: round state cleared, countdown restored, fresh word drawn
// for the next game.
func (r *Registry) backToLobby(roomID string) {
	rm, ok := r.lookup(roomID)
	if !ok {
		return
	}

	rm.mu.Lock()
	if rm.Status != StatusFinished {
		rm.mu.Unlock()
		return
	}
	rm.Status = StatusWaiting
	rm.TimeLeft = r.cfg.RoundSeconds
	rm.word = r.dict.Pick("")
	for _, p := range rm.Players {
		p.resetRound()
	}
	out := rm.toAll(EventBackToLobby, nil)
	out = append(out, rm.toAll(EventUpdateRoom, rm.view())...)
	rm.mu.Unlock()

	log.Info().Str("room", roomID).Msg("back to lobby")

	deliver(out)
}

// classify computes the game-over result from final scores: the winner set
// is every player holding the maximum score, provided someone scored at
// all. One winner is a win, several a draw, none a fail.
func classify(players []*Player) GameOverData {
	maxScore := 0
	for _, p := range players {
		if p.Score > maxScore {
			maxScore = p.Score
		}
	}

	var winners []string
	if maxScore > 0 {
		for _, p := range players {
			if p.Score == maxScore {
				winners = append(winners, p.Nickname)
			}
		}
	}

	switch len(winners) {
	case 0:
		return GameOverData{Type: "fail", Message: "Ninguém pontuou!"}
	case 1:
		return GameOverData{Type: "win", Winner: winners[0], Score: maxScore}
	default:
		return GameOverData{Type: "draw", Winners: winners, Score: maxScore}
	}
}
