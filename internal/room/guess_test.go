package room

import (
	"strings"
	"testing"
	"time"
)

// startedRoom spins up a playing room with the given players, first secret
// taken from the dict queue.
func startedRoom(t *testing.T, dict *stubDict, nicknames ...string) (*Registry, string, []*fakeSender) {
	t.Helper()
	reg := NewRegistry(dict, testConfig())
	senders := make([]*fakeSender, len(nicknames))
	senders[0] = &fakeSender{}
	id := reg.CreateRoom("conn-0", nicknames[0], senders[0])
	for i := 1; i < len(nicknames); i++ {
		senders[i] = &fakeSender{}
		reg.Join(id, connID(i), nicknames[i], senders[i])
	}
	reg.Start(id, "conn-0", senders[0])
	return reg, id, senders
}

func connID(i int) string {
	return "conn-" + string(rune('0'+i))
}

func TestGuessUnknownWordConsumesNoAttempt(t *testing.T) {
	dict := newStubDict([]string{"TERMO"}, "NOBRE")
	reg, id, s := startedRoom(t, dict, "Ana")

	reg.SubmitGuess(id, "conn-0", "XYZZY", s[0])

	if data, ok := s[0].last(EventInvalidWord); !ok || data != "Palavra desconhecida!" {
		t.Errorf("invalid_word_alert = %v (%v)", data, ok)
	}
	_, _, view, _ := roomState(reg, id)
	if view.Players[0].Attempts != 0 {
		t.Errorf("attempts = %d after rejected guess, want 0", view.Players[0].Attempts)
	}
	if len(view.Players[0].Guesses) != 0 {
		t.Errorf("guesses = %d after rejected guess, want 0", len(view.Players[0].Guesses))
	}
}

func TestGuessWrongWordAccepted(t *testing.T) {
	dict := newStubDict([]string{"TERMO"}, "NOBRE")
	reg, id, s := startedRoom(t, dict, "Ana", "Beto")

	reg.SubmitGuess(id, "conn-0", "nobre", s[0])

	if s[0].count(EventGuessFeedback) != 1 {
		t.Errorf("guess_feedback to submitter = %d, want 1", s[0].count(EventGuessFeedback))
	}
	if s[1].count(EventGuessFeedback) != 0 {
		t.Errorf("guess_feedback leaked to another player")
	}
	if s[1].count(EventUpdateRoom) == 0 {
		t.Error("accepted guess should broadcast a roster update")
	}

	_, _, view, _ := roomState(reg, id)
	p := view.Players[0]
	if p.Attempts != 1 || len(p.Guesses) != 1 {
		t.Fatalf("attempts/guesses = %d/%d, want 1/1", p.Attempts, len(p.Guesses))
	}
	if p.Guesses[0].Word != "NOBRE" {
		t.Errorf("recorded guess = %q, want canonical NOBRE", p.Guesses[0].Word)
	}
}

func TestGuessWinSchedulesNextWord(t *testing.T) {
	dict := newStubDict([]string{"TERMO", "NOBRE"})
	reg, id, s := startedRoom(t, dict, "Ana", "Beto")

	reg.SubmitGuess(id, "conn-0", "TERMO", s[0])

	status, word, view, _ := roomState(reg, id)
	if status != StatusResetting {
		t.Fatalf("status = %s after win, want resetting", status)
	}
	if view.Players[0].Score != 1 {
		t.Errorf("winner score = %d, want 1", view.Players[0].Score)
	}
	data, ok := s[1].last(EventRoundWinner)
	if !ok {
		t.Fatal("round_winner_alert not broadcast")
	}
	rw := data.(RoundWinnerData)
	if rw.Winner != "Ana" || rw.Word != "TERMO" {
		t.Errorf("round_winner_alert = %+v", rw)
	}
	if word != "TERMO" {
		t.Errorf("secret changed before the reset delay: %q", word)
	}

	// A guess landing during the grace period is dropped silently.
	reg.SubmitGuess(id, "conn-1", "TERMO", s[1])
	if _, _, v, _ := roomState(reg, id); v.Players[1].Attempts != 0 {
		t.Error("guess during resetting consumed an attempt")
	}

	waitFor(t, func() bool {
		st, w, _, _ := roomState(reg, id)
		return st == StatusPlaying && w == "NOBRE"
	}, "next round to begin with a fresh word")

	_, _, view, _ = roomState(reg, id)
	if view.Players[0].Score != 1 {
		t.Errorf("score wiped by the round reset: %d", view.Players[0].Score)
	}
	if view.Players[0].Attempts != 0 || len(view.Players[0].Guesses) != 0 {
		t.Error("round state not cleared on reset")
	}
	if s[0].count(EventResetBoard) != 1 {
		t.Errorf("reset_board_force = %d, want 1", s[0].count(EventResetBoard))
	}
}

func TestSixGuessesEliminates(t *testing.T) {
	dict := newStubDict([]string{"TERMO"}, "NOBRE")
	reg, id, s := startedRoom(t, dict, "Ana", "Beto")

	for i := 0; i < 6; i++ {
		reg.SubmitGuess(id, "conn-0", "NOBRE", s[0])
	}

	_, _, view, _ := roomState(reg, id)
	if !view.Players[0].Eliminated {
		t.Fatal("player not eliminated after six guesses")
	}
	if s[0].count(EventEliminated) != 1 {
		t.Errorf("eliminated_round = %d, want 1", s[0].count(EventEliminated))
	}
	if status, _, _, _ := roomState(reg, id); status != StatusPlaying {
		t.Errorf("status = %s with an active player left, want playing", status)
	}

	// Further guesses from an eliminated player are silent no-ops.
	reg.SubmitGuess(id, "conn-0", "NOBRE", s[0])
	_, _, view, _ = roomState(reg, id)
	if view.Players[0].Attempts != 6 {
		t.Errorf("attempts = %d after post-elimination guess, want 6", view.Players[0].Attempts)
	}
}

func TestAllEliminatedSkipsWord(t *testing.T) {
	dict := newStubDict([]string{"TERMO", "NOBRE"}, "GATOS")
	reg, id, s := startedRoom(t, dict, "Ana")

	for i := 0; i < 6; i++ {
		reg.SubmitGuess(id, "conn-0", "GATOS", s[0])
	}

	status, _, _, _ := roomState(reg, id)
	if status != StatusResetting {
		t.Fatalf("status = %s after full wipe-out, want resetting", status)
	}
	data, ok := s[0].last(EventWordSkipped)
	if !ok {
		t.Fatal("word_skipped_alert not sent")
	}
	if msg := data.(string); !strings.Contains(msg, "TERMO") {
		t.Errorf("skip message %q does not reveal the word", msg)
	}
	if s[0].count(EventEliminated) != 0 {
		t.Error("wipe-out should replace the per-player elimination alert")
	}

	waitFor(t, func() bool {
		st, w, _, _ := roomState(reg, id)
		return st == StatusPlaying && w == "NOBRE"
	}, "round reset after wipe-out")

	_, _, view, _ := roomState(reg, id)
	if view.Players[0].Eliminated {
		t.Error("elimination not cleared by the round reset")
	}
}

func TestGuessOutsidePlayingIsIgnored(t *testing.T) {
	dict := newStubDict([]string{"TERMO"})
	reg := NewRegistry(dict, testConfig())
	s := &fakeSender{}
	id := reg.CreateRoom("conn-0", "Ana", s)

	reg.SubmitGuess(id, "conn-0", "TERMO", s)

	_, _, view, _ := roomState(reg, id)
	if view.Players[0].Attempts != 0 || view.Players[0].Score != 0 {
		t.Error("lobby guess mutated player state")
	}
}

func TestGuessFromUnknownPlayer(t *testing.T) {
	dict := newStubDict([]string{"TERMO"})
	reg, id, _ := startedRoom(t, dict, "Ana")
	stranger := &fakeSender{}

	reg.SubmitGuess(id, "conn-9", "TERMO", stranger)

	if data, ok := stranger.last(EventError); !ok || data != "Jogador não está na sala" {
		t.Errorf("error event = %v (%v)", data, ok)
	}
}

func TestClassify(t *testing.T) {
	mk := func(scores ...int) []*Player {
		ps := make([]*Player, len(scores))
		for i, sc := range scores {
			ps[i] = &Player{Nickname: "p" + string(rune('0'+i)), Score: sc}
		}
		return ps
	}

	tests := []struct {
		name    string
		players []*Player
		typ     string
		winners int
	}{
		{"single leader", mk(1, 4, 2), "win", 1},
		{"tied leaders", mk(3, 5, 5, 0), "draw", 2},
		{"nobody scored", mk(0, 0, 0), "fail", 0},
		{"solo winner", mk(2), "win", 1},
		{"empty room", nil, "fail", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.players)
			if got.Type != tt.typ {
				t.Fatalf("type = %s, want %s", got.Type, tt.typ)
			}
			switch tt.typ {
			case "win":
				if got.Winner == "" || len(got.Winners) != 0 {
					t.Errorf("win payload = %+v", got)
				}
			case "draw":
				if len(got.Winners) != tt.winners {
					t.Errorf("winners = %v, want %d entries", got.Winners, tt.winners)
				}
			case "fail":
				if got.Message == "" {
					t.Error("fail payload missing message")
				}
			}
		})
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
