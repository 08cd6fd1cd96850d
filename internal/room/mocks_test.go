package room

import (
	"strings"
	"sync"
	"time"
)

// fakeSender records everything the engine delivers to one connection.
type fakeSender struct {
	mu     sync.Mutex
	events []fakeEvent
}

type fakeEvent struct {
	Event string
	Data  any
}

func (f *fakeSender) Send(event string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, fakeEvent{Event: event, Data: data})
	return nil
}

func (f *fakeSender) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (f *fakeSender) last(event string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Event == event {
			return f.events[i].Data, true
		}
	}
	return nil, false
}

// stubDict hands out secrets from a fixed queue and validates against a
// fixed set, keeping tests deterministic.
type stubDict struct {
	mu    sync.Mutex
	queue []string
	next  int
	valid map[string]string
}

func newStubDict(secrets []string, valid ...string) *stubDict {
	d := &stubDict{queue: secrets, valid: make(map[string]string)}
	for _, w := range secrets {
		d.valid[strings.ToUpper(w)] = strings.ToUpper(w)
	}
	for _, w := range valid {
		d.valid[strings.ToUpper(w)] = strings.ToUpper(w)
	}
	return d
}

func (d *stubDict) Pick(excluding string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.next >= len(d.queue) {
		return d.queue[len(d.queue)-1]
	}
	w := d.queue[d.next]
	d.next++
	return w
}

func (d *stubDict) Validate(raw string) (string, bool) {
	w, ok := d.valid[strings.ToUpper(strings.TrimSpace(raw))]
	return w, ok
}

// testConfig shrinks every delay so state machine tests run in milliseconds.
func testConfig() Config {
	return Config{
		RoundSeconds: 60,
		MaxAttempts:  6,
		ResetDelay:   150 * time.Millisecond,
		LobbyDelay:   150 * time.Millisecond,
		Tick:         10 * time.Millisecond,
	}
}

// roomState reads a consistent snapshot of the room for assertions.
func roomState(r *Registry, roomID string) (Status, string, View, bool) {
	rm, ok := r.lookup(roomID)
	if !ok {
		return "", "", View{}, false
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.Status, rm.word, rm.view(), true
}
