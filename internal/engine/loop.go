package engine

import (
	"context"
	"time"

	"captionsync/internal/timedtext"
)

// DOMSnapshot is one visible-text observation from the DOM collaborator.
type DOMSnapshot struct {
	WindowID string
	Text     string
	VideoMs  int64
}

// PlaybackClock reports the current video position. Polled once per tick.
type PlaybackClock func() (videoMs int64, paused bool)

// Loop serializes the three external triggers (payloads, DOM snapshots, the
// render tick) onto one goroutine so session state never sees concurrent
// mutation.
type Loop struct {
	session  *Session
	clock    PlaybackClock
	onOutput func(Output)

	payloads  chan timedtext.Payload
	snapshots chan DOMSnapshot
	tick      time.Duration
}

// NewLoop wires a session to its triggers. onOutput receives the display
// pair every tick and may be nil.
func NewLoop(session *Session, clock PlaybackClock, onOutput func(Output)) *Loop {
	tick := time.Duration(session.cfg.Engine.RenderTickMs) * time.Millisecond
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	return &Loop{
		session:   session,
		clock:     clock,
		onOutput:  onOutput,
		payloads:  make(chan timedtext.Payload, 16),
		snapshots: make(chan DOMSnapshot, 64),
		tick:      tick,
	}
}

// SubmitPayload hands a captured payload to the loop. Safe from any
// goroutine.
func (l *Loop) SubmitPayload(p timedtext.Payload) {
	l.payloads <- p
}

// SubmitSnapshot hands a DOM observation to the loop. Safe from any
// goroutine.
func (l *Loop) SubmitSnapshot(snap DOMSnapshot) {
	l.snapshots <- snap
}

// Run processes triggers until the context ends, then stops the session.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()
	defer l.session.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case p := <-l.payloads:
			l.session.HandlePayload(p, time.Now())
		case snap := <-l.snapshots:
			l.session.HandleDOMSnapshot(snap.WindowID, snap.Text, snap.VideoMs, time.Now())
		case <-ticker.C:
			videoMs, paused := l.clock()
			out := l.session.Tick(videoMs, paused, time.Now())
			if l.onOutput != nil {
				l.onOutput(out)
			}
		}
	}
}
