package render

import (
	"time"

	"captionsync/internal/config"
)

// State tracks the most recently shown text for one display line. Zero value
// is ready to use.
type State struct {
	LastText    string
	LastShownAt time.Time
}

// ResolveText implements the anti-flicker hold. A non-empty text is shown and
// resets the hold clock. An empty text keeps the previous text on screen while
// now is within holdMs of when it was last shown; past that the line clears.
func ResolveText(text string, state *State, now time.Time, holdMs int64) string {
	if text != "" {
		state.LastText = text
		state.LastShownAt = now
		return text
	}
	if state.LastText == "" {
		return ""
	}
	if now.Sub(state.LastShownAt) <= time.Duration(holdMs)*time.Millisecond {
		return state.LastText
	}
	state.LastText = ""
	return ""
}

// PlaybackResolver is the playback-aware hold variant: a seek clears held
// text immediately instead of letting stale captions linger at the landing
// point, and a paused video holds the last text indefinitely.
type PlaybackResolver struct {
	cfg         config.Render
	state       State
	lastVideoMs int64
	tracked     bool
}

// NewPlaybackResolver builds a resolver for one display line.
func NewPlaybackResolver(cfg config.Render) *PlaybackResolver {
	return &PlaybackResolver{cfg: cfg}
}

// Resolve returns the text to display given the candidate text and the
// current playback position.
func (r *PlaybackResolver) Resolve(text string, videoMs int64, paused bool, now time.Time) string {
	if r.tracked {
		jump := videoMs - r.lastVideoMs
		if jump < 0 {
			jump = -jump
		}
		if jump > r.cfg.SeekJumpMs {
			r.state = State{}
		}
	}
	r.lastVideoMs = videoMs
	r.tracked = true

	if text == "" && paused {
		return r.state.LastText
	}
	return ResolveText(text, &r.state, now, r.cfg.HoldMs)
}

// Reset clears the hold state and playback tracking.
func (r *PlaybackResolver) Reset() {
	r.state = State{}
	r.lastVideoMs = 0
	r.tracked = false
}
