package cue

import (
	"sort"
	"time"
)

// TrackState owns the ordered cue list for one track. It is created on the
// first cue for a track and lives until the capture session is torn down.
// Memory stays bounded regardless of video length: cues far behind the
// playback clock are pruned and the list is capped.
type TrackState struct {
	TrackKey   string
	LastHookAt time.Time

	cues  []Cue
	known map[string]struct{}

	horizonMs int64
	maxCues   int
}

// NewTrackState creates state for one track. horizonMs is how far behind the
// playback clock a cue's end may fall before it is pruned; maxCues caps the
// list length. Non-positive values fall back to safe defaults.
func NewTrackState(trackKey string, horizonMs int64, maxCues int) *TrackState {
	if horizonMs <= 0 {
		horizonMs = 120_000
	}
	if maxCues <= 0 {
		maxCues = 400
	}
	return &TrackState{
		TrackKey:  trackKey,
		cues:      make([]Cue, 0, 32),
		known:     make(map[string]struct{}),
		horizonMs: horizonMs,
		maxCues:   maxCues,
	}
}

// Insert adds a cue to the ordered list. Returns false when the cue is zero
// or its id is already known.
func (s *TrackState) Insert(c Cue) bool {
	if c.IsZero() {
		return false
	}
	if _, ok := s.known[c.ID]; ok {
		return false
	}
	s.known[c.ID] = struct{}{}
	idx := sort.Search(len(s.cues), func(i int) bool {
		return s.cues[i].StartMs > c.StartMs
	})
	s.cues = append(s.cues, Cue{})
	copy(s.cues[idx+1:], s.cues[idx:])
	s.cues[idx] = c
	return true
}

// Has reports whether the cue id has been inserted before (including cues
// since pruned; the id set outlives the list so re-delivered events do not
// resurrect old cues).
func (s *TrackState) Has(id string) bool {
	_, ok := s.known[id]
	return ok
}

// Cues returns the ordered cue list. The slice is shared; callers must not
// modify it.
func (s *TrackState) Cues() []Cue {
	return s.cues
}

// Len returns the number of live cues.
func (s *TrackState) Len() int {
	return len(s.cues)
}

// Prune drops cues whose end falls more than the horizon behind videoMs and
// trims the list to the configured cap, oldest first.
func (s *TrackState) Prune(videoMs int64) {
	cutoff := videoMs - s.horizonMs
	firstLive := 0
	for firstLive < len(s.cues) && s.cues[firstLive].EndMs < cutoff {
		firstLive++
	}
	if firstLive > 0 {
		s.cues = append(s.cues[:0], s.cues[firstLive:]...)
	}
	if excess := len(s.cues) - s.maxCues; excess > 0 {
		s.cues = append(s.cues[:0], s.cues[excess:]...)
	}
}
