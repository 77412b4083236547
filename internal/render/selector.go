package render

import (
	"captionsync/internal/config"
	"captionsync/internal/cue"
	"captionsync/internal/textutil"
)

const (
	proximityWeight  = 2.0
	similarityWeight = 2.0
	confidenceWeight = 0.5
)

// Selector picks the cue to display at a playback time. windowText is the
// currently visible caption text, used as a similarity hint when available;
// pass "" when there is none.
type Selector interface {
	Select(cues []cue.Cue, videoMs int64, windowText string) *cue.Cue
}

type scoringSelector struct {
	cfg config.Render
}

// NewSelector returns the default scoring selector.
func NewSelector(cfg config.Render) Selector {
	return &scoringSelector{cfg: cfg}
}

func (s *scoringSelector) Select(cues []cue.Cue, videoMs int64, windowText string) *cue.Cue {
	if len(cues) == 0 {
		return nil
	}
	if windowText == "" {
		return s.selectActive(cues, videoMs)
	}

	bestIdx := -1
	bestScore := 0.0
	for i := range cues {
		prox := s.proximity(&cues[i], videoMs)
		if prox <= 0 {
			continue
		}
		sim := textutil.TokenOverlap(windowText, cues[i].Text)
		score := proximityWeight*prox + similarityWeight*sim + confidenceWeight*cues[i].Confidence
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return &cues[bestIdx]
	}
	return s.selectActive(cues, videoMs)
}

// proximity is 1.0 inside the cue's span and decays linearly to 0 over the
// proximity window outside it.
func (s *scoringSelector) proximity(c *cue.Cue, videoMs int64) float64 {
	if c.Contains(videoMs) {
		return 1.0
	}
	var dist int64
	if videoMs < c.StartMs {
		dist = c.StartMs - videoMs
	} else {
		dist = videoMs - c.EndMs
	}
	window := s.cfg.ProximityWindowMs
	if window <= 0 || dist >= window {
		return 0
	}
	return 1.0 - float64(dist)/float64(window)
}

// selectActive is the pure time-based selection: the cue whose span covers
// videoMs, else a cue that ended within the hold window (short tail, so a
// just-finished cue keeps its slot between ticks).
func (s *scoringSelector) selectActive(cues []cue.Cue, videoMs int64) *cue.Cue {
	var active *cue.Cue
	for i := range cues {
		if cues[i].Contains(videoMs) {
			active = &cues[i]
		}
	}
	if active != nil {
		return active
	}

	var recent *cue.Cue
	for i := range cues {
		c := &cues[i]
		if c.EndMs >= videoMs {
			continue
		}
		if videoMs-c.EndMs > s.cfg.HoldMs {
			continue
		}
		if recent == nil || c.EndMs > recent.EndMs {
			recent = c
		}
	}
	return recent
}
