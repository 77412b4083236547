package domtext

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"captionsync/internal/config"
	"captionsync/internal/cue"
	"captionsync/internal/logging"
	"captionsync/internal/textutil"
)

// DOM-derived cues are inherently less trustworthy than hook cues; a
// punctuated sentence earns a modest boost.
const (
	domConfidence      = 0.5
	domPunctuatedBonus = 0.2
)

// windowState tracks one on-screen caption region.
type windowState struct {
	currentText   string
	firstSeenAt   time.Time
	lastChangedAt time.Time
	lastCommitted string
	lastEndMs     int64
}

// Committer turns text snapshots of caption windows into cues.
type Committer struct {
	cfg      config.DOMText
	trackKey string
	logger   *slog.Logger

	windows map[string]*windowState
	// history holds recently committed (window, text) pairs for TTL dedupe.
	history map[string]time.Time
}

// New creates a Committer emitting cues on the given track key.
func New(cfg config.DOMText, trackKey string, logger *slog.Logger) *Committer {
	return &Committer{
		cfg:      cfg,
		trackKey: trackKey,
		logger:   logging.WithComponent(logger, "domtext"),
		windows:  make(map[string]*windowState),
		history:  make(map[string]time.Time),
	}
}

// TrackKey returns the track key committed cues are emitted on.
func (c *Committer) TrackKey() string {
	return c.trackKey
}

// Ingest records a text snapshot for a window and opportunistically commits.
// Returns the committed cue or nil.
func (c *Committer) Ingest(windowKey, rawText string, videoMs int64, now time.Time) *cue.Cue {
	text := textutil.NormalizeWhitespace(rawText)

	st, ok := c.windows[windowKey]
	if !ok {
		if text == "" {
			return nil
		}
		st = &windowState{currentText: text, firstSeenAt: now, lastChangedAt: now}
		c.windows[windowKey] = st
		return c.maybeCommit(st, windowKey, videoMs, now)
	}

	switch {
	case text == st.currentText:
		// Unchanged; the quiet timer keeps running.
	case strings.HasPrefix(text, st.currentText) && st.currentText != "":
		// Still growing.
		st.currentText = text
		st.lastChangedAt = now
	default:
		// Replacement: the old text is the commit candidate.
		committed := c.commit(st, windowKey, st.currentText, videoMs, now)
		st.currentText = text
		st.firstSeenAt = now
		st.lastChangedAt = now
		return committed
	}

	return c.maybeCommit(st, windowKey, videoMs, now)
}

// Flush commits every window whose trigger has fired. Called on the render
// tick so quiet/force commits do not depend on further DOM mutations.
func (c *Committer) Flush(videoMs int64, now time.Time) []cue.Cue {
	keys := make([]string, 0, len(c.windows))
	for key := range c.windows {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var cues []cue.Cue
	for _, key := range keys {
		if committed := c.maybeCommit(c.windows[key], key, videoMs, now); committed != nil {
			cues = append(cues, *committed)
		}
	}
	c.pruneHistory(now)
	return cues
}

// DropMissingWindows discards state for windows no longer present in the DOM
// (page re-render).
func (c *Committer) DropMissingWindows(validIDs map[string]struct{}) {
	for key := range c.windows {
		if _, ok := validIDs[key]; !ok {
			delete(c.windows, key)
		}
	}
}

// Reset clears all window and dedupe state.
func (c *Committer) Reset() {
	c.windows = make(map[string]*windowState)
	c.history = make(map[string]time.Time)
}

// maybeCommit applies the commit triggers to the window's current text.
func (c *Committer) maybeCommit(st *windowState, windowKey string, videoMs int64, now time.Time) *cue.Cue {
	text := st.currentText
	if text == "" {
		return nil
	}
	triggered := textutil.HasTerminalPunctuation(text) ||
		now.Sub(st.lastChangedAt) >= time.Duration(c.cfg.QuietMs)*time.Millisecond ||
		now.Sub(st.firstSeenAt) >= time.Duration(c.cfg.ForceMs)*time.Millisecond
	if !triggered {
		return nil
	}
	return c.commit(st, windowKey, text, videoMs, now)
}

// commit validates and emits one cue for a window.
func (c *Committer) commit(st *windowState, windowKey, text string, videoMs int64, now time.Time) *cue.Cue {
	if text == "" {
		return nil
	}
	if textutil.WordCount(text) < c.cfg.MinWords || len(text) < c.cfg.MinChars {
		return nil
	}
	histKey := windowKey + "|" + text
	if committedAt, ok := c.history[histKey]; ok {
		if now.Sub(committedAt) <= time.Duration(c.cfg.DedupeTTLMs)*time.Millisecond {
			return nil
		}
	}

	start := videoMs
	if st.lastEndMs > start {
		start = st.lastEndMs
	}
	end := start + c.cfg.PadMs

	confidence := domConfidence
	if textutil.HasTerminalPunctuation(text) {
		confidence += domPunctuatedBonus
	}
	committed := cue.New(c.trackKey, start, end, text, cue.SourceDOM, confidence)
	if committed.IsZero() {
		return nil
	}

	c.history[histKey] = now
	st.lastCommitted = text
	st.lastEndMs = end
	c.logger.Debug("committed window text",
		logging.FieldWindow, windowKey, logging.FieldCueID, committed.ID,
		"start_ms", start, "end_ms", end)
	return &committed
}

func (c *Committer) pruneHistory(now time.Time) {
	ttl := time.Duration(c.cfg.DedupeTTLMs) * time.Millisecond
	for key, committedAt := range c.history {
		if now.Sub(committedAt) > ttl {
			delete(c.history, key)
		}
	}
}
