package cue

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"captionsync/internal/textutil"
)

// Source identifies where a cue's text came from.
type Source string

const (
	// SourceHook marks cues built from intercepted caption network events.
	SourceHook Source = "hook"
	// SourceDOM marks cues scraped from visible caption text.
	SourceDOM Source = "dom"
)

// floorDurationMs is applied when a cue would otherwise have a non-positive
// span; a frozen pipeline is worse than an approximate one.
const floorDurationMs = 1800

// Cue is a stabilized, time-bounded, translatable unit of caption text.
type Cue struct {
	ID         string
	TrackKey   string
	StartMs    int64
	EndMs      int64
	Text       string
	Source     Source
	Confidence float64
}

// New builds a cue with a deterministic id. Text is whitespace-normalized;
// an empty normalized text yields a zero cue (check with IsZero). A span
// that is not strictly positive is corrected with the floor duration.
func New(trackKey string, startMs, endMs int64, text string, source Source, confidence float64) Cue {
	text = textutil.NormalizeWhitespace(text)
	if text == "" {
		return Cue{}
	}
	if endMs <= startMs {
		endMs = startMs + floorDurationMs
	}
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	return Cue{
		ID:         ID(trackKey, startMs, endMs, text),
		TrackKey:   trackKey,
		StartMs:    startMs,
		EndMs:      endMs,
		Text:       text,
		Source:     source,
		Confidence: confidence,
	}
}

// IsZero reports whether c carries no content.
func (c Cue) IsZero() bool {
	return c.ID == ""
}

// DurationMs returns the cue's span length.
func (c Cue) DurationMs() int64 {
	return c.EndMs - c.StartMs
}

// Contains reports whether videoMs falls inside the cue's span (inclusive).
func (c Cue) Contains(videoMs int64) bool {
	return videoMs >= c.StartMs && videoMs <= c.EndMs
}

// ID computes the deterministic cue id for the given identity tuple:
// the first 16 hex characters of sha256 over trackKey|startMs|endMs|text.
func ID(trackKey string, startMs, endMs int64, text string) string {
	var b strings.Builder
	b.WriteString(trackKey)
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(startMs, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(endMs, 10))
	b.WriteByte('|')
	b.WriteString(text)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:16]
}
