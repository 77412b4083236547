// Package render decides which cue should be on screen at a given playback
// time and smooths the transition between adjacent cues. Selection scores
// cues by temporal proximity, similarity to the visible window text, and
// confidence; the hold state machine keeps the previous text up briefly so
// cue boundaries never flash blank.
package render
