// Package cue defines the stable output unit of the caption pipeline and the
// per-track state that holds it.
//
// A Cue is immutable: its id is a deterministic hash of the track key, time
// span, and text, so identical inputs always produce identical ids and a
// changed span or text is a new cue. That id is the basis for every
// de-duplication decision in the system.
//
// TrackState owns the ordered cue list for one track and bounds its memory by
// pruning cues far behind the playback clock and capping the list length.
package cue
