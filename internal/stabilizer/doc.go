// Package stabilizer turns noisy word-level ASR caption events into stable
// sentence-level cues.
//
// The pipeline sanitizes events, flattens them into timed tokens, and groups
// tokens into sentences using per-language heuristics: break words after a
// minimum elapsed time, silence gaps, recursive word-count balancing,
// boundary-word merging, and short-tail absorption. Each surviving group
// becomes one cue with a confidence score derived from its shape.
//
// BuildCues is pure and deterministic: the same input slice always yields the
// same cue ids. Malformed or empty input yields an empty cue list, never an
// error.
package stabilizer
