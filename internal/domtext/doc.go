// Package domtext derives cues from raw visible caption text when the
// primary event capture is unavailable.
//
// Each on-screen caption window gets a small state machine: growing text is
// tracked, replaced text becomes a commit candidate, and current text commits
// once it ends a sentence, has been quiet long enough, or has been held past
// the force duration. Committed (window, text) pairs are remembered for a TTL
// so a caption lingering on screen is not re-emitted, and commit start times
// are monotonic per window so cues never overlap.
package domtext
