// Package timedtext defines the primitive records delivered by the caption
// capture layer: timed tokens, timed events, and the hook payload envelope.
//
// Events are immutable once received. Sanitization filters the noise the
// upstream feed is known to produce (events without duration or segments,
// append-only continuation events) and orders the survivors by start time;
// everything downstream assumes sanitized input.
package timedtext
