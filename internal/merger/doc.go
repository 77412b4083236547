// Package merger repairs manually-authored caption tracks whose events arrive
// as punctuation-free fragments.
//
// Each well-formed event becomes one simple cue; a cue is then folded into
// its predecessor when the gap is short, the predecessor has no terminal
// punctuation, and the fragment either opens with a continuation word or is
// short enough to be a trailing fragment. Terminal punctuation is an
// authoritative sentence end and is never merged across.
package merger
