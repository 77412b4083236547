// Package language holds the per-language heuristic profiles used by the ASR
// stabilizer and the manual caption merger.
//
// A Profile bundles the break words, skip words, sentence-boundary words, and
// timing/word-count thresholds that tune sentence grouping for one language.
// Lookup is by BCP-47 tag reduced to its base language ("en-GB" resolves to
// "en"); unknown languages receive the language-agnostic base profile, so
// cues are always produced, just less tuned.
//
// Only the English word lists have been validated against real ASR tracks.
// The CJK entries tighten the timing bounds but carry no word lists; treat
// them as placeholders subject to tuning.
package language
