// Package textutil provides text processing utilities for caption text:
// whitespace normalization, tokenization, terminal-punctuation detection,
// and token-overlap similarity.
//
// The primary use cases are:
//   - Normalizing noisy ASR fragments before they become cues
//   - Deciding whether a fragment ends a sentence
//   - Scoring how well scraped window text matches a candidate cue
//
// Tokenization lowercases text and splits on non-letter/digit runs; unlike a
// search tokenizer it keeps single-character tokens because caption fragments
// are often that short.
package textutil
