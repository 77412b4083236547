package language

import (
	"strings"

	"golang.org/x/text/language"
)

// Profile tunes sentence grouping for one language.
type Profile struct {
	// Code is the ISO 639-1 base language code, empty for the base profile.
	Code string

	// BreakWords start a new group when they appear after MinBreakMs of
	// accumulated speech ("so", "but", ...).
	BreakWords []string

	// SkipWords never open a group on their own; a single-token group made of
	// one is folded into the following token ("uh", "um", ...).
	SkipWords []string

	// BoundaryWords glue adjacent groups together when one ends or the next
	// begins with them ("and", "of", ...).
	BoundaryWords []string

	// SpaceDelimited is false for scripts without word spacing (CJK); token
	// counting then falls back to rune counting.
	SpaceDelimited bool

	// MinIntervalMs is the silence gap that forces a group boundary.
	MinIntervalMs int

	// MinBreakMs is the minimum elapsed group time before a break word may
	// split.
	MinBreakMs int

	// MaxWords caps words per cue before the balancer re-splits a group.
	MaxWords int

	// MaxMergedWords caps the size of a group produced by boundary-word
	// merging.
	MaxMergedWords int

	// MinTailWords is the smallest acceptable trailing group; shorter tails
	// are absorbed into their predecessor.
	MinTailWords int
}

// base is the language-agnostic fallback profile.
var base = Profile{
	SpaceDelimited: true,
	MinIntervalMs:  900,
	MinBreakMs:     2500,
	MaxWords:       18,
	MaxMergedWords: 22,
	MinTailWords:   3,
}

var profiles = []Profile{
	{
		Code: "en",
		BreakWords: []string{
			"so", "but", "because", "however", "okay", "now", "well",
			"anyway", "alright", "then",
		},
		SkipWords: []string{"uh", "um", "ah", "eh", "mm", "hmm", "like"},
		BoundaryWords: []string{
			"and", "or", "of", "to", "in", "on", "at", "the", "a", "an",
			"with", "for", "that", "this", "is", "are", "was",
		},
		SpaceDelimited: true,
		MinIntervalMs:  800,
		MinBreakMs:     2200,
		MaxWords:       16,
		MaxMergedWords: 20,
		MinTailWords:   3,
	},
	{Code: "ja", SpaceDelimited: false, MinIntervalMs: 700, MinBreakMs: 2000, MaxWords: 28, MaxMergedWords: 34, MinTailWords: 4},
	{Code: "ko", SpaceDelimited: true, MinIntervalMs: 700, MinBreakMs: 2000, MaxWords: 20, MaxMergedWords: 26, MinTailWords: 3},
	{Code: "zh", SpaceDelimited: false, MinIntervalMs: 700, MinBreakMs: 2000, MaxWords: 28, MaxMergedWords: 34, MinTailWords: 4},
}

var byCode map[string]*Profile

func init() {
	byCode = make(map[string]*Profile, len(profiles))
	for i := range profiles {
		byCode[profiles[i].Code] = &profiles[i]
	}
}

// Base returns the language-agnostic fallback profile.
func Base() Profile {
	return base
}

// Lookup resolves a language tag to its heuristic profile. Region subtags are
// ignored ("en-GB" and "en-US" share the English profile); unrecognized or
// empty tags resolve to the base profile.
func Lookup(tag string) Profile {
	code := BaseCode(tag)
	if code == "" {
		return base
	}
	if p, ok := byCode[code]; ok {
		return *p
	}
	return base
}

// BaseCode reduces a language tag to its lowercase base language code.
// Returns empty string when the tag cannot be parsed at all.
func BaseCode(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		// Tolerate bare codes the parser rejects ("und", junk suffixes).
		if idx := strings.IndexAny(tag, "-_"); idx > 0 {
			tag = tag[:idx]
		}
		if len(tag) == 2 || len(tag) == 3 {
			return strings.ToLower(tag)
		}
		return ""
	}
	baseLang, conf := parsed.Base()
	if conf == language.No {
		return ""
	}
	return baseLang.String()
}

// IsBreakWord reports whether word (lowercased) is a break word for p.
func (p Profile) IsBreakWord(word string) bool {
	return containsWord(p.BreakWords, word)
}

// IsSkipWord reports whether word is a skip word for p.
func (p Profile) IsSkipWord(word string) bool {
	return containsWord(p.SkipWords, word)
}

// IsBoundaryWord reports whether word is a sentence-boundary glue word for p.
func (p Profile) IsBoundaryWord(word string) bool {
	return containsWord(p.BoundaryWords, word)
}

func containsWord(words []string, word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
