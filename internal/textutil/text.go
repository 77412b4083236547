package textutil

import (
	"strings"
	"unicode"
)

// terminalRunes are the runes treated as authoritative sentence ends.
// Includes CJK full stops and question/exclamation forms.
var terminalRunes = map[rune]struct{}{
	'.': {}, '!': {}, '?': {},
	'。': {}, '！': {}, '？': {},
	'…': {},
}

// closerRunes may trail a sentence terminator (quotes, brackets).
var closerRunes = map[rune]struct{}{
	'"': {}, '\'': {}, ')': {}, ']': {},
	'”': {}, '’': {}, '」': {}, '』': {},
}

// NormalizeWhitespace collapses all whitespace runs to single spaces and trims
// the result.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// HasTerminalPunctuation reports whether the last meaningful rune of text is a
// sentence terminator, ignoring trailing quotes and closing brackets.
func HasTerminalPunctuation(text string) bool {
	runes := []rune(strings.TrimSpace(text))
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if _, ok := closerRunes[r]; ok {
			continue
		}
		_, ok := terminalRunes[r]
		return ok
	}
	return false
}

// WordCount counts whitespace-delimited words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// HasLetter reports whether text contains at least one letter in any script.
func HasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// LetterlessRatio returns the fraction of tokens that contain no letter at
// all. Run-on ASR output that arrived as raw characters scores high here.
func LetterlessRatio(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	letterless := 0
	for _, tok := range tokens {
		if !HasLetter(tok) {
			letterless++
		}
	}
	return float64(letterless) / float64(len(tokens))
}

// Tokenize splits text into lowercase tokens on non-letter/digit runs.
// Single-character tokens are kept; caption fragments are frequently one word
// or one character long.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return tokens
}
