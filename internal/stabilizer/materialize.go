package stabilizer

import (
	"captionsync/internal/cue"
	"captionsync/internal/language"
	"captionsync/internal/textutil"
)

// materialize turns final groups into cues. A group ends where the next one
// begins, or at its last token's explicit end, whichever comes first; when
// neither is usable the floor duration applies.
func (b *Builder) materialize(groups []group, trackKey string, source cue.Source, p language.Profile) []cue.Cue {
	cues := make([]cue.Cue, 0, len(groups))
	for i, g := range groups {
		text := g.text(p)
		if text == "" {
			continue
		}
		start := g.startMs()

		var end int64
		if i+1 < len(groups) {
			end = groups[i+1].startMs()
		}
		if explicit := g.lastToken().EndMs; explicit > 0 && (end == 0 || explicit < end) {
			end = explicit
		}
		if end <= start {
			end = start + b.cfg.FloorDurationMs
		}

		confidence := scoreConfidence(text, g.wordCount(p), end-start)
		c := cue.New(trackKey, start, end, text, source, confidence)
		if !c.IsZero() {
			cues = append(cues, c)
		}
	}
	return cues
}

// Confidence weights. The sum of all maxima is 1.0 so the score never needs
// truncation on the high side.
const (
	confBase        = 0.15
	confWordsMax    = 0.25
	confDurationMax = 0.25
	confPunctuation = 0.20
	confLengthMax   = 0.15

	idealMsPerWord  = 400
	msPerWordSpread = 800
	fullWordCount   = 8
	fullTextLength  = 40
)

// scoreConfidence rates how sentence-like a group is: enough words, a
// plausible speaking pace, terminal punctuation, and reasonable length.
func scoreConfidence(text string, words int, durationMs int64) float64 {
	score := confBase

	w := float64(words) / fullWordCount
	if w > 1 {
		w = 1
	}
	score += confWordsMax * w

	if words > 0 && durationMs > 0 {
		perWord := float64(durationMs) / float64(words)
		pace := 1 - abs(perWord-idealMsPerWord)/msPerWordSpread
		if pace < 0 {
			pace = 0
		}
		score += confDurationMax * pace
	}

	if textutil.HasTerminalPunctuation(text) {
		score += confPunctuation
	}

	l := float64(len(text)) / fullTextLength
	if l > 1 {
		l = 1
	}
	score += confLengthMax * l

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
