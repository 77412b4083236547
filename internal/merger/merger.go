package merger

import (
	"log/slog"
	"unicode"

	"captionsync/internal/config"
	"captionsync/internal/cue"
	"captionsync/internal/language"
	"captionsync/internal/logging"
	"captionsync/internal/textutil"
	"captionsync/internal/timedtext"
)

// manualConfidence is the confidence assigned to manually-authored cues;
// human captions are trusted regardless of shape.
const manualConfidence = 0.9

// Merger folds manual caption fragments into sentence cues for one track.
type Merger struct {
	cfg     config.Merger
	profile language.Profile
	logger  *slog.Logger
}

// New creates a Merger tuned for the given language profile.
func New(cfg config.Merger, profile language.Profile, logger *slog.Logger) *Merger {
	return &Merger{
		cfg:     cfg,
		profile: profile,
		logger:  logging.WithComponent(logger, "merger"),
	}
}

// BuildCues converts manual caption events into cues, merging continuation
// fragments into their predecessors. Deterministic for a given input;
// malformed or empty input yields an empty slice.
func (m *Merger) BuildCues(events []timedtext.Event, trackKey string, source cue.Source) []cue.Cue {
	clean := timedtext.Sanitize(events)
	if len(clean) == 0 {
		return nil
	}

	cues := make([]cue.Cue, 0, len(clean))
	for _, ev := range clean {
		c := cue.New(trackKey, ev.StartMs, ev.StartMs+ev.DurationMs, timedtext.Text(ev), source, manualConfidence)
		if c.IsZero() {
			continue
		}
		if len(cues) > 0 && m.shouldMerge(cues[len(cues)-1], c) {
			prev := cues[len(cues)-1]
			merged := cue.New(trackKey, prev.StartMs, c.EndMs, joinFragments(prev.Text, c.Text), source, manualConfidence)
			if !merged.IsZero() {
				cues[len(cues)-1] = merged
				continue
			}
		}
		cues = append(cues, c)
	}

	if len(cues) > 0 {
		m.logger.Debug("merged manual captions", logging.FieldTrack, trackKey,
			"events", len(clean), "cues", len(cues))
	}
	return cues
}

// shouldMerge decides whether next continues prev's sentence.
func (m *Merger) shouldMerge(prev, next cue.Cue) bool {
	if textutil.HasTerminalPunctuation(prev.Text) {
		return false
	}
	gap := next.StartMs - prev.EndMs
	if gap > m.cfg.MaxGapMs {
		return false
	}

	continuation := false
	if words := textutil.Tokenize(next.Text); len(words) > 0 && m.profile.IsBoundaryWord(words[0]) {
		continuation = true
	}
	if !continuation && textutil.WordCount(next.Text) > m.cfg.ShortFragmentWords {
		return false
	}

	if len(prev.Text)+1+len(next.Text) > m.cfg.MaxChars {
		return false
	}
	if next.EndMs-prev.StartMs > m.cfg.MaxSpanMs {
		return false
	}
	return true
}

// joinFragments appends a fragment to a sentence, attaching bare punctuation
// fragments without a separating space.
func joinFragments(head, tail string) string {
	if tail == "" {
		return head
	}
	first := []rune(tail)[0]
	if !unicode.IsLetter(first) && !unicode.IsDigit(first) {
		return head + tail
	}
	return head + " " + tail
}
