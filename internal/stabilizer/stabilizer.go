package stabilizer

import (
	"log/slog"
	"strings"

	"captionsync/internal/config"
	"captionsync/internal/cue"
	"captionsync/internal/language"
	"captionsync/internal/logging"
	"captionsync/internal/textutil"
	"captionsync/internal/timedtext"
)

// Builder stabilizes ASR events into sentence cues.
type Builder struct {
	cfg    config.Stabilizer
	logger *slog.Logger
}

// New creates a Builder. A nil logger falls back to slog.Default().
func New(cfg config.Stabilizer, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		logger: logging.WithComponent(logger, "stabilizer"),
	}
}

// BuildCues converts a slice of caption events into sentence cues for one
// track. It is idempotent for a given input; malformed or empty input yields
// an empty slice.
func (b *Builder) BuildCues(events []timedtext.Event, trackLang, trackKey string, source cue.Source) []cue.Cue {
	clean := timedtext.Sanitize(events)
	if len(clean) == 0 {
		return nil
	}
	profile := language.Lookup(trackLang)

	tokens := b.tokenize(clean, profile)
	if len(tokens) == 0 {
		return nil
	}
	if b.shouldEarlySkip(tokens) {
		b.logger.Debug("early skip, stream not yet stable",
			logging.FieldTrack, trackKey, "tokens", len(tokens))
		return nil
	}

	var groups []group
	if b.countPunctuated(tokens) >= b.cfg.PunctuatedRouteMin {
		groups = b.splitByPunctuation(tokens, profile)
	} else {
		groups = b.splitByIntervals(tokens, profile)
	}
	groups = b.balance(groups, profile)
	groups = b.mergeBoundaries(groups, profile)
	groups = b.absorbShortTails(groups, profile)

	cues := b.materialize(groups, trackKey, source, profile)
	if len(cues) > 0 {
		b.logger.Debug("built cues", logging.FieldTrack, trackKey,
			"events", len(clean), "tokens", len(tokens), "cues", len(cues))
	}
	return cues
}

// group is a candidate sentence: a run of tokens plus whether an explicit
// break word opened it (explicit groups resist later absorption).
type group struct {
	tokens        []timedtext.TimedToken
	explicitBreak bool
}

func (g group) startMs() int64 {
	return g.tokens[0].StartMs
}

func (g group) lastToken() timedtext.TimedToken {
	return g.tokens[len(g.tokens)-1]
}

func (g group) text(p language.Profile) string {
	sep := " "
	if !p.SpaceDelimited {
		sep = ""
	}
	parts := make([]string, 0, len(g.tokens))
	for _, tok := range g.tokens {
		parts = append(parts, tok.Text)
	}
	return textutil.NormalizeWhitespace(strings.Join(parts, sep))
}

func (g group) wordCount(p language.Profile) int {
	total := 0
	for _, tok := range g.tokens {
		total += tokenWords(tok.Text, p)
	}
	return total
}

func tokenWords(text string, p language.Profile) int {
	if p.SpaceDelimited {
		return textutil.WordCount(text)
	}
	return len([]rune(strings.ReplaceAll(text, " ", "")))
}

// tokenize flattens events into timed tokens, repairing run-on character
// streams for space-delimited languages.
func (b *Builder) tokenize(events []timedtext.Event, p language.Profile) []timedtext.TimedToken {
	var tokens []timedtext.TimedToken
	for _, ev := range events {
		tokens = append(tokens, timedtext.Tokens(ev)...)
	}
	if len(tokens) == 0 || !p.SpaceDelimited {
		return tokens
	}

	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	if textutil.LetterlessRatio(texts) > b.cfg.RunOnLetterlessRatio {
		return remergeRunOn(tokens)
	}
	return tokens
}

// remergeRunOn glues adjacent character fragments back into whole words. A
// fragment joins its predecessor when it follows within the run-on gap and
// neither side carries a space boundary.
const runOnGapMs = 200

func remergeRunOn(tokens []timedtext.TimedToken) []timedtext.TimedToken {
	merged := make([]timedtext.TimedToken, 0, len(tokens)/2+1)
	var lastFragmentStart int64
	for _, tok := range tokens {
		if len(merged) == 0 {
			merged = append(merged, tok)
			lastFragmentStart = tok.StartMs
			continue
		}
		prev := &merged[len(merged)-1]
		gap := tok.StartMs - lastFragmentStart
		lastFragmentStart = tok.StartMs
		if gap <= runOnGapMs && !strings.HasSuffix(prev.Text, " ") && !strings.HasPrefix(tok.Text, " ") {
			prev.Text += tok.Text
			if tok.EndMs > prev.EndMs {
				prev.EndMs = tok.EndMs
			}
			continue
		}
		merged = append(merged, tok)
	}
	return merged
}

// shouldEarlySkip rejects streams whose leading tokens have not reached a
// minimum word/character density yet. Short inputs are never skipped; the
// guard exists to avoid churn on long, not-yet-stable ASR streams.
func (b *Builder) shouldEarlySkip(tokens []timedtext.TimedToken) bool {
	if len(tokens) < b.cfg.EarlySkipTokens {
		return false
	}
	sample := tokens[:b.cfg.EarlySkipTokens]
	words := 0
	chars := 0
	for _, tok := range sample {
		words += textutil.WordCount(tok.Text)
		chars += len(strings.TrimSpace(tok.Text))
	}
	return words < b.cfg.EarlySkipMinWords || chars < b.cfg.EarlySkipMinChars
}

func (b *Builder) countPunctuated(tokens []timedtext.TimedToken) int {
	count := 0
	for _, tok := range tokens {
		if textutil.HasTerminalPunctuation(tok.Text) {
			count++
		}
	}
	return count
}

// splitByPunctuation cuts groups at terminal punctuation, then balances each
// punctuated chunk by the interval/word-count rule so clearly punctuated ASR
// is never broken into awkward fragments.
func (b *Builder) splitByPunctuation(tokens []timedtext.TimedToken, p language.Profile) []group {
	var groups []group
	var current []timedtext.TimedToken
	for _, tok := range tokens {
		current = append(current, tok)
		if textutil.HasTerminalPunctuation(tok.Text) {
			groups = append(groups, group{tokens: current})
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, group{tokens: current})
	}
	return groups
}

// splitByIntervals walks tokens and opens a new group on silence gaps or on
// break words that appear after enough accumulated speech. Single-token skip
// word groups are folded into the group that follows them.
func (b *Builder) splitByIntervals(tokens []timedtext.TimedToken, p language.Profile) []group {
	var groups []group
	var current []timedtext.TimedToken
	var currentExplicit bool
	var groupStart int64

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, group{tokens: current, explicitBreak: currentExplicit})
			current = nil
		}
	}

	for i, tok := range tokens {
		if len(current) == 0 {
			current = []timedtext.TimedToken{tok}
			groupStart = tok.StartMs
			continue
		}
		prev := tokens[i-1]
		gap := tok.StartMs - prev.StartMs
		if prev.EndMs > 0 {
			gap = tok.StartMs - prev.EndMs
		}

		switch {
		case gap > int64(p.MinIntervalMs):
			flush()
			current = []timedtext.TimedToken{tok}
			currentExplicit = false
			groupStart = tok.StartMs
		case p.IsBreakWord(tok.Text) && tok.StartMs-groupStart >= int64(p.MinBreakMs):
			flush()
			current = []timedtext.TimedToken{tok}
			currentExplicit = true
			groupStart = tok.StartMs
		default:
			current = append(current, tok)
		}
	}
	flush()

	return foldSkipWordGroups(groups, p)
}

// foldSkipWordGroups merges any single-token group made of a skip word into
// the group that follows it.
func foldSkipWordGroups(groups []group, p language.Profile) []group {
	if len(groups) < 2 {
		return groups
	}
	out := make([]group, 0, len(groups))
	for i := 0; i < len(groups); i++ {
		g := groups[i]
		if i+1 < len(groups) && len(g.tokens) == 1 && p.IsSkipWord(g.tokens[0].Text) {
			next := groups[i+1]
			next.tokens = append(append([]timedtext.TimedToken{}, g.tokens...), next.tokens...)
			groups[i+1] = next
			continue
		}
		out = append(out, g)
	}
	return out
}
