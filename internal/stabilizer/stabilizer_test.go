package stabilizer

import (
	"strings"
	"testing"

	"captionsync/internal/config"
	"captionsync/internal/cue"
	"captionsync/internal/logging"
	"captionsync/internal/timedtext"
)

func newTestBuilder() *Builder {
	return New(config.Default().Stabilizer, logging.NewNop())
}

// wordEvent builds one event whose segments are words spaced stepMs apart.
func wordEvent(startMs, stepMs int64, words ...string) timedtext.Event {
	segs := make([]timedtext.Segment, 0, len(words))
	for i, w := range words {
		segs = append(segs, timedtext.Segment{UTF8: w, OffsetMs: int64(i) * stepMs})
	}
	duration := int64(len(words)) * stepMs
	if duration == 0 {
		duration = stepMs
	}
	return timedtext.Event{StartMs: startMs, DurationMs: duration, Segments: segs}
}

func cueTexts(cues []cue.Cue) []string {
	texts := make([]string, 0, len(cues))
	for _, c := range cues {
		texts = append(texts, c.Text)
	}
	return texts
}

func TestBuildCuesSanitizeScenario(t *testing.T) {
	b := newTestBuilder()
	events := []timedtext.Event{
		{StartMs: 0, DurationMs: 600, Segments: []timedtext.Segment{{UTF8: "hello world"}}},
		{StartMs: 700, Segments: []timedtext.Segment{{UTF8: "no duration"}}},
		{StartMs: 1200, DurationMs: 500, Append: 1, Segments: []timedtext.Segment{{UTF8: "\n"}}},
		{StartMs: 1800, DurationMs: 500},
	}

	cues := b.BuildCues(events, "en", "en/asr/t", cue.SourceHook)
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1: %v", len(cues), cueTexts(cues))
	}
	if cues[0].Text != "hello world" {
		t.Fatalf("cue text = %q, want %q", cues[0].Text, "hello world")
	}
	if cues[0].StartMs != 0 || cues[0].EndMs != 600 {
		t.Fatalf("cue span = [%d,%d], want [0,600]", cues[0].StartMs, cues[0].EndMs)
	}
}

func TestBuildCuesDeterministic(t *testing.T) {
	b := newTestBuilder()
	events := []timedtext.Event{
		wordEvent(0, 300, "the", "first", "part", "of", "the", "sentence"),
		wordEvent(2500, 300, "continues", "after", "a", "short", "pause"),
	}

	first := b.BuildCues(events, "en", "en/asr/t", cue.SourceHook)
	second := b.BuildCues(events, "en", "en/asr/t", cue.SourceHook)
	if len(first) == 0 {
		t.Fatal("expected cues")
	}
	if len(first) != len(second) {
		t.Fatalf("cue counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("cue %d id differs: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}

func TestBuildCuesSplitsOnSilenceGap(t *testing.T) {
	b := newTestBuilder()
	events := []timedtext.Event{
		wordEvent(0, 200, "first", "thought", "here"),
		// 2s of silence exceeds the English 800ms interval.
		wordEvent(2600, 200, "second", "thought", "there"),
	}

	cues := b.BuildCues(events, "en", "en/asr/t", cue.SourceHook)
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2: %v", len(cues), cueTexts(cues))
	}
	if cues[0].Text != "first thought here" || cues[1].Text != "second thought there" {
		t.Fatalf("unexpected texts: %v", cueTexts(cues))
	}
	// First cue ends where the second begins or at its explicit event end.
	if cues[0].EndMs > cues[1].StartMs {
		t.Fatalf("cue spans overlap: %d > %d", cues[0].EndMs, cues[1].StartMs)
	}
}

func TestBuildCuesBreakWordOpensGroup(t *testing.T) {
	b := newTestBuilder()
	// One long unpunctuated run; "so" arrives 2.4s in, past the 2.2s
	// minimum elapsed time for an English break word.
	words := []string{"we", "kept", "talking", "about", "the", "same", "topic", "again"}
	ev := wordEvent(0, 300, words...)
	ev.Segments = append(ev.Segments,
		timedtext.Segment{UTF8: "so", OffsetMs: 2500},
		timedtext.Segment{UTF8: "let's", OffsetMs: 2700},
		timedtext.Segment{UTF8: "move", OffsetMs: 2900},
		timedtext.Segment{UTF8: "on", OffsetMs: 3100},
	)
	ev.DurationMs = 3400

	cues := b.BuildCues([]timedtext.Event{ev}, "en", "en/asr/t", cue.SourceHook)
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2: %v", len(cues), cueTexts(cues))
	}
	if !strings.HasPrefix(cues[1].Text, "so ") {
		t.Fatalf("second cue should open with the break word: %q", cues[1].Text)
	}
}

func TestBuildCuesBalancesLongGroups(t *testing.T) {
	b := newTestBuilder()
	words := make([]string, 40)
	for i := range words {
		words[i] = "word"
	}
	cues := b.BuildCues([]timedtext.Event{wordEvent(0, 150, words...)}, "en", "en/asr/t", cue.SourceHook)
	if len(cues) < 2 {
		t.Fatalf("expected a 40-word group to be re-split, got %d cue(s)", len(cues))
	}
	for _, c := range cues {
		if n := len(strings.Fields(c.Text)); n > 16 {
			t.Errorf("cue exceeds English word cap: %d words in %q", n, c.Text)
		}
	}
}

func TestBuildCuesPunctuationRouting(t *testing.T) {
	b := newTestBuilder()
	// Twelve punctuated tokens trigger punctuation-first splitting.
	sentences := []string{
		"One.", "Two.", "Three.", "Four.", "Five.", "Six.",
		"Seven.", "Eight.", "Nine.", "Ten.", "Eleven.", "Twelve.",
	}
	cues := b.BuildCues([]timedtext.Event{wordEvent(0, 800, sentences...)}, "en", "en/asr/t", cue.SourceHook)
	if len(cues) != 12 {
		t.Fatalf("got %d cues, want 12: %v", len(cues), cueTexts(cues))
	}
	for i, c := range cues {
		if !strings.HasSuffix(c.Text, ".") {
			t.Errorf("cue %d lost its terminal punctuation: %q", i, c.Text)
		}
	}
}

func TestBuildCuesEarlySkipOnCharJunk(t *testing.T) {
	b := newTestBuilder()
	// 24 letterless one-character tokens widely spaced: no density, no cues.
	segs := make([]timedtext.Segment, 24)
	for i := range segs {
		segs[i] = timedtext.Segment{UTF8: "#", OffsetMs: int64(i) * 400}
	}
	ev := timedtext.Event{StartMs: 0, DurationMs: 10_000, Segments: segs}

	if cues := b.BuildCues([]timedtext.Event{ev}, "en", "en/asr/t", cue.SourceHook); len(cues) != 0 {
		t.Fatalf("expected no cues for unstable stream, got %v", cueTexts(cues))
	}
}

func TestBuildCuesRunOnRemerge(t *testing.T) {
	b := newTestBuilder()
	// Letterless single-character fragments 40ms apart with 300ms word gaps.
	segs := []timedtext.Segment{
		{UTF8: "1", OffsetMs: 0}, {UTF8: "2", OffsetMs: 40}, {UTF8: "3", OffsetMs: 80},
		{UTF8: "4", OffsetMs: 380}, {UTF8: "5", OffsetMs: 420},
	}
	ev := timedtext.Event{StartMs: 0, DurationMs: 1000, Segments: segs}

	cues := b.BuildCues([]timedtext.Event{ev}, "en", "en/asr/t", cue.SourceHook)
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1: %v", len(cues), cueTexts(cues))
	}
	if cues[0].Text != "123 45" {
		t.Fatalf("run-on fragments not re-merged: %q", cues[0].Text)
	}
}

func TestBuildCuesEmptyAndMalformedInput(t *testing.T) {
	b := newTestBuilder()
	if cues := b.BuildCues(nil, "en", "k", cue.SourceHook); len(cues) != 0 {
		t.Fatal("nil input must yield no cues")
	}
	junk := []timedtext.Event{{StartMs: 5}, {StartMs: 9, DurationMs: -4}}
	if cues := b.BuildCues(junk, "en", "k", cue.SourceHook); len(cues) != 0 {
		t.Fatal("malformed input must yield no cues")
	}
}

func TestBuildCuesUnknownLanguageStillProducesCues(t *testing.T) {
	b := newTestBuilder()
	events := []timedtext.Event{wordEvent(0, 300, "palabras", "sin", "perfil", "propio")}
	cues := b.BuildCues(events, "xx", "xx/asr/t", cue.SourceHook)
	if len(cues) == 0 {
		t.Fatal("unknown language must still produce cues via the base profile")
	}
}

func TestBuildCuesConfidenceBounds(t *testing.T) {
	b := newTestBuilder()
	events := []timedtext.Event{
		wordEvent(0, 400, "a", "full", "sentence", "spoken", "at", "a", "normal", "pace."),
	}
	cues := b.BuildCues(events, "en", "en/asr/t", cue.SourceHook)
	for _, c := range cues {
		if c.Confidence < 0 || c.Confidence > 1 {
			t.Fatalf("confidence out of range: %v", c.Confidence)
		}
	}
}
