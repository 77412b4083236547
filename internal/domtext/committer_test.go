package domtext

import (
	"testing"
	"time"

	"captionsync/internal/config"
	"captionsync/internal/logging"
)

func newTestCommitter() *Committer {
	return New(config.Default().DOMText, "dom/main", logging.NewNop())
}

func at(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func TestIngestQuietCommit(t *testing.T) {
	c := newTestCommitter()

	if got := c.Ingest("w", "hello world", 1000, at(1000)); got != nil {
		t.Fatalf("first snapshot should not commit, got %+v", got)
	}
	// 705ms of no change passes the 700ms quiet threshold.
	committed := c.Ingest("w", "hello world", 1700, at(1705))
	if committed == nil {
		t.Fatal("expected quiet commit")
	}
	if committed.Text != "hello world" {
		t.Fatalf("committed text = %q", committed.Text)
	}
	if committed.StartMs != 1700 || committed.EndMs != 1700+2200 {
		t.Fatalf("committed span = [%d,%d]", committed.StartMs, committed.EndMs)
	}

	// Identical text within the dedupe TTL never re-commits.
	if got := c.Ingest("w", "hello world", 2500, at(2500)); got != nil {
		t.Fatalf("expected TTL suppression, got %+v", got)
	}
}

func TestIngestPunctuationCommitsImmediately(t *testing.T) {
	c := newTestCommitter()
	committed := c.Ingest("w", "A complete sentence.", 500, at(500))
	if committed == nil {
		t.Fatal("terminal punctuation should commit at once")
	}
}

func TestIngestGrowingTextResetsQuietTimer(t *testing.T) {
	c := newTestCommitter()
	c.Ingest("w", "hello", 0, at(0))
	// Growth at 600ms resets the quiet clock.
	if got := c.Ingest("w", "hello world", 600, at(600)); got != nil {
		t.Fatalf("growing text should not commit, got %+v", got)
	}
	// 650ms after the growth the quiet threshold is still not met.
	if got := c.Ingest("w", "hello world", 1250, at(1250)); got != nil {
		t.Fatalf("quiet threshold not yet reached, got %+v", got)
	}
	if got := c.Ingest("w", "hello world", 1400, at(1400)); got == nil {
		t.Fatal("expected quiet commit 800ms after last change")
	}
}

func TestIngestReplacementCommitsOldText(t *testing.T) {
	c := newTestCommitter()
	c.Ingest("w", "first caption line", 0, at(0))
	committed := c.Ingest("w", "completely different", 400, at(400))
	if committed == nil {
		t.Fatal("replacement should commit the old text")
	}
	if committed.Text != "first caption line" {
		t.Fatalf("committed text = %q, want old text", committed.Text)
	}
}

func TestCommitStartsAreMonotonicPerWindow(t *testing.T) {
	c := newTestCommitter()
	c.Ingest("w", "first caption line", 1000, at(1000))
	first := c.Ingest("w", "second caption text", 1500, at(1500))
	if first == nil {
		t.Fatal("expected replacement commit")
	}
	// The next commit happens at an earlier video time than the previous
	// cue's end; the start must be clamped to that end.
	second := c.Ingest("w", "third caption words", 2000, at(2000))
	if second == nil {
		t.Fatal("expected replacement commit")
	}
	if second.StartMs < first.EndMs {
		t.Fatalf("start %d overlaps previous end %d", second.StartMs, first.EndMs)
	}
}

func TestCommitRejectsBelowThresholds(t *testing.T) {
	cfg := config.Default().DOMText
	cfg.MinWords = 2
	cfg.MinChars = 6
	c := New(cfg, "dom/main", logging.NewNop())

	c.Ingest("w", "hi", 0, at(0))
	if got := c.Ingest("w", "hi", 900, at(900)); got != nil {
		t.Fatalf("below-threshold text must not commit, got %+v", got)
	}
}

func TestFlushForceCommit(t *testing.T) {
	c := newTestCommitter()
	// Churn keeps the quiet timer resetting, but the force duration passes.
	c.Ingest("w", "building", 0, at(0))
	c.Ingest("w", "building up", 600, at(600))
	c.Ingest("w", "building up text", 1200, at(1200))
	c.Ingest("w", "building up text more", 1800, at(1800))
	c.Ingest("w", "building up text more still", 2400, at(2400))

	cues := c.Flush(3100, at(3100))
	if len(cues) != 1 {
		t.Fatalf("got %d cues from flush, want 1", len(cues))
	}
	if cues[0].Text != "building up text more still" {
		t.Fatalf("flushed text = %q", cues[0].Text)
	}
}

func TestDropMissingWindows(t *testing.T) {
	c := newTestCommitter()
	c.Ingest("a", "window a text", 0, at(0))
	c.Ingest("b", "window b text", 0, at(0))

	c.DropMissingWindows(map[string]struct{}{"b": {}})

	// Window a is gone; a late flush commits only b.
	cues := c.Flush(5000, at(5000))
	if len(cues) != 1 || cues[0].Text != "window b text" {
		t.Fatalf("unexpected flush result: %+v", cues)
	}
}
