package timedtext

import (
	"sort"
	"strings"
)

// Sanitize filters events down to the ones the pipeline can use: a valid
// duration, at least one segment with visible text, and not a
// continuation-only append. The result is sorted by start time. The input
// slice is never modified.
func Sanitize(events []Event) []Event {
	if len(events) == 0 {
		return nil
	}
	kept := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.DurationMs <= 0 {
			continue
		}
		if ev.IsContinuation() {
			continue
		}
		if !hasVisibleText(ev) {
			continue
		}
		kept = append(kept, ev)
	}
	if len(kept) == 0 {
		return nil
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartMs < kept[j].StartMs
	})
	return kept
}

// Tokens flattens an event's segments into timed tokens with absolute
// timestamps. Segments with no visible text are skipped. EndMs is filled in
// only for the last token, from the event's explicit duration.
func Tokens(ev Event) []TimedToken {
	tokens := make([]TimedToken, 0, len(ev.Segments))
	for _, seg := range ev.Segments {
		text := strings.TrimSpace(strings.ReplaceAll(seg.UTF8, "\n", " "))
		if text == "" {
			continue
		}
		tokens = append(tokens, TimedToken{
			StartMs: ev.StartMs + seg.OffsetMs,
			Text:    text,
		})
	}
	if n := len(tokens); n > 0 && ev.DurationMs > 0 {
		tokens[n-1].EndMs = ev.StartMs + ev.DurationMs
	}
	return tokens
}

// Text joins an event's visible segment text with normalized spacing.
func Text(ev Event) string {
	var b strings.Builder
	for _, seg := range ev.Segments {
		text := strings.TrimSpace(strings.ReplaceAll(seg.UTF8, "\n", " "))
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}
	return b.String()
}

func hasVisibleText(ev Event) bool {
	for _, seg := range ev.Segments {
		if strings.TrimSpace(strings.ReplaceAll(seg.UTF8, "\n", " ")) != "" {
			return true
		}
	}
	return false
}
