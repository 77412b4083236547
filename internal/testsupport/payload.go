package testsupport

import (
	"captionsync/internal/timedtext"
)

// ManualPayload builds a manual-track payload with one event per text,
// spaced wide enough apart that the merger keeps them separate.
func ManualPayload(hash string, texts ...string) timedtext.Payload {
	events := make([]timedtext.Event, 0, len(texts))
	start := int64(0)
	for _, text := range texts {
		events = append(events, timedtext.Event{
			StartMs:    start,
			DurationMs: 1500,
			Segments:   []timedtext.Segment{{UTF8: text}},
		})
		start += 3000
	}
	return timedtext.Payload{
		URL:            "https://example.test/timedtext",
		TrackLang:      "en",
		TrackSignature: "sig",
		ResponseHash:   hash,
		Events:         events,
	}
}

// ASRPayload builds an ASR-track payload from word/offset pairs within one
// event.
func ASRPayload(hash string, startMs, durationMs int64, segments ...timedtext.Segment) timedtext.Payload {
	return timedtext.Payload{
		URL:            "https://example.test/timedtext",
		TrackLang:      "en",
		IsASR:          true,
		TrackSignature: "sig",
		ResponseHash:   hash,
		Events: []timedtext.Event{
			{StartMs: startMs, DurationMs: durationMs, Segments: segments},
		},
	}
}

// ParseErrorPayload builds the parse-failure envelope the capture layer sends
// when it cannot decode a response.
func ParseErrorPayload() timedtext.Payload {
	return timedtext.Payload{ParseError: true}
}
