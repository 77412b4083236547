package timedtext

import (
	"encoding/json"
	"time"
)

// TimedToken is one lexical unit with an origin timestamp. EndMs is zero
// unless the originating event carried an explicit duration for the token.
type TimedToken struct {
	StartMs int64
	EndMs   int64
	Text    string
}

// Segment is the wire form of one token inside an event. Offsets are relative
// to the event start, per the timedtext JSON format.
type Segment struct {
	UTF8     string `json:"utf8"`
	OffsetMs int64  `json:"tOffsetMs,omitempty"`
}

// Event is one caption event as delivered by the capture layer.
type Event struct {
	StartMs    int64     `json:"tStartMs"`
	DurationMs int64     `json:"dDurationMs,omitempty"`
	Append     int       `json:"aAppend,omitempty"`
	Segments   []Segment `json:"segs,omitempty"`
}

// IsContinuation reports whether the event only appends to the previous one
// (newline glue emitted by ASR tracks) and carries no standalone content.
func (e Event) IsContinuation() bool {
	return e.Append == 1
}

// Payload is the envelope delivered by the network-interception collaborator
// for one captured caption response.
type Payload struct {
	URL                  string          `json:"url"`
	TrackLang            string          `json:"trackLang"`
	IsASR                bool            `json:"isAsr"`
	TrackSignature       string          `json:"trackSignature"`
	Events               []Event         `json:"events"`
	ResponseHash         string          `json:"responseHash"`
	ReceivedAt           time.Time       `json:"receivedAt"`
	ParseError           bool            `json:"parseError,omitempty"`
	ConsecutiveParseErrs int             `json:"consecutiveParseErrors,omitempty"`
	Raw                  json.RawMessage `json:"-"`
}

// TrackKey identifies the subtitle track this payload belongs to.
func (p Payload) TrackKey() string {
	kind := "sub"
	if p.IsASR {
		kind = "asr"
	}
	return p.TrackLang + "/" + kind + "/" + p.TrackSignature
}
