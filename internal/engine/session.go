package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"captionsync/internal/config"
	"captionsync/internal/cue"
	"captionsync/internal/domtext"
	"captionsync/internal/language"
	"captionsync/internal/logging"
	"captionsync/internal/merger"
	"captionsync/internal/render"
	"captionsync/internal/stabilizer"
	"captionsync/internal/timedtext"
	"captionsync/internal/translate"
)

// domTrackKey names the synthetic track that the DOM fallback committer
// writes into when no hook track is known.
const domTrackKey = "und/dom/fallback"

// windowHintTTL bounds how long a DOM snapshot keeps biasing cue selection
// after snapshots stop arriving.
const windowHintTTL = 5 * time.Second

// TranslationSource answers "is this cue translated yet". The dispatcher's
// result map satisfies it.
type TranslationSource interface {
	Result(id string) (string, bool)
}

// Output is the display pair chosen on one render tick. Both fields empty
// means "show nothing".
type Output struct {
	Original   string
	Translated string
	CueID      string
	TrackKey   string
}

// pendingTrack buffers events for one track during the debounce window.
type pendingTrack struct {
	lang     string
	isASR    bool
	events   []timedtext.Event
	deadline time.Time
}

// Session is the per-capture state machine. Not safe for concurrent use;
// wrap it in a Loop when triggers arrive from multiple goroutines.
type Session struct {
	ID string

	cfg    *config.Config
	logger *slog.Logger

	stabilizer   *stabilizer.Builder
	mergers      map[string]*merger.Merger
	committer    *domtext.Committer
	queue        *translate.Queue
	translations TranslationSource
	selector     render.Selector

	original   *render.PlaybackResolver
	translated *render.PlaybackResolver

	tracks      map[string]*cue.TrackState
	pending     map[string]*pendingTrack
	seen        map[string]time.Time
	alerted     map[string]bool
	activeTrack  string
	windowText   string
	windowTextAt time.Time

	parseErrs int
	fallback  bool
}

// NewSession builds a session around a shared translation queue. translations
// may be nil when translation is disabled.
func NewSession(cfg *config.Config, queue *translate.Queue, translations TranslationSource, logger *slog.Logger) *Session {
	id := uuid.NewString()
	logger = logging.WithComponent(logger, "session").With(slog.String(logging.FieldSessionID, id))
	return &Session{
		ID:           id,
		cfg:          cfg,
		logger:       logger,
		stabilizer:   stabilizer.New(cfg.Stabilizer, logger),
		mergers:      make(map[string]*merger.Merger),
		queue:        queue,
		translations: translations,
		selector:     render.NewSelector(cfg.Render),
		original:     render.NewPlaybackResolver(cfg.Render),
		translated:   render.NewPlaybackResolver(cfg.Render),
		tracks:       make(map[string]*cue.TrackState),
		pending:      make(map[string]*pendingTrack),
		seen:         make(map[string]time.Time),
		alerted:      make(map[string]bool),
	}
}

// SetSelector replaces the cue-selection strategy.
func (s *Session) SetSelector(selector render.Selector) {
	if selector != nil {
		s.selector = selector
	}
}

// FallbackActive reports whether the session has given up on hook payloads
// and expects DOM snapshots instead.
func (s *Session) FallbackActive() bool {
	return s.fallback
}

// HandlePayload ingests one captured payload. Events are buffered per track
// and stabilized after the debounce window; bursts collapse into one run.
func (s *Session) HandlePayload(p timedtext.Payload, now time.Time) {
	if p.ParseError {
		s.parseErrs++
		if reported := p.ConsecutiveParseErrs; reported > s.parseErrs {
			s.parseErrs = reported
		}
		if !s.fallback && s.parseErrs >= s.cfg.Engine.ParseErrorLimit {
			s.fallback = true
			// A committer left over from an earlier fallback episode may
			// target a track the session has since moved away from; rebuild
			// it so commits land where renderTrack reads.
			if s.committer != nil && s.committer.TrackKey() != s.fallbackTrackKey() {
				s.committer.Reset()
				s.committer = nil
			}
			s.logger.Warn("switching to dom fallback",
				slog.Int("consecutive_parse_errors", s.parseErrs),
				slog.String(logging.FieldAlert, "parse_errors"))
		}
		return
	}
	if s.parseErrs > 0 || s.fallback {
		s.parseErrs = 0
		s.fallback = false
		s.logger.Info("hook payloads recovered")
	}

	if s.isDuplicate(p, now) {
		return
	}
	if len(p.Events) == 0 {
		return
	}

	key := p.TrackKey()
	pt := s.pending[key]
	if pt == nil {
		pt = &pendingTrack{lang: p.TrackLang, isASR: p.IsASR}
		s.pending[key] = pt
	}
	pt.events = append(pt.events, p.Events...)
	pt.deadline = now.Add(time.Duration(s.cfg.Engine.DebounceMs) * time.Millisecond)
	s.activeTrack = key
}

// isDuplicate records the payload identity and reports whether the same
// (url, responseHash) pair arrived within the dedupe TTL.
func (s *Session) isDuplicate(p timedtext.Payload, now time.Time) bool {
	ttl := time.Duration(s.cfg.Engine.DedupeTTLMs) * time.Millisecond
	for key, at := range s.seen {
		if now.Sub(at) > ttl {
			delete(s.seen, key)
		}
	}
	key := p.URL + "|" + p.ResponseHash
	if at, ok := s.seen[key]; ok && now.Sub(at) <= ttl {
		return true
	}
	s.seen[key] = now
	return false
}

// flushDue runs the producer pipeline for every track whose debounce window
// has elapsed.
func (s *Session) flushDue(now time.Time) {
	for key, pt := range s.pending {
		if now.Before(pt.deadline) {
			continue
		}
		delete(s.pending, key)
		s.stabilizeTrack(key, pt, now)
	}
}

func (s *Session) stabilizeTrack(key string, pt *pendingTrack, now time.Time) {
	var cues []cue.Cue
	if pt.isASR {
		cues = s.stabilizer.BuildCues(pt.events, pt.lang, key, cue.SourceHook)
	} else {
		cues = s.mergerFor(pt.lang).BuildCues(pt.events, key, cue.SourceHook)
	}

	state := s.trackState(key)
	state.LastHookAt = now
	inserted := 0
	for _, c := range cues {
		if s.insertCue(state, c) {
			inserted++
		}
	}
	if inserted > 0 {
		s.logger.Debug("track updated",
			slog.String(logging.FieldTrack, key),
			slog.Int("new_cues", inserted),
			slog.Int("live_cues", state.Len()))
	}
	s.checkLowConfidence(state)
}

func (s *Session) mergerFor(lang string) *merger.Merger {
	code := language.BaseCode(lang)
	m := s.mergers[code]
	if m == nil {
		m = merger.New(s.cfg.Merger, language.Lookup(lang), s.logger)
		s.mergers[code] = m
	}
	return m
}

func (s *Session) trackState(key string) *cue.TrackState {
	state := s.tracks[key]
	if state == nil {
		state = cue.NewTrackState(key, s.cfg.Engine.PruneHorizonMs, s.cfg.Engine.MaxCuesPerTrack)
		s.tracks[key] = state
	}
	return state
}

// insertCue adds the cue to track state and queues it for translation.
func (s *Session) insertCue(state *cue.TrackState, c cue.Cue) bool {
	if !state.Insert(c) {
		return false
	}
	s.queue.Enqueue(c.ID, c.Text)
	return true
}

func (s *Session) checkLowConfidence(state *cue.TrackState) {
	if s.alerted[state.TrackKey] {
		return
	}
	if !cue.DetectLowConfidence(state.Cues()) {
		return
	}
	s.alerted[state.TrackKey] = true
	s.logger.Warn("track looks unstable",
		slog.String(logging.FieldTrack, state.TrackKey),
		slog.String(logging.FieldAlert, "low_confidence"))
}

// HandleDOMSnapshot ingests one visible-text observation. The text refreshes
// the similarity hint (an empty snapshot clears it); cues are only committed
// while the session is in fallback mode.
func (s *Session) HandleDOMSnapshot(windowID, rawText string, videoMs int64, now time.Time) {
	if strings.TrimSpace(rawText) == "" {
		s.windowText = ""
	} else {
		s.windowText = rawText
		s.windowTextAt = now
	}
	if !s.fallback {
		return
	}
	c := s.domCommitter().Ingest(windowID, rawText, videoMs, now)
	if c == nil {
		return
	}
	s.insertCue(s.trackState(c.TrackKey), *c)
}

// FlushDOM forces pending window text through the commit checks, e.g. before
// a teardown or when mutation events go quiet.
func (s *Session) FlushDOM(videoMs int64, now time.Time) {
	if s.committer == nil {
		return
	}
	for _, c := range s.committer.Flush(videoMs, now) {
		s.insertCue(s.trackState(c.TrackKey), c)
	}
}

// DropMissingWindows discards committer state for windows that vanished from
// the page.
func (s *Session) DropMissingWindows(validIDs map[string]struct{}) {
	if s.committer != nil {
		s.committer.DropMissingWindows(validIDs)
	}
}

func (s *Session) domCommitter() *domtext.Committer {
	if s.committer == nil {
		s.committer = domtext.New(s.cfg.DOMText, s.fallbackTrackKey(), s.logger)
	}
	return s.committer
}

// fallbackTrackKey is the track the DOM committer should write into right
// now: the last active hook track, or the synthetic key.
func (s *Session) fallbackTrackKey() string {
	if s.activeTrack != "" {
		return s.activeTrack
	}
	return domTrackKey
}

// Tick runs one render evaluation at the given playback position. Due
// debounce windows are flushed first so freshly stabilized cues are eligible
// on the same tick.
func (s *Session) Tick(videoMs int64, paused bool, now time.Time) Output {
	s.flushDue(now)
	if s.windowText != "" && now.Sub(s.windowTextAt) > windowHintTTL {
		s.windowText = ""
	}

	state := s.renderTrack()
	var selected *cue.Cue
	if state != nil {
		state.Prune(videoMs)
		selected = s.selector.Select(state.Cues(), videoMs, s.windowText)
	}

	var out Output
	var original, translated string
	if selected != nil {
		out.CueID = selected.ID
		out.TrackKey = selected.TrackKey
		original = selected.Text
		if s.translations != nil {
			translated, _ = s.translations.Result(selected.ID)
		}
	}
	out.Original = s.original.Resolve(original, videoMs, paused, now)
	out.Translated = s.translated.Resolve(translated, videoMs, paused, now)
	return out
}

// renderTrack picks the track whose cues feed the selector: the active hook
// track, or whatever the DOM committer writes into while in fallback.
func (s *Session) renderTrack() *cue.TrackState {
	if s.fallback && s.committer != nil {
		if state := s.tracks[s.committer.TrackKey()]; state != nil {
			return state
		}
	}
	if s.activeTrack != "" {
		return s.tracks[s.activeTrack]
	}
	return s.tracks[domTrackKey]
}

// Stop tears the session down synchronously: every buffer, timer deadline,
// and state map is cleared so nothing can fire into a stale track.
func (s *Session) Stop() {
	s.tracks = make(map[string]*cue.TrackState)
	s.pending = make(map[string]*pendingTrack)
	s.seen = make(map[string]time.Time)
	s.alerted = make(map[string]bool)
	s.activeTrack = ""
	s.windowText = ""
	s.windowTextAt = time.Time{}
	s.parseErrs = 0
	s.fallback = false
	if s.committer != nil {
		s.committer.Reset()
		s.committer = nil
	}
	s.original.Reset()
	s.translated.Reset()
	s.queue.Reset()
	s.logger.Info("session stopped")
}
