package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Stabilizer contains thresholds for the ASR sentence stabilizer.
type Stabilizer struct {
	// EarlySkipTokens is how many leading tokens are examined for density
	// before the stabilizer gives up on a not-yet-stable stream.
	EarlySkipTokens int `toml:"early_skip_tokens"`
	// EarlySkipMinWords is the minimum word count those tokens must reach.
	EarlySkipMinWords int `toml:"early_skip_min_words"`
	// EarlySkipMinChars is the minimum total character count they must reach.
	EarlySkipMinChars int `toml:"early_skip_min_chars"`
	// PunctuatedRouteMin switches to punctuation-first splitting once this
	// many tokens end in sentence punctuation.
	PunctuatedRouteMin int `toml:"punctuated_route_min"`
	// RunOnLetterlessRatio triggers character re-merging when this fraction
	// of tokens carries no letter.
	RunOnLetterlessRatio float64 `toml:"run_on_letterless_ratio"`
	// FloorDurationMs pads a cue whose end cannot be derived from the stream.
	FloorDurationMs int64 `toml:"floor_duration_ms"`
	// MaxBalanceDepth caps the recursive word-count re-splitting.
	MaxBalanceDepth int `toml:"max_balance_depth"`
}

// Merger contains thresholds for the manual caption sentence merger.
type Merger struct {
	MaxGapMs  int64 `toml:"max_gap_ms"`
	MaxChars  int   `toml:"max_chars"`
	MaxSpanMs int64 `toml:"max_span_ms"`
	// ShortFragmentWords is the word count at or below which an unpunctuated
	// following fragment is folded in even without a continuation word.
	ShortFragmentWords int `toml:"short_fragment_words"`
}

// DOMText contains thresholds for the DOM fallback committer.
type DOMText struct {
	QuietMs     int64 `toml:"quiet_ms"`
	ForceMs     int64 `toml:"force_ms"`
	PadMs       int64 `toml:"pad_ms"`
	DedupeTTLMs int64 `toml:"dedupe_ttl_ms"`
	MinWords    int   `toml:"min_words"`
	MinChars    int   `toml:"min_chars"`
}

// Render contains thresholds for cue selection and the anti-flicker hold.
type Render struct {
	ProximityWindowMs int64 `toml:"proximity_window_ms"`
	HoldMs            int64 `toml:"hold_ms"`
	SeekJumpMs        int64 `toml:"seek_jump_ms"`
}

// Engine contains session-level timing and bounds.
type Engine struct {
	DebounceMs      int64 `toml:"debounce_ms"`
	DedupeTTLMs     int64 `toml:"dedupe_ttl_ms"`
	ParseErrorLimit int   `toml:"parse_error_limit"`
	PruneHorizonMs  int64 `toml:"prune_horizon_ms"`
	MaxCuesPerTrack int   `toml:"max_cues_per_track"`
	RenderTickMs    int64 `toml:"render_tick_ms"`
}

// Translator contains settings for the translation dispatcher and backend.
type Translator struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TargetLang     string `toml:"target_lang"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxBatchItems  int    `toml:"max_batch_items"`
	MaxBatchChars  int    `toml:"max_batch_chars"`
	MaxBatchBytes  int    `toml:"max_batch_bytes"`
	PollMs         int64  `toml:"poll_ms"`
	MaxAttempts    int    `toml:"max_attempts"`
}

// Cache contains settings for the persistent translation cache. Disabled by
// default; session state itself is never persisted.
type Cache struct {
	Enabled    bool   `toml:"enabled"`
	Dir        string `toml:"dir"`
	MaxEntries int    `toml:"max_entries"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for captionsync.
//
// Configuration sections by subsystem:
//   - Stabilizer: ASR sentence grouping thresholds
//   - Merger: manual caption sentence merging bounds
//   - DOMText: fallback committer timing and dedupe
//   - Render: cue selection window and anti-flicker hold
//   - Engine: session debounce, dedupe, pruning, tick interval
//   - Translator: dispatcher batching, retry, and backend endpoint
//   - Cache: optional persistent translation cache
//   - Logging: log format and level
type Config struct {
	Stabilizer Stabilizer `toml:"stabilizer"`
	Merger     Merger     `toml:"merger"`
	DOMText    DOMText    `toml:"domtext"`
	Render     Render     `toml:"render"`
	Engine     Engine     `toml:"engine"`
	Translator Translator `toml:"translator"`
	Cache      Cache      `toml:"cache"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/captionsync/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults apply. Returns the config, the resolved path, and
// whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("captionsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	if key := strings.TrimSpace(os.Getenv("CAPTIONSYNC_TRANSLATOR_API_KEY")); key != "" {
		c.Translator.APIKey = key
	}
	c.Translator.BaseURL = strings.TrimRight(strings.TrimSpace(c.Translator.BaseURL), "/")
	c.Translator.TargetLang = strings.ToLower(strings.TrimSpace(c.Translator.TargetLang))

	if c.Cache.Dir != "" {
		expanded, err := expandPath(c.Cache.Dir)
		if err != nil {
			return fmt.Errorf("cache.dir: %w", err)
		}
		c.Cache.Dir = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
