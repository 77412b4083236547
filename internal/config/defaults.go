package config

const (
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults. Every
// threshold matches the value the pipeline was tuned with.
func Default() Config {
	return Config{
		Stabilizer: Stabilizer{
			EarlySkipTokens:      20,
			EarlySkipMinWords:    6,
			EarlySkipMinChars:    24,
			PunctuatedRouteMin:   10,
			RunOnLetterlessRatio: 0.9,
			FloorDurationMs:      1800,
			MaxBalanceDepth:      8,
		},
		Merger: Merger{
			MaxGapMs:           1200,
			MaxChars:           120,
			MaxSpanMs:          7000,
			ShortFragmentWords: 3,
		},
		DOMText: DOMText{
			QuietMs:     700,
			ForceMs:     3000,
			PadMs:       2200,
			DedupeTTLMs: 5000,
			MinWords:    1,
			MinChars:    2,
		},
		Render: Render{
			ProximityWindowMs: 6000,
			HoldMs:            900,
			SeekJumpMs:        1500,
		},
		Engine: Engine{
			DebounceMs:      250,
			DedupeTTLMs:     10_000,
			ParseErrorLimit: 3,
			PruneHorizonMs:  120_000,
			MaxCuesPerTrack: 400,
			RenderTickMs:    250,
		},
		Translator: Translator{
			TargetLang:     "en",
			TimeoutSeconds: 10,
			MaxBatchItems:  16,
			MaxBatchChars:  1600,
			MaxBatchBytes:  4096,
			PollMs:         400,
			MaxAttempts:    3,
		},
		Cache: Cache{
			Dir:        "~/.cache/captionsync",
			MaxEntries: 10_000,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
