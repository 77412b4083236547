package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStabilizer(); err != nil {
		return err
	}
	if err := c.validateMerger(); err != nil {
		return err
	}
	if err := c.validateDOMText(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateTranslator(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStabilizer() error {
	s := c.Stabilizer
	if s.RunOnLetterlessRatio < 0 || s.RunOnLetterlessRatio > 1 {
		return errors.New("stabilizer.run_on_letterless_ratio must be between 0 and 1")
	}
	if s.FloorDurationMs <= 0 {
		return errors.New("stabilizer.floor_duration_ms must be positive")
	}
	if s.MaxBalanceDepth <= 0 {
		return errors.New("stabilizer.max_balance_depth must be positive")
	}
	return nil
}

func (c *Config) validateMerger() error {
	m := c.Merger
	if m.MaxGapMs <= 0 || m.MaxSpanMs <= 0 {
		return errors.New("merger.max_gap_ms and merger.max_span_ms must be positive")
	}
	if m.MaxChars <= 0 {
		return errors.New("merger.max_chars must be positive")
	}
	return nil
}

func (c *Config) validateDOMText() error {
	d := c.DOMText
	if d.QuietMs <= 0 || d.ForceMs <= 0 || d.PadMs <= 0 {
		return errors.New("domtext timings must be positive")
	}
	if d.ForceMs < d.QuietMs {
		return fmt.Errorf("domtext.force_ms (%d) must not be below domtext.quiet_ms (%d)", d.ForceMs, d.QuietMs)
	}
	return nil
}

func (c *Config) validateRender() error {
	r := c.Render
	if r.ProximityWindowMs <= 0 {
		return errors.New("render.proximity_window_ms must be positive")
	}
	if r.HoldMs < 0 || r.SeekJumpMs <= 0 {
		return errors.New("render.hold_ms must be non-negative and render.seek_jump_ms positive")
	}
	return nil
}

func (c *Config) validateEngine() error {
	e := c.Engine
	if e.ParseErrorLimit <= 0 {
		return errors.New("engine.parse_error_limit must be positive")
	}
	if e.MaxCuesPerTrack <= 0 || e.PruneHorizonMs <= 0 {
		return errors.New("engine.max_cues_per_track and engine.prune_horizon_ms must be positive")
	}
	if e.RenderTickMs <= 0 {
		return errors.New("engine.render_tick_ms must be positive")
	}
	return nil
}

func (c *Config) validateTranslator() error {
	t := c.Translator
	if !t.Enabled {
		return nil
	}
	if t.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/captionsync/config.toml"
		}
		return fmt.Errorf("translator.base_url is required when the translator is enabled; edit %s (create with 'captionsync config init')", defaultPath)
	}
	if t.MaxBatchItems <= 0 || t.MaxBatchChars <= 0 || t.MaxBatchBytes <= 0 {
		return errors.New("translator batch limits must be positive")
	}
	if t.MaxAttempts <= 0 {
		return errors.New("translator.max_attempts must be positive")
	}
	if t.TargetLang == "" {
		return errors.New("translator.target_lang must be set")
	}
	return nil
}
