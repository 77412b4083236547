package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"captionsync/internal/config"
	"captionsync/internal/cue"
	"captionsync/internal/language"
	"captionsync/internal/logging"
	"captionsync/internal/merger"
	"captionsync/internal/stabilizer"
	"captionsync/internal/timedtext"
	"captionsync/internal/translate"
)

// replayCue is the JSON shape emitted by --json.
type replayCue struct {
	ID         string  `json:"id"`
	TrackKey   string  `json:"trackKey"`
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
	Translated string  `json:"translated,omitempty"`
}

func newReplayCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var runTranslate bool

	cmd := &cobra.Command{
		Use:   "replay <payload.json> [payload.json...]",
		Short: "Run captured payload files through the cue pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			var cues []cue.Cue
			for _, path := range args {
				payloads, err := decodePayloadFile(path)
				if err != nil {
					return err
				}
				for _, p := range payloads {
					cues = append(cues, buildReplayCues(cfg, p, logger)...)
				}
			}

			results := map[string]string{}
			if runTranslate {
				results, err = translateCues(cmd, cfg, cues, logger)
				if err != nil {
					return err
				}
			}

			rows := make([]replayCue, 0, len(cues))
			for _, c := range cues {
				rows = append(rows, replayCue{
					ID:         c.ID,
					TrackKey:   c.TrackKey,
					StartMs:    c.StartMs,
					EndMs:      c.EndMs,
					Text:       c.Text,
					Source:     string(c.Source),
					Confidence: c.Confidence,
					Translated: results[c.ID],
				})
			}

			if jsonOutput {
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderCueTable(rows, runTranslate))
			fmt.Fprintf(out, "%d cue(s) from %d payload file(s)\n", len(rows), len(args))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit cues as JSON")
	cmd.Flags().BoolVar(&runTranslate, "translate", false, "Translate cues via the configured backend")
	return cmd
}

// decodePayloadFile reads one captured payload file: either a single payload
// object or an array of them.
func decodePayloadFile(path string) ([]timedtext.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}
	var many []timedtext.Payload
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one timedtext.Payload
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("decode payload file %s: %w", path, err)
	}
	return []timedtext.Payload{one}, nil
}

// buildReplayCues routes a payload to the producer the live engine would use.
func buildReplayCues(cfg *config.Config, p timedtext.Payload, logger *slog.Logger) []cue.Cue {
	if p.ParseError || len(p.Events) == 0 {
		return nil
	}
	key := p.TrackKey()
	if p.IsASR {
		return stabilizer.New(cfg.Stabilizer, logger).BuildCues(p.Events, p.TrackLang, key, cue.SourceHook)
	}
	m := merger.New(cfg.Merger, language.Lookup(p.TrackLang), logger)
	return m.BuildCues(p.Events, key, cue.SourceHook)
}

// translateCues drains the queue synchronously against the configured
// backend, consulting the cache tiers first.
func translateCues(cmd *cobra.Command, cfg *config.Config, cues []cue.Cue, logger *slog.Logger) (map[string]string, error) {
	if !cfg.Translator.Enabled {
		return nil, fmt.Errorf("translator is disabled; enable it in the config before using --translate")
	}

	queue := translate.NewQueue()
	for _, c := range cues {
		queue.Enqueue(c.ID, c.Text)
	}

	var cache translate.Cache = translate.NewMemoryCache(cfg.Cache.MaxEntries)
	if cfg.Cache.Enabled {
		store, err := translate.OpenStore(cfg.Cache.Dir, logger)
		if err != nil {
			return nil, fmt.Errorf("open translation cache: %w", err)
		}
		defer store.Close()
		cache = translate.NewTieredCache(cache, store)
	}

	backend := translate.NewHTTPBackend(cfg.Translator.BaseURL, cfg.Translator.APIKey)
	dispatcher := translate.NewDispatcher(cfg.Translator, queue, backend, cache, logger)
	if _, err := dispatcher.Drain(cmd.Context()); err != nil {
		return nil, fmt.Errorf("translate cues: %w", err)
	}
	return dispatcher.Results(), nil
}

func renderCueTable(rows []replayCue, withTranslation bool) string {
	headers := []string{"Track", "Start", "End", "Conf", "Source", "Text"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft}
	if withTranslation {
		headers = append(headers, "Translated")
		aligns = append(aligns, alignLeft)
	}

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := []string{
			row.TrackKey,
			formatMs(row.StartMs),
			formatMs(row.EndMs),
			strconv.FormatFloat(row.Confidence, 'f', 2, 64),
			row.Source,
			row.Text,
		}
		if withTranslation {
			cells = append(cells, row.Translated)
		}
		tableRows = append(tableRows, cells)
	}
	return renderTable(headers, tableRows, aligns)
}

// formatMs renders a millisecond offset as m:ss.mmm.
func formatMs(ms int64) string {
	neg := ""
	if ms < 0 {
		neg = "-"
		ms = -ms
	}
	return fmt.Sprintf("%s%d:%02d.%03d", neg, ms/60000, (ms/1000)%60, ms%1000)
}
