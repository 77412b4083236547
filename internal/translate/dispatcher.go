package translate

import (
	"context"
	"log/slog"
	"time"

	"captionsync/internal/config"
	"captionsync/internal/logging"
)

const (
	retryBackoffBase = 250 * time.Millisecond
	retryBackoffMax  = 2 * time.Second
)

// Dispatcher drains the queue in bounded batches and records results.
type Dispatcher struct {
	cfg     config.Translator
	queue   *Queue
	backend Backend
	cache   Cache
	logger  *slog.Logger

	results map[string]string
}

// NewDispatcher wires the queue to a backend. cache may be nil.
func NewDispatcher(cfg config.Translator, queue *Queue, backend Backend, cache Cache, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		queue:   queue,
		backend: backend,
		cache:   cache,
		logger:  logging.WithComponent(logger, "dispatcher"),
		results: make(map[string]string),
	}
}

// Result returns the translated text for a cue id, if available.
func (d *Dispatcher) Result(id string) (string, bool) {
	translated, ok := d.results[id]
	return translated, ok
}

// Results returns the full cue-id to translated-text map. The map is shared;
// callers must not modify it.
func (d *Dispatcher) Results() map[string]string {
	return d.results
}

// Reset clears accumulated results (capture restart).
func (d *Dispatcher) Reset() {
	d.results = make(map[string]string)
}

// DispatchOnce takes one batch from the queue and resolves it via cache and
// backend. Returns the number of items resolved. A terminal backend failure
// requeues the affected items and returns the error.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	batch := d.queue.Take(d.cfg.MaxBatchItems)
	if len(batch) == 0 {
		return 0, nil
	}

	// Cache hits resolve immediately and never reach the backend.
	remaining := batch[:0:len(batch)]
	resolved := 0
	for _, item := range batch {
		if d.cache != nil {
			if translated, ok := d.cache.Get(d.cfg.TargetLang, item.Text); ok {
				d.results[item.ID] = translated
				d.queue.MarkTranslated(item.ID)
				resolved++
				continue
			}
		}
		remaining = append(remaining, item)
	}

	chunks := splitByBudget(remaining, d.cfg.MaxBatchChars, d.cfg.MaxBatchBytes)
	for i, chunk := range chunks {
		translations, err := d.translateWithRetry(ctx, chunk)
		if err != nil {
			// Release the failing chunk and every chunk not yet attempted;
			// an item must never stay inflight without an outstanding
			// request.
			released := 0
			for _, rest := range chunks[i:] {
				d.queue.Requeue(rest)
				released += len(rest)
			}
			d.logger.Warn("batch failed, requeued", "items", released, "error", err)
			return resolved, err
		}
		for _, item := range chunk {
			translated, ok := translations[item.ID]
			if !ok {
				// Backend silently dropped the item; release it for a
				// later attempt rather than losing it.
				d.queue.Requeue([]Item{item})
				continue
			}
			d.results[item.ID] = translated
			d.queue.MarkTranslated(item.ID)
			if d.cache != nil {
				d.cache.Put(d.cfg.TargetLang, item.Text, translated)
			}
			resolved++
		}
	}
	return resolved, nil
}

// Run polls the queue until the context ends.
func (d *Dispatcher) Run(ctx context.Context) {
	interval := time.Duration(d.cfg.PollMs) * time.Millisecond
	if interval <= 0 {
		interval = 400 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DispatchOnce(ctx); err != nil {
				d.logger.Debug("dispatch cycle failed", "error", err)
			}
		}
	}
}

// Drain dispatches until the queue has no pending items or the context ends.
// Used by the replay CLI, where there is no background loop.
func (d *Dispatcher) Drain(ctx context.Context) (int, error) {
	total := 0
	for d.queue.HasPending() {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := d.DispatchOnce(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func (d *Dispatcher) translateWithRetry(ctx context.Context, items []Item) (map[string]string, error) {
	delay := retryBackoffBase
	var lastErr error
	for attempt := 0; attempt < d.cfg.MaxAttempts; attempt++ {
		reqCtx := ctx
		var cancel context.CancelFunc
		if d.cfg.TimeoutSeconds > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, time.Duration(d.cfg.TimeoutSeconds)*time.Second)
		}
		translations, err := d.backend.Translate(reqCtx, d.cfg.TargetLang, items)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return translations, nil
		}
		lastErr = err
		if attempt == d.cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if next := delay * 2; next <= retryBackoffMax {
			delay = next
		}
	}
	return nil, lastErr
}

// splitByBudget cuts a batch into chunks below the character and byte
// budgets. A single oversized item still travels alone; the budgets bound
// batches, not items.
func splitByBudget(items []Item, maxChars, maxBytes int) [][]Item {
	if len(items) == 0 {
		return nil
	}
	var chunks [][]Item
	var current []Item
	chars := 0
	bytes := 0
	for _, item := range items {
		itemChars := len([]rune(item.Text))
		itemBytes := len(item.Text)
		over := len(current) > 0 &&
			((maxChars > 0 && chars+itemChars > maxChars) ||
				(maxBytes > 0 && bytes+itemBytes > maxBytes))
		if over {
			chunks = append(chunks, current)
			current = nil
			chars = 0
			bytes = 0
		}
		current = append(current, item)
		chars += itemChars
		bytes += itemBytes
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
