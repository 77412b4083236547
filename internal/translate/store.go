package translate

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"captionsync/internal/logging"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS translation_cache (
    cache_key       TEXT PRIMARY KEY,
    target_lang     TEXT NOT NULL,
    source_text     TEXT NOT NULL,
    translated_text TEXT NOT NULL,
    created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_translation_cache_lang ON translation_cache(target_lang);
`

// Store is the persistent translation cache tier, backed by SQLite. A file
// lock beside the database keeps concurrent replay runs from interleaving
// writes.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// OpenStore initializes or connects to the cache database in dir.
func OpenStore(dir string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("open cache store: dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache dir: %w", err)
	}

	lockPath := filepath.Join(dir, "cache.lock")
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}

	dbPath := filepath.Join(dir, "translations.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(storeSchema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{
		db:     db,
		path:   dbPath,
		lock:   lock,
		logger: logging.WithComponent(logger, "translate-cache"),
	}, nil
}

// Close releases the database connection and the file lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && dbErr == nil {
			dbErr = err
		}
	}
	return dbErr
}

// Get implements Cache.
func (s *Store) Get(targetLang, text string) (string, bool) {
	var translated string
	err := s.scanRowWithRetry(context.Background(), &translated,
		`SELECT translated_text FROM translation_cache WHERE cache_key = ?`,
		storeKey(targetLang, text),
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("cache read failed", "error", err)
		}
		return "", false
	}
	return translated, true
}

// Put implements Cache.
func (s *Store) Put(targetLang, text, translated string) {
	_, err := s.execWithRetry(context.Background(),
		`INSERT INTO translation_cache (cache_key, target_lang, source_text, translated_text, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(cache_key) DO UPDATE SET translated_text = excluded.translated_text`,
		storeKey(targetLang, text),
		targetLang,
		text,
		translated,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}
}

func storeKey(targetLang, text string) string {
	sum := sha256.Sum256([]byte(targetLang + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// scanRowWithRetry runs a single-row query and scans it into dest, retrying
// on SQLITE_BUSY like writes do. QueryRowContext defers errors to Scan, so
// the scan has to happen inside the retried operation.
func (s *Store) scanRowWithRetry(ctx context.Context, dest any, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(dest)
	})
}
