package database

import (
	"context"
	"fmt"
	"time"

	"slideshow-viewer/internal/mediakind"
	"slideshow-viewer/internal/playlist"
)

// ReplaceEntries replaces the stored index with the given scan result in a
// single transaction. Failed-entry marks for keys that no longer exist are
// dropped at the same time.
func (d *Database) ReplaceEntries(ctx context.Context, entries []playlist.Entry) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("replace_entries", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := d.db.BeginTx(execCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err = tx.ExecContext(execCtx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(execCtx,
		"INSERT INTO entries (key, name, kind, size, mod_time) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(execCtx, e.Key, e.Name, string(e.Kind), e.Size, e.ModTime.Unix()); err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", e.Key, err)
		}
	}

	if _, err = tx.ExecContext(execCtx,
		"DELETE FROM failed_entries WHERE key NOT IN (SELECT key FROM entries)"); err != nil {
		return fmt.Errorf("failed to prune failed entries: %w", err)
	}

	err = tx.Commit()
	return err
}

// ListEntries returns the stored index in insertion order.
func (d *Database) ListEntries(ctx context.Context) ([]playlist.Entry, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_entries", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(queryCtx,
		"SELECT key, name, kind, size, mod_time FROM entries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []playlist.Entry
	for rows.Next() {
		var e playlist.Entry
		var kind string
		var modTime int64
		if err = rows.Scan(&e.Key, &e.Name, &kind, &e.Size, &modTime); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Kind = mediakind.Kind(kind)
		e.ModTime = time.Unix(modTime, 0)
		entries = append(entries, e)
	}
	err = rows.Err()
	return entries, err
}

// MarkFailed records an entry as permanently failed.
func (d *Database) MarkFailed(ctx context.Context, key, failure string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("mark_failed", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(execCtx,
		`INSERT INTO failed_entries (key, failure) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET failure = excluded.failure, failed_at = strftime('%s', 'now')`,
		key, failure)
	return err
}

// ClearFailed removes an entry's permanent-failure mark, giving it a fresh
// chance on the next visit.
func (d *Database) ClearFailed(ctx context.Context, key string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("clear_failed", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(execCtx, "DELETE FROM failed_entries WHERE key = ?", key)
	return err
}

// ListFailed returns the keys of all permanently failed entries.
func (d *Database) ListFailed(ctx context.Context) ([]string, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_failed", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(queryCtx, "SELECT key FROM failed_entries ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query failed entries: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	err = rows.Err()
	return keys, err
}
