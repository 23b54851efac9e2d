// Package ledger keeps the citizen and admin complaint ledgers in step.
//
// Each ledger is an independently stored, JSON-encoded sequence of complaints.
// Every logical write is applied to each ledger in turn by the Writer; there is no
// transaction spanning ledgers, so a failure part way through leaves earlier
// ledgers written and later ones untouched.
package ledger

import (
	"civicconnect/backend/internal/config"
	"civicconnect/backend/internal/logger"
	"civicconnect/backend/internal/models"
	"civicconnect/backend/internal/storage"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// mutation turns the decoded contents of one ledger into its next contents.
// It reports false when the ledger should be left as it is.
type mutation func(records []models.Complaint) ([]models.Complaint, bool)

// Writer is the only component that writes ledger keys.
type Writer struct {
	store storage.Store
	keys  []string
	log   *slog.Logger

	// mu keeps writers in this process from interleaving read-modify-write cycles.
	mu sync.Mutex
}

// NewWriter fans out over keys in the given order, or over config.LedgerKeys when
// none are passed.
func NewWriter(store storage.Store, keys ...string) *Writer {
	if len(keys) == 0 {
		keys = config.LedgerKeys
	}
	return &Writer{
		store: store,
		keys:  append([]string(nil), keys...),
		log:   logger.WithComponent("ledger"),
	}
}

// Keys returns the ledgers this writer maintains.
func (w *Writer) Keys() []string {
	return append([]string(nil), w.keys...)
}

// Read returns the decoded contents of one ledger. Store failures are returned;
// a missing or malformed ledger reads as empty.
func (w *Writer) Read(ctx context.Context, key string) ([]models.Complaint, error) {
	raw, found, err := w.store.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", key, err)
	}
	if !found {
		return []models.Complaint{}, nil
	}
	return DecodeLedger(raw), nil
}

// Append adds c to the end of every ledger.
func (w *Writer) Append(ctx context.Context, c models.Complaint) error {
	_, err := w.fanOut(ctx, func(records []models.Complaint) ([]models.Complaint, bool) {
		return append(records, c), true
	})
	if err != nil {
		return fmt.Errorf("append complaint %s: %w", c.ID, err)
	}
	w.log.Debug("complaint appended", "complaint_id", c.ID, "ledgers", len(w.keys))
	return nil
}

// UpdateStatus sets the status of the complaint with the given id in every ledger
// that holds it, and returns how many ledgers were rewritten. Ledgers without the
// id, or already at status, are not written.
func (w *Writer) UpdateStatus(ctx context.Context, id string, status models.Status) (int, error) {
	written, err := w.upsertAcrossLedgers(ctx, id, func(c *models.Complaint) {
		c.Status = status
	})
	if err != nil {
		return written, fmt.Errorf("update status of %s: %w", id, err)
	}
	if written == 0 {
		w.log.Debug("status update matched no ledger", "complaint_id", id, "status", status)
	}
	return written, nil
}

// Clear removes every ledger, in key order. Like the other fan-outs it stops at
// the first store error.
func (w *Writer) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, key := range w.keys {
		if err := w.store.Clear(ctx, key); err != nil {
			w.log.Error("ledger clear failed; ledgers may have diverged",
				"ledger", key, "cleared_before_failure", i, "error", err)
			return fmt.Errorf("failed to clear ledger %s: %w", key, err)
		}
	}
	w.log.Info("ledgers cleared", "ledgers", len(w.keys))
	return nil
}

// upsertAcrossLedgers applies mutate to every record with the given id, ledger by
// ledger. It never inserts.
func (w *Writer) upsertAcrossLedgers(ctx context.Context, id string, mutate func(*models.Complaint)) (int, error) {
	return w.fanOut(ctx, func(records []models.Complaint) ([]models.Complaint, bool) {
		changed := false
		for i := range records {
			if records[i].ID != id {
				continue
			}
			before := records[i]
			mutate(&records[i])
			if records[i] != before {
				changed = true
			}
		}
		return records, changed
	})
}

// fanOut runs m against each ledger independently and stops at the first store error.
func (w *Writer) fanOut(ctx context.Context, m mutation) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	written := 0
	for _, key := range w.keys {
		records, err := w.Read(ctx, key)
		if err != nil {
			return written, err
		}

		next, changed := m(records)
		if !changed {
			continue
		}

		if err := w.store.Write(ctx, key, EncodeLedger(next)); err != nil {
			w.log.Error("ledger write failed; ledgers may have diverged",
				"ledger", key, "written_before_failure", written, "error", err)
			return written, fmt.Errorf("failed to write ledger %s: %w", key, err)
		}
		written++
	}
	return written, nil
}
