package ledger

import (
	"civicconnect/backend/internal/models"
	"context"
	"fmt"
	"slices"
)

// Report describes how the ledgers disagree. It is informational only; nothing on
// the write path consults it.
type Report struct {
	// Missing maps a ledger key to the ids other ledgers hold but it does not.
	Missing map[string][]string `json:"missing"`
	// Mismatched lists ids present in several ledgers with differing fields.
	Mismatched []string `json:"mismatched"`
}

func (r Report) Consistent() bool {
	return len(r.Missing) == 0 && len(r.Mismatched) == 0
}

// Divergence compares every ledger against the union of ids across all of them.
func (w *Writer) Divergence(ctx context.Context) (Report, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snapshot, err := w.snapshot(ctx)
	if err != nil {
		return Report{}, err
	}
	return w.compare(snapshot), nil
}

// Reconcile rewrites every ledger to the same sequence: the authority ledger's
// records in its order, followed by records only other ledgers hold, in the order
// first seen. The authority's field values win on conflict. It returns the report
// of what was out of step beforehand. It is never run implicitly.
func (w *Writer) Reconcile(ctx context.Context, authority string) (Report, error) {
	if !slices.Contains(w.keys, authority) {
		return Report{}, fmt.Errorf("unknown authority ledger %q", authority)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	snapshot, err := w.snapshot(ctx)
	if err != nil {
		return Report{}, err
	}
	report := w.compare(snapshot)
	if report.Consistent() {
		return report, nil
	}

	merged := append([]models.Complaint(nil), snapshot[authority]...)
	seen := make(map[string]bool, len(merged))
	for _, c := range merged {
		seen[c.ID] = true
	}
	for _, key := range w.keys {
		for _, c := range snapshot[key] {
			if !seen[c.ID] {
				seen[c.ID] = true
				merged = append(merged, c)
			}
		}
	}

	encoded := EncodeLedger(merged)
	for _, key := range w.keys {
		if EncodeLedger(snapshot[key]) == encoded {
			continue
		}
		if err := w.store.Write(ctx, key, encoded); err != nil {
			return report, fmt.Errorf("failed to write ledger %s: %w", key, err)
		}
		w.log.Info("ledger reconciled", "ledger", key, "authority", authority, "records", len(merged))
	}
	return report, nil
}

func (w *Writer) snapshot(ctx context.Context) (map[string][]models.Complaint, error) {
	snapshot := make(map[string][]models.Complaint, len(w.keys))
	for _, key := range w.keys {
		records, err := w.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		snapshot[key] = records
	}
	return snapshot, nil
}

func (w *Writer) compare(snapshot map[string][]models.Complaint) Report {
	report := Report{Missing: map[string][]string{}}

	var order []string
	byID := map[string]map[string]models.Complaint{}
	for _, key := range w.keys {
		for _, c := range snapshot[key] {
			if _, ok := byID[c.ID]; !ok {
				byID[c.ID] = map[string]models.Complaint{}
				order = append(order, c.ID)
			}
			byID[c.ID][key] = c
		}
	}

	for _, id := range order {
		holders := byID[id]
		var first *models.Complaint
		mismatch := false
		for _, key := range w.keys {
			c, ok := holders[key]
			if !ok {
				report.Missing[key] = append(report.Missing[key], id)
				continue
			}
			if first == nil {
				first = &c
			} else if !sameFields(*first, c) {
				mismatch = true
			}
		}
		if mismatch {
			report.Mismatched = append(report.Mismatched, id)
		}
	}

	if len(report.Missing) == 0 {
		report.Missing = nil
	}
	return report
}

// sameFields compares by value, including the pointed-to image name.
func sameFields(a, b models.Complaint) bool {
	ai, bi := a.Image, b.Image
	a.Image, b.Image = nil, nil
	if a != b {
		return false
	}
	if ai == nil || bi == nil {
		return ai == bi
	}
	return *ai == *bi
}
