// Package notify tells interested parties about ledger changes outside the dashboards.
package notify

import (
	"civicconnect/backend/internal/models"
	"context"
	"errors"
	"log/slog"
)

// Notifier receives complaint lifecycle notifications. Delivery is best effort.
type Notifier interface {
	ComplaintCreated(ctx context.Context, c models.Complaint) error
	StatusUpdated(ctx context.Context, id string, status models.Status) error
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) ComplaintCreated(_ context.Context, c models.Complaint) error {
	n.Log.Info("complaint created", "complaint_id", c.ID, "category", c.Category)
	return nil
}

func (n LogNotifier) StatusUpdated(_ context.Context, id string, status models.Status) error {
	n.Log.Info("complaint status updated", "complaint_id", id, "status", status)
	return nil
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) ComplaintCreated(ctx context.Context, c models.Complaint) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.ComplaintCreated(ctx, c))
	}
	return errors.Join(errs...)
}

func (m Multi) StatusUpdated(ctx context.Context, id string, status models.Status) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.StatusUpdated(ctx, id, status))
	}
	return errors.Join(errs...)
}
