// Package complaint turns citizen submissions and admin decisions into ledger writes.
package complaint

import (
	"civicconnect/backend/internal/config"
	"civicconnect/backend/internal/events"
	"civicconnect/backend/internal/ledger"
	"civicconnect/backend/internal/lifecycle"
	"civicconnect/backend/internal/logger"
	"civicconnect/backend/internal/models"
	"civicconnect/backend/internal/notify"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Dashboard is one view's ledger together with its counters.
type Dashboard struct {
	Complaints []models.Complaint `json:"complaints"`
	Stats      lifecycle.Stats    `json:"stats"`
}

// Service handles the business logic for complaints.
type Service struct {
	Writer   *ledger.Writer
	Events   events.Publisher
	Notifier notify.Notifier
	IDs      *IDGenerator
	// Delay is waited before a submission is written. It only paces the UI.
	Delay time.Duration
	Now   func() time.Time

	log *slog.Logger
}

// NewService creates a new complaint service. Events and notifier may be nil.
func NewService(w *ledger.Writer, pub events.Publisher, n notify.Notifier) *Service {
	return &Service{
		Writer:   w,
		Events:   pub,
		Notifier: n,
		IDs:      NewIDGenerator(nil),
		Now:      time.Now,
		log:      logger.WithComponent("complaint"),
	}
}

// SeedIDs makes the id generator aware of every id already in the ledgers.
func (s *Service) SeedIDs(ctx context.Context) error {
	for _, key := range s.Writer.Keys() {
		records, err := s.Writer.Read(ctx, key)
		if err != nil {
			return err
		}
		for _, c := range records {
			s.IDs.Observe(c.ID)
		}
	}
	return nil
}

// Submit validates sub, builds a pending complaint and appends it to every ledger.
func (s *Service) Submit(ctx context.Context, sub Submission) (models.Complaint, error) {
	if err := sub.Validate(); err != nil {
		return models.Complaint{}, err
	}
	sub = sub.normalize()

	category, err := NormalizeCategory(sub.Category)
	if err != nil {
		return models.Complaint{}, err
	}

	if err := sleep(ctx, s.Delay); err != nil {
		return models.Complaint{}, err
	}

	c := models.Complaint{
		Name:        sub.Name,
		Address:     sub.Address,
		Phone:       sub.Phone,
		Category:    category,
		Description: sub.Description,
		Date:        s.Now().Format(config.DateLayout),
		Status:      lifecycle.Initial(),
		ID:          s.IDs.Next(),
	}
	if sub.Image != "" {
		image := sub.Image
		c.Image = &image
	}

	if err := s.Writer.Append(ctx, c); err != nil {
		s.log.Error("failed to save complaint", "complaint_id", c.ID, "error", err)
		return models.Complaint{}, err
	}
	s.log.Info("complaint submitted", "complaint_id", c.ID, "category", c.Category)

	s.announce(ctx, models.EventComplaintCreated, c.ID, c.Status)
	if s.Notifier != nil {
		if err := s.Notifier.ComplaintCreated(ctx, c); err != nil {
			s.log.Warn("complaint notification failed", "complaint_id", c.ID, "error", err)
		}
	}
	return c, nil
}

// ChangeStatus moves the complaint with the given id to status in every ledger
// holding it. Any assignable status may follow any other. An id no ledger holds
// is not an error; the returned count is then zero.
func (s *Service) ChangeStatus(ctx context.Context, id, status string) (int, error) {
	next, err := lifecycle.Parse(status)
	if err != nil {
		return 0, err
	}

	written, err := s.Writer.UpdateStatus(ctx, id, next)
	if err != nil {
		s.log.Error("failed to update complaint status", "complaint_id", id, "status", next, "error", err)
		return written, err
	}
	s.log.Info("complaint status changed", "complaint_id", id, "status", next, "ledgers_written", written)

	if written > 0 {
		s.announce(ctx, models.EventComplaintStatusUpdated, id, next)
		if s.Notifier != nil {
			if err := s.Notifier.StatusUpdated(ctx, id, next); err != nil {
				s.log.Warn("status notification failed", "complaint_id", id, "error", err)
			}
		}
	}
	return written, nil
}

// CitizenDashboard reads the citizen ledger.
func (s *Service) CitizenDashboard(ctx context.Context) (Dashboard, error) {
	return s.dashboard(ctx, config.CitizenLedgerKey, lifecycle.FilterAll)
}

// AdminDashboard reads the admin ledger. Stats always cover the whole ledger;
// filter ("all" or a status) only narrows the list.
func (s *Service) AdminDashboard(ctx context.Context, filter string) (Dashboard, error) {
	if filter != "" && filter != lifecycle.FilterAll {
		status, err := lifecycle.Parse(filter)
		if err != nil {
			return Dashboard{}, err
		}
		filter = string(status)
	}
	return s.dashboard(ctx, config.AdminLedgerKey, filter)
}

func (s *Service) dashboard(ctx context.Context, key, filter string) (Dashboard, error) {
	records, err := s.Writer.Read(ctx, key)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return Dashboard{
		Complaints: lifecycle.Filter(records, filter),
		Stats:      lifecycle.Tally(records),
	}, nil
}

func (s *Service) announce(ctx context.Context, kind, id string, status models.Status) {
	if s.Events == nil {
		return
	}
	ev := models.LedgerEvent{Type: kind, ComplaintID: id, Status: status, OccurredAt: s.Now().UTC()}
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish ledger event", "complaint_id", id, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
