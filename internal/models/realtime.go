package models

import "time"

const (
	EventComplaintCreated       = "complaint.created"
	EventComplaintStatusUpdated = "complaint.status_updated"
)

// LedgerEvent tells open dashboards that a ledger changed and should be re-read.
type LedgerEvent struct {
	Type        string    `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	Status      Status    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
