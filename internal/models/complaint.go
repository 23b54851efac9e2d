package models

// Status is the lifecycle state of a complaint. Values outside the known set can
// appear when a ledger was edited by hand, so the type stays an open string.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// Complaint is a single civic issue report as stored in every ledger.
// Field order and tags define the persisted JSON shape.
type Complaint struct {
	// Name, Address and Phone identify the reporter and the location of the issue.
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	// Category is a lowercase-hyphenated token, e.g. "street-lighting".
	Category    string `json:"category"`
	Description string `json:"description"`
	// Image holds only the uploaded file name; nil when no image was attached.
	Image *string `json:"image"`
	// Date is the display-formatted creation date and never changes.
	Date   string `json:"date"`
	Status Status `json:"status"`
	// ID is assigned once at creation from a millisecond timestamp.
	ID string `json:"id"`
}
