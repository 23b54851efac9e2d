package lifecycle

import "civicconnect/backend/internal/models"

// Stats are the counters shown above both dashboards.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// Tally counts records per status. Unknown statuses only count toward Total.
func Tally(records []models.Complaint) Stats {
	st := Stats{Total: len(records)}
	for _, c := range records {
		switch c.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusInProgress:
			st.InProgress++
		case models.StatusResolved:
			st.Resolved++
		}
	}
	return st
}

// Filter keeps records whose status equals filter, preserving order.
// An empty filter or FilterAll returns records unchanged.
func Filter(records []models.Complaint, filter string) []models.Complaint {
	if filter == "" || filter == FilterAll {
		return records
	}
	out := make([]models.Complaint, 0, len(records))
	for _, c := range records {
		if string(c.Status) == filter {
			out = append(out, c)
		}
	}
	return out
}
