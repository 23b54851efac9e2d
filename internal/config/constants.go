package config

import "time"

const (
	// Ledger keys
	CitizenLedgerKey = "user_complaints"
	AdminLedgerKey   = "admin_complaints"

	// Session keys
	CitizenSessionKey = "civic_user"
	AdminSessionKey   = "civic_admin"

	// Defaults
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultSubmitDelay   = 1500 * time.Millisecond
	DefaultLoginDelay    = 1000 * time.Millisecond
	DefaultTokenTTL      = 72 * time.Hour

	// DateLayout matches the en-US short date the dashboards display.
	DateLayout = "1/2/2006"

	EventsChannel = "civic:ledger_events"
)

// LedgerKeys lists every ledger a fan-out write touches, in write order.
var LedgerKeys = []string{CitizenLedgerKey, AdminLedgerKey}

// Categories is the closed list offered on the submission form.
var Categories = []string{
	"Pothole",
	"Garbage Collection",
	"Drainage Issues",
	"Damaged Road",
	"Lack of Water Supply",
	"Electricity Issues",
	"Street Lighting",
	"Public Transportation",
	"Traffic Signals",
	"Other",
}
