package hub

import "civicconnect/backend/internal/models"

// Client is one open dashboard connection.
type Client interface {
	// GetClientID returns the connection's unique identifier.
	GetClientID() string
	// GetSendChannel returns the channel the hub delivers ledger events on.
	GetSendChannel() chan<- models.LedgerEvent
	// Run starts the client's read and write pumps.
	Run()
	// Close stops delivery; the write pump closes the connection.
	Close()
}
