// Package hub pushes ledger change events to every open dashboard so both views
// re-read their ledger after a write.
package hub

import (
	"civicconnect/backend/internal/events"
	"civicconnect/backend/internal/logger"
	"civicconnect/backend/internal/models"
	"context"
	"log/slog"
)

// Manager owns the set of connected clients. All map access happens on the Run goroutine.
type Manager struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client

	events events.Subscriber
	log    *slog.Logger
}

func NewManager(sub events.Subscriber) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client, 16),
		events:       sub,
		log:          logger.WithComponent("hub"),
	}
}

// Run subscribes to ledger events and dispatches until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	evCh, err := m.events.Subscribe(ctx)
	if err != nil {
		return err
	}
	m.log.Info("hub started")

	for {
		select {
		case <-ctx.Done():
			for id, c := range m.Clients {
				c.Close()
				delete(m.Clients, id)
			}
			return nil

		case c := <-m.RegisterCh:
			m.Clients[c.GetClientID()] = c
			m.log.Debug("dashboard connected", "client_id", c.GetClientID(), "clients", len(m.Clients))

		case c := <-m.UnregisterCh:
			if _, ok := m.Clients[c.GetClientID()]; ok {
				delete(m.Clients, c.GetClientID())
				c.Close()
			}

		case ev, ok := <-evCh:
			if !ok {
				return ctx.Err()
			}
			m.broadcast(ev)
		}
	}
}

func (m *Manager) broadcast(ev models.LedgerEvent) {
	for id, c := range m.Clients {
		select {
		case c.GetSendChannel() <- ev:
		default:
			// A client that cannot keep up re-reads its ledger on reconnect.
			m.log.Warn("dropping slow dashboard", "client_id", id)
			delete(m.Clients, id)
			c.Close()
		}
	}
}
