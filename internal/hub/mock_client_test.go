package hub_test

import (
	"civicconnect/backend/internal/models"
	"sync/atomic"
)

type MockClient struct {
	id          string
	RecvChannel chan models.LedgerEvent
	closed      atomic.Bool
}

func newMockClient(id string, buffer int) *MockClient {
	return &MockClient{
		id:          id,
		RecvChannel: make(chan models.LedgerEvent, buffer),
	}
}

func (c *MockClient) GetClientID() string                       { return c.id }
func (c *MockClient) GetSendChannel() chan<- models.LedgerEvent { return c.RecvChannel }
func (c *MockClient) Run()                                      {}
func (c *MockClient) Close()                                    { c.closed.Store(true) }
func (c *MockClient) IsClosed() bool                            { return c.closed.Load() }
