// Package refresh keeps the catalog index current by reloading it in the background.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/dsjohal14/fontstack/internal/libs/jobs"
)

// Connector is a background trigger that can be started and stopped
type Connector interface {
	Name() string
	Start() error
	Stop() error
}

// Reloader runs one catalog load; *loader.Loader implements it
type Reloader interface {
	Load(ctx context.Context) (*jobs.Job, error)
}

// BaseConnector provides common functionality for all connectors
type BaseConnector struct {
	name      string
	mu        sync.Mutex
	startedAt time.Time
}

// NewBaseConnector creates a new base connector
func NewBaseConnector(name string) *BaseConnector {
	return &BaseConnector{
		name: name,
	}
}

// Name returns the connector name
func (c *BaseConnector) Name() string {
	return c.name
}

// StartedAt returns when the connector was started, zero if never
func (c *BaseConnector) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt
}

func (c *BaseConnector) markStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startedAt = time.Now()
}
