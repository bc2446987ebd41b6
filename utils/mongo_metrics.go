package utils

import (
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

type MongoMetrics struct {
	ActiveConnections  int64     `json:"active_connections"`
	CreatedConnections int64     `json:"created_connections"`
	ClosedConnections  int64     `json:"closed_connections"`
	LastCheckTime      time.Time `json:"last_check_time"`
}

var metrics MongoMetrics

// NewPoolMonitor returns a monitor that feeds the connection counters.
// Active counts connections currently checked out of the pool.
func NewPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				atomic.AddInt64(&metrics.CreatedConnections, 1)
			case event.ConnectionClosed:
				atomic.AddInt64(&metrics.ClosedConnections, 1)
			case event.GetSucceeded:
				IncrementActiveConnections()
			case event.ConnectionReturned:
				DecrementActiveConnections()
			}
		},
	}
}

func IncrementActiveConnections() {
	atomic.AddInt64(&metrics.ActiveConnections, 1)
}

func DecrementActiveConnections() {
	atomic.AddInt64(&metrics.ActiveConnections, -1)
}

// GetMongoMetrics returns a consistent snapshot of the counters.
func GetMongoMetrics() MongoMetrics {
	return MongoMetrics{
		ActiveConnections:  atomic.LoadInt64(&metrics.ActiveConnections),
		CreatedConnections: atomic.LoadInt64(&metrics.CreatedConnections),
		ClosedConnections:  atomic.LoadInt64(&metrics.ClosedConnections),
		LastCheckTime:      time.Now(),
	}
}
