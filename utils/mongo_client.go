package utils

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo opens a client with the given options, attaches the pool monitor
// and verifies the deployment is reachable.
func ConnectMongo(ctx context.Context, clientOptions *options.ClientOptions) (*mongo.Client, error) {
	if clientOptions == nil {
		return nil, fmt.Errorf("mongo client options are required")
	}
	clientOptions.SetPoolMonitor(NewPoolMonitor())

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// PingMongo reports whether the deployment answers within timeout.
func PingMongo(ctx context.Context, client *mongo.Client, timeout time.Duration) error {
	if client == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(pingCtx, readpref.Primary())
}
