package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	defaultURI            = "mongodb://localhost:27017"
	defaultDatabase       = "transcribe_relay"
	defaultConnectTimeout = 10 * time.Second
	defaultMaxPoolSize    = 10
	appName               = "transcribe-relay"
)

// Config holds MongoDB connection settings
type Config struct {
	URI            string        // Optional: defaults to mongodb://localhost:27017
	Database       string        // Optional: defaults to transcribe_relay
	ConnectTimeout time.Duration // Optional: bounds connect and ping, defaults to 10s
	MaxPoolSize    uint64        // Optional: defaults to 10
}

func (c Config) withDefaults() Config {
	if c.URI == "" {
		c.URI = defaultURI
	}
	if c.Database == "" {
		c.Database = defaultDatabase
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = defaultMaxPoolSize
	}
	return c
}

// Client is a connected MongoDB client bound to the relay database
type Client struct {
	*mongo.Client
	Database *mongo.Database
	logger   *zap.Logger
}

// NewClient connects to MongoDB and verifies the primary is reachable
func NewClient(ctx context.Context, config Config, logger *zap.Logger) (*Client, error) {
	config = config.withDefaults()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetAppName(appName).
		SetMaxPoolSize(config.MaxPoolSize).
		SetServerSelectionTimeout(config.ConnectTimeout).
		SetConnectTimeout(config.ConnectTimeout)

	ctx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", config.Database))

	return &Client{
		Client:   client,
		Database: client.Database(config.Database),
		logger:   logger,
	}, nil
}

// Close disconnects from MongoDB
func (c *Client) Close(ctx context.Context) error {
	if err := c.Client.Disconnect(ctx); err != nil {
		c.logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		return err
	}
	c.logger.Info("Disconnected from MongoDB")
	return nil
}
