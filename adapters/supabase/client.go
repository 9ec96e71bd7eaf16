package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"
)

const restPath = "/rest/v1"

// Config holds the Supabase project settings
type Config struct {
	URL    string // Required: project URL, e.g. https://xyz.supabase.co
	Key    string // Required: anon or service role key
	Schema string // Optional: defaults to public
}

// Validate validates the Config
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("supabase URL is required")
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return fmt.Errorf("invalid supabase URL %q: %w", c.URL, err)
	}
	if c.Key == "" {
		return fmt.Errorf("supabase key is required")
	}
	return nil
}

// Client talks to the PostgREST API of a Supabase project
type Client struct {
	rest   *postgrest.Client
	logger *zap.Logger
}

// NewClient creates a new Supabase REST client
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	schema := config.Schema
	if schema == "" {
		schema = "public"
	}

	rest := postgrest.NewClient(strings.TrimRight(config.URL, "/")+restPath, schema, map[string]string{
		"apikey":        config.Key,
		"Authorization": "Bearer " + config.Key,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("failed to create postgrest client: %w", rest.ClientError)
	}

	return &Client{
		rest:   rest,
		logger: logger,
	}, nil
}

// Insert inserts rows into table and decodes the inserted representation into out
func (c *Client) Insert(ctx context.Context, table string, rows interface{}, out interface{}) error {
	// postgrest-go requests are not context aware
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.rest.From(table).Insert(rows, false, "", "representation", "").ExecuteTo(out); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	c.logger.Debug("Supabase insert completed", zap.String("table", table))
	return nil
}
