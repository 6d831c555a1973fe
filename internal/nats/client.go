package nats

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/NsdHSO/ads/internal/types"
	"github.com/nats-io/nats.go"
)

const (
	// SubjectTelemetry carries telemetry samples from publishers to the
	// bridge.
	SubjectTelemetry = "telemetry.raw"
)

// Client represents a NATS client
type Client struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// New creates a new NATS client and ensures the telemetry stream exists
func New(url string) (*Client, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     "TELEMETRY",
		Subjects: []string{SubjectTelemetry},
		Storage:  nats.FileStorage,
		MaxAge:   24 * time.Hour,
	})
	if err != nil && !strings.Contains(err.Error(), "stream name already in use") {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &Client{
		conn: nc,
		js:   js,
	}, nil
}

// PublishTelemetry publishes one telemetry message
func (c *Client) PublishTelemetry(msg *types.TelemetryMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = c.js.Publish(SubjectTelemetry, data)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// SubscribeTelemetry subscribes to telemetry messages
func (c *Client) SubscribeTelemetry(handler func(*types.TelemetryMessage)) error {
	_, err := c.js.Subscribe(SubjectTelemetry, func(msg *nats.Msg) {
		var telMsg types.TelemetryMessage
		if err := json.Unmarshal(msg.Data, &telMsg); err != nil {
			log.Printf("Error unmarshaling telemetry message: %v", err)
			return
		}
		handler(&telMsg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
