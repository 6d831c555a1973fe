package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NsdHSO/ads/internal/config"
	"github.com/NsdHSO/ads/internal/db"
	"github.com/NsdHSO/ads/internal/e2ee"
	"github.com/NsdHSO/ads/internal/jseries"
	"github.com/NsdHSO/ads/internal/nats"
	"github.com/NsdHSO/ads/internal/stats"
	"github.com/NsdHSO/ads/internal/types"
)

// NATSClient interface for testability
type NATSClient interface {
	SubscribeTelemetry(handler func(*types.TelemetryMessage)) error
	Close()
}

func main() {
	if err := runBridge(); err != nil {
		log.Printf("Bridge failed: %v", err)
		os.Exit(1)
	}
}

// runBridge contains the main application logic and can be tested
func runBridge() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	conn, err := net.Dial("udp", cfg.SinkAddr)
	if err != nil {
		return fmt.Errorf("failed to dial sink %s: %w", cfg.SinkAddr, err)
	}
	defer conn.Close()

	bridge, err := NewBridge(conn, cfg.PSK)
	if err != nil {
		return err
	}

	client, err := nats.New(cfg.NATSURL)
	if err != nil {
		return fmt.Errorf("failed to create NATS client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Persist link stats when a database is configured
	if cfg.DBConnStr != "" {
		if closeDB := startStatsPersistence(ctx, bridge, cfg.DBConnStr); closeDB != nil {
			defer closeDB()
		}
	}

	if err := client.SubscribeTelemetry(func(msg *types.TelemetryMessage) {
		if err := bridge.ProcessTelemetry(msg); err != nil {
			log.Printf("Failed to process telemetry from %s: %v", msg.Source, err)
		}
	}); err != nil {
		client.Close()
		cancel()
		return fmt.Errorf("failed to subscribe to telemetry: %w", err)
	}

	go bridge.logStats(ctx)

	if bridge.session != nil {
		log.Printf("Bridge started, sealing frames to %s", cfg.SinkAddr)
	} else {
		log.Printf("Bridge started, sending plaintext frames to %s", cfg.SinkAddr)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	client.Close()
	cancel()
	time.Sleep(time.Second) // Give time for goroutines to clean up

	return nil
}

// startStatsPersistence wires periodic link-stats persistence and returns
// immediately; the persistence loop runs in its own goroutine until ctx is
// canceled. The returned cleanup closes the database client, or is nil
// when persistence could not be set up.
func startStatsPersistence(ctx context.Context, bridge *Bridge, connStr string) func() {
	dbClient, err := db.New(connStr)
	if err != nil {
		log.Printf("Stats persistence disabled, database unavailable: %v", err)
		return nil
	}

	bridge.stats.SetDB(dbClient)
	go bridge.stats.StartPersistence(ctx, time.Minute)

	return func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("Failed to close database client: %v", err)
		}
	}
}

// Bridge turns telemetry samples into wire frames and forwards them
type Bridge struct {
	sink    io.Writer
	session *e2ee.Session // nil when sealing is disabled
	stats   *stats.Stats
}

// NewBridge creates a bridge writing frames to sink. A non-nil psk enables
// sealing; its session key is derived from the psk.
func NewBridge(sink io.Writer, psk []byte) (*Bridge, error) {
	b := &Bridge{
		sink:  sink,
		stats: stats.New(),
	}

	if len(psk) > 0 {
		session, err := e2ee.FromPSK(psk)
		if err != nil {
			return nil, fmt.Errorf("failed to create sealing session: %w", err)
		}
		b.session = session
	}

	return b, nil
}

// ProcessTelemetry quantizes one telemetry sample into an air-track report,
// encodes it and sends the frame to the sink
func (b *Bridge) ProcessTelemetry(msg *types.TelemetryMessage) error {
	b.stats.IncrementTelemetryReceived()
	b.stats.UpdateLastTelemetryTime()

	frame, err := b.encodeFrame(&msg.Telemetry)
	if err != nil {
		b.stats.IncrementEncodeFailures()
		return err
	}
	b.stats.IncrementReportsEncoded()

	if b.session != nil {
		sealed, err := b.session.Seal([]byte(e2ee.WireAAD), frame)
		if err != nil {
			b.stats.IncrementSendFailures()
			return fmt.Errorf("failed to seal frame: %w", err)
		}
		b.stats.IncrementFramesSealed()
		frame = sealed
	}

	if _, err := b.sink.Write(frame); err != nil {
		b.stats.IncrementSendFailures()
		return fmt.Errorf("failed to send frame: %w", err)
	}
	b.stats.IncrementFramesSent()

	return nil
}

// encodeFrame builds the envelope-framed air-track report for one sample
func (b *Bridge) encodeFrame(sample *types.Telemetry) ([]byte, error) {
	report, err := jseries.FromGeo(
		sample.Track,
		sample.Lat,
		sample.Lon,
		sample.AltM,
		sample.SpeedMS,
		jseries.HeadingCdeg(sample.HeadingDeg),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to quantize sample: %w", err)
	}

	frame, err := jseries.Encode(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return frame, nil
}

// logStats periodically logs link statistics
func (b *Bridge) logStats(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Println(b.stats.String())
		}
	}
}
