package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/NsdHSO/ads/internal/nats"
	"github.com/NsdHSO/ads/internal/types"
)

// NATSClient interface for testability
type NATSClient interface {
	PublishTelemetry(msg *types.TelemetryMessage) error
	Close()
}

func main() {
	opts := parseFlags(os.Args[1:])

	client, err := nats.New(opts.natsURL)
	if err != nil {
		log.Printf("Failed to create NATS client: %v", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := publish(client, opts); err != nil {
		log.Printf("Failed to publish telemetry: %v", err)
		os.Exit(1)
	}
}

// options holds the parsed command line configuration
type options struct {
	natsURL  string
	source   string
	repeat   int
	interval time.Duration

	track   uint
	lat     float64
	lon     float64
	altM    float64
	speedMS uint
	heading float64
}

func parseFlags(args []string) *options {
	opts := &options{}
	fs := flag.NewFlagSet("publisher", flag.ExitOnError)

	fs.StringVar(&opts.natsURL, "nats", "nats://nats:4222", "NATS server URL")
	fs.StringVar(&opts.source, "source", "publisher", "Source identifier attached to each sample")
	fs.IntVar(&opts.repeat, "repeat", 1, "Number of samples to publish")
	fs.DurationVar(&opts.interval, "interval", time.Second, "Delay between samples")

	fs.UintVar(&opts.track, "track", 1, "Track identifier")
	fs.Float64Var(&opts.lat, "lat", 45.1234567, "Latitude in degrees")
	fs.Float64Var(&opts.lon, "lon", -122.9876543, "Longitude in degrees")
	fs.Float64Var(&opts.altM, "alt", 1500.9, "Altitude in meters")
	fs.UintVar(&opts.speedMS, "speed", 220, "Ground speed in m/s")
	fs.Float64Var(&opts.heading, "heading", 271.5, "Heading in degrees")

	// ExitOnError: Parse only returns on success
	_ = fs.Parse(args)
	return opts
}

// publish sends the configured telemetry sample repeat times
func publish(client NATSClient, opts *options) error {
	for i := 0; i < opts.repeat; i++ {
		if i > 0 {
			time.Sleep(opts.interval)
		}

		msg := buildMessage(opts)
		if err := client.PublishTelemetry(msg); err != nil {
			return err
		}
		log.Printf("Published telemetry: track=%d lat=%.7f lon=%.7f alt=%.1fm",
			msg.Telemetry.Track, msg.Telemetry.Lat, msg.Telemetry.Lon, msg.Telemetry.AltM)
	}
	return nil
}

func buildMessage(opts *options) *types.TelemetryMessage {
	return &types.TelemetryMessage{
		Telemetry: types.Telemetry{
			Track:      uint16(opts.track),
			Lat:        opts.lat,
			Lon:        opts.lon,
			AltM:       opts.altM,
			SpeedMS:    uint16(opts.speedMS),
			HeadingDeg: opts.heading,
		},
		Timestamp: time.Now().UTC(),
		Source:    opts.source,
	}
}
