package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/NsdHSO/ads/internal/capture"
	"github.com/NsdHSO/ads/internal/config"
	"github.com/NsdHSO/ads/internal/db"
	"github.com/NsdHSO/ads/internal/e2ee"
	"github.com/NsdHSO/ads/internal/jseries"
	"github.com/NsdHSO/ads/internal/redis"
	"github.com/NsdHSO/ads/internal/storage"
	"github.com/NsdHSO/ads/internal/types"
)

// ReportStore persists decoded track reports
type ReportStore interface {
	StoreTrackReport(report *types.TrackReport) error
}

// ReportCache keeps the latest report per track number
type ReportCache interface {
	StoreTrackReport(ctx context.Context, report *types.TrackReport) error
}

// FrameLog archives raw received frames
type FrameLog interface {
	WriteFrame(timestamp time.Time, source string, frame []byte) error
}

func main() {
	if err := runSink(); err != nil {
		log.Printf("Sink failed: %v", err)
		os.Exit(1)
	}
}

// runSink contains the main application logic and can be tested
func runSink() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sink, err := NewSink(cfg.PSK)
	if err != nil {
		return err
	}

	if cfg.DBConnStr != "" {
		dbClient, err := db.New(cfg.DBConnStr)
		if err != nil {
			log.Printf("Database persistence disabled: %v", err)
		} else {
			defer dbClient.Close()
			sink.db = dbClient
		}
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr)
		if err != nil {
			log.Printf("Redis cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			sink.cache = redisClient
		}
	}

	frameLog := storage.New(cfg.OutputDir)
	if err := frameLog.Start(); err != nil {
		return fmt.Errorf("failed to start frame log: %w", err)
	}
	defer frameLog.Stop()
	sink.frames = frameLog

	listener := capture.New(cfg.ListenAddr)
	if err := listener.Start(); err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}
	defer listener.Stop()

	log.Printf("Sink started, session %s, listening on %s", sink.sessionID, cfg.ListenAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			log.Println("Shutting down...")
			return nil
		case frame, ok := <-listener.Frames():
			if !ok {
				return nil
			}
			if err := sink.ProcessFrame(frame); err != nil {
				log.Printf("Failed to process frame from %s: %v", frame.Source, err)
			}
		}
	}
}

// Sink decodes received wire frames into track reports and stores them
type Sink struct {
	session   *e2ee.Session // nil when frames arrive as plaintext
	sessionID string

	db     ReportStore
	cache  ReportCache
	frames FrameLog
}

// NewSink creates a sink. A non-nil psk enables opening of sealed frames.
func NewSink(psk []byte) (*Sink, error) {
	s := &Sink{sessionID: uuid.New().String()}

	if len(psk) > 0 {
		session, err := e2ee.FromPSK(psk)
		if err != nil {
			return nil, fmt.Errorf("failed to create opening session: %w", err)
		}
		s.session = session
	}

	return s, nil
}

// ProcessFrame archives one received frame, decodes it and stores the
// resulting track report. The raw frame is archived even when decoding fails.
func (s *Sink) ProcessFrame(frame capture.Frame) error {
	if s.frames != nil {
		if err := s.frames.WriteFrame(frame.Timestamp, frame.Source, frame.Data); err != nil {
			log.Printf("Failed to archive frame: %v", err)
		}
	}

	data := frame.Data
	if s.session != nil {
		plaintext, err := s.session.Open([]byte(e2ee.WireAAD), data)
		if err != nil {
			return fmt.Errorf("failed to open sealed frame: %w", err)
		}
		data = plaintext
	}

	msg, err := jseries.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode frame: %w", err)
	}

	track, ok := msg.(jseries.AirTrack)
	if !ok {
		return fmt.Errorf("unexpected message kind 0x%02x", msg.Kind())
	}

	report := s.buildReport(track, frame)
	return s.storeReport(report)
}

// buildReport dequantizes a decoded air-track into a storable report
func (s *Sink) buildReport(track jseries.AirTrack, frame capture.Frame) *types.TrackReport {
	return &types.TrackReport{
		SessionID:   s.sessionID,
		Track:       track.Track,
		TrackNumber: track.TrackNumber,
		Latitude:    track.LatitudeDeg(),
		Longitude:   track.LongitudeDeg(),
		AltitudeM:   track.AltitudeM(),
		SpeedMS:     track.SpeedMS,
		HeadingDeg:  track.HeadingDeg(),
		ReceivedAt:  frame.Timestamp,
		Source:      frame.Source,
	}
}

func (s *Sink) storeReport(report *types.TrackReport) error {
	if s.db != nil {
		if err := s.db.StoreTrackReport(report); err != nil {
			return fmt.Errorf("failed to store report: %w", err)
		}
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.cache.StoreTrackReport(ctx, report); err != nil {
			log.Printf("Failed to cache report for track %03x: %v", report.TrackNumber, err)
		}
	}

	return nil
}
