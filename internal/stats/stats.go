package stats

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NsdHSO/ads/internal/db"
)

// Stats tracks bridge link statistics
type Stats struct {
	// Counters
	TelemetryReceived uint64
	ReportsEncoded    uint64
	EncodeFailures    uint64
	FramesSealed      uint64
	FramesSent        uint64
	SendFailures      uint64

	// Timing
	LastTelemetryTime time.Time

	// Database client for persistence
	db *db.Client

	mu sync.RWMutex
}

// New creates a new Stats instance
func New() *Stats {
	return &Stats{
		LastTelemetryTime: time.Now(),
	}
}

// SetDB sets the database client for persistence
func (s *Stats) SetDB(db *db.Client) {
	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
}

// Persist stores the current statistics in the database
func (s *Stats) Persist() error {
	s.mu.RLock()
	if s.db == nil {
		s.mu.RUnlock()
		return fmt.Errorf("database client not set")
	}
	s.mu.RUnlock()

	return s.db.StoreLinkStats(s.GetStats())
}

// IncrementTelemetryReceived increments the received telemetry counter
func (s *Stats) IncrementTelemetryReceived() {
	atomic.AddUint64(&s.TelemetryReceived, 1)
}

// IncrementReportsEncoded increments the encoded reports counter
func (s *Stats) IncrementReportsEncoded() {
	atomic.AddUint64(&s.ReportsEncoded, 1)
}

// IncrementEncodeFailures increments the encode failures counter
func (s *Stats) IncrementEncodeFailures() {
	atomic.AddUint64(&s.EncodeFailures, 1)
}

// IncrementFramesSealed increments the sealed frames counter
func (s *Stats) IncrementFramesSealed() {
	atomic.AddUint64(&s.FramesSealed, 1)
}

// IncrementFramesSent increments the sent frames counter
func (s *Stats) IncrementFramesSent() {
	atomic.AddUint64(&s.FramesSent, 1)
}

// IncrementSendFailures increments the send failures counter
func (s *Stats) IncrementSendFailures() {
	atomic.AddUint64(&s.SendFailures, 1)
}

// UpdateLastTelemetryTime updates the last telemetry time
func (s *Stats) UpdateLastTelemetryTime() {
	s.mu.Lock()
	s.LastTelemetryTime = time.Now()
	s.mu.Unlock()
}

// GetStats returns a copy of the current statistics
func (s *Stats) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"telemetry_received":  atomic.LoadUint64(&s.TelemetryReceived),
		"reports_encoded":     atomic.LoadUint64(&s.ReportsEncoded),
		"encode_failures":     atomic.LoadUint64(&s.EncodeFailures),
		"frames_sealed":       atomic.LoadUint64(&s.FramesSealed),
		"frames_sent":         atomic.LoadUint64(&s.FramesSent),
		"send_failures":       atomic.LoadUint64(&s.SendFailures),
		"last_telemetry_time": s.LastTelemetryTime,
	}
}

// String returns a string representation of the statistics
func (s *Stats) String() string {
	stats := s.GetStats()
	return fmt.Sprintf(
		"Telemetry Received: %d\n"+
			"Reports Encoded: %d\n"+
			"Encode Failures: %d\n"+
			"Frames Sealed: %d\n"+
			"Frames Sent: %d\n"+
			"Send Failures: %d\n"+
			"Last Telemetry Time: %s",
		stats["telemetry_received"],
		stats["reports_encoded"],
		stats["encode_failures"],
		stats["frames_sealed"],
		stats["frames_sent"],
		stats["send_failures"],
		stats["last_telemetry_time"],
	)
}

// StartPersistence starts periodic persistence of statistics
func (s *Stats) StartPersistence(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final persistence before shutdown
			if err := s.Persist(); err != nil {
				fmt.Printf("Failed to persist final statistics: %v\n", err)
			}
			return
		case <-ticker.C:
			if err := s.Persist(); err != nil {
				fmt.Printf("Failed to persist statistics: %v\n", err)
			}
		}
	}
}
