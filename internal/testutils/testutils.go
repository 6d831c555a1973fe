package testutils

import (
	"context"
	"fmt"
	"time"

	"github.com/NsdHSO/ads/internal/types"
)

// MockTelemetry creates a mock telemetry message for testing
func MockTelemetry(track uint16) *types.TelemetryMessage {
	return &types.TelemetryMessage{
		Telemetry: types.Telemetry{
			Track:      track,
			Lat:        45.1234567,
			Lon:        -122.9876543,
			AltM:       1500.9,
			SpeedMS:    220,
			HeadingDeg: 271.5,
		},
		Timestamp: time.Now().UTC(),
		Source:    fmt.Sprintf("test-source-%d", track),
	}
}

// WaitForCondition waits for a condition to be true with timeout
func WaitForCondition(condition func() bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for condition")
		case <-ticker.C:
			if condition() {
				return nil
			}
		}
	}
}
