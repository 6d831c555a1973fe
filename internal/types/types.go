package types

import (
	"time"
)

// Telemetry represents one geodetic position/velocity sample as produced
// upstream. Fields are already-parsed physical units; nothing here is
// quantized yet.
type Telemetry struct {
	Track      uint16  `json:"track"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	AltM       float64 `json:"alt_m"`
	SpeedMS    uint16  `json:"speed_ms"`
	HeadingDeg float64 `json:"heading_deg"`
}

// TelemetryMessage is the transport payload: a telemetry sample plus provenance
type TelemetryMessage struct {
	Telemetry Telemetry `json:"telemetry"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// TrackReport represents a decoded air-track report on the receive side.
// Geodetic values are dequantized approximations; TrackNumber carries the
// lossy 12-bit wire identifier.
type TrackReport struct {
	SessionID   string    `json:"session_id"`
	Track       uint16    `json:"track"`
	TrackNumber uint16    `json:"track_number"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	AltitudeM   float64   `json:"altitude_m"`
	SpeedMS     uint16    `json:"speed_ms"`
	HeadingDeg  float64   `json:"heading_deg"`
	ReceivedAt  time.Time `json:"received_at"`
	Source      string    `json:"source"`
}
