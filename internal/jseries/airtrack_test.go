package jseries

import (
	"bytes"
	"errors"
	"testing"

	"github.com/NsdHSO/ads/internal/bits"
)

func TestFromGeo_ConcreteScenario(t *testing.T) {
	report, err := FromGeo(42, 45.1234567, -122.9876543, 1500.9, 220, 27100)
	if err != nil {
		t.Fatalf("FromGeo() failed: %v", err)
	}

	want := AirTrack{
		Track:       42,
		Latitude:    393575,
		Longitude:   83030,
		TrackNumber: 42,
		Altitude:    197,
		Parity:      0,
		SpeedMS:     220,
		HeadingCdeg: 27100,
	}
	if report != want {
		t.Errorf("FromGeo() = %+v, want %+v", report, want)
	}

	body, err := airTrackCodec{}.EncodeBody(report)
	if err != nil {
		t.Fatalf("EncodeBody() failed: %v", err)
	}
	if len(body) != AirTrackBodyLen {
		t.Errorf("EncodeBody() produced %d bytes, want %d", len(body), AirTrackBodyLen)
	}

	decoded, err := Decode(append([]byte{KindAirTrack}, body...))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if decoded.(AirTrack) != report {
		t.Errorf("Decode() = %+v, want %+v", decoded, report)
	}
}

func TestEncodeBody_GoldenBytes(t *testing.T) {
	report := AirTrack{
		Track:       42,
		Latitude:    393575,
		Longitude:   83030,
		TrackNumber: 42,
		Altitude:    197,
		SpeedMS:     220,
		HeadingCdeg: 27100,
	}

	body, err := airTrackCodec{}.EncodeBody(report)
	if err != nil {
		t.Fatalf("EncodeBody() failed: %v", err)
	}

	want := []byte{
		0x00, 0x2A, 0xC0, 0x2C, 0xE5, 0x11, 0x58, 0x0A,
		0x80, 0xC5, 0x00, 0x06, 0xE3, 0x4E, 0xE0,
	}
	if !bytes.Equal(body, want) {
		t.Errorf("EncodeBody() = % X, want % X", body, want)
	}
}

func TestEncodeBody_PaddingBitsAreZero(t *testing.T) {
	report := AirTrack{
		Track:       0xFFFF,
		Latitude:    latLonCodeMax,
		Longitude:   latLonCodeMax,
		TrackNumber: 0xFFF,
		Altitude:    altCodeMax,
		Parity:      0x1F,
		SpeedMS:     0xFFFF,
		HeadingCdeg: 0xFFFF,
	}

	body, err := airTrackCodec{}.EncodeBody(report)
	if err != nil {
		t.Fatalf("EncodeBody() failed: %v", err)
	}
	if len(body) != AirTrackBodyLen {
		t.Fatalf("EncodeBody() produced %d bytes, want %d", len(body), AirTrackBodyLen)
	}
	if body[AirTrackBodyLen-1]&0x07 != 0 {
		t.Errorf("final 3 padding bits are not zero: last byte = %#02x", body[AirTrackBodyLen-1])
	}
}

func TestEncodeBody_Deterministic(t *testing.T) {
	report, err := FromGeo(9001, 12.34, 56.78, 9000, 340, 123)
	if err != nil {
		t.Fatalf("FromGeo() failed: %v", err)
	}

	first, err := airTrackCodec{}.EncodeBody(report)
	if err != nil {
		t.Fatalf("EncodeBody() failed: %v", err)
	}
	second, err := airTrackCodec{}.EncodeBody(report)
	if err != nil {
		t.Fatalf("EncodeBody() failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("repeated encodes differ: % X vs % X", first, second)
	}
}

func TestRoundTrip_PackedFieldExtremes(t *testing.T) {
	tests := []struct {
		name   string
		report AirTrack
	}{
		{name: "all zero", report: AirTrack{}},
		{
			name: "all fields at maximum width",
			report: AirTrack{
				Track:       0xFFFF,
				Latitude:    latLonCodeMax,
				Longitude:   latLonCodeMax,
				TrackNumber: 0xFFF,
				Altitude:    altCodeMax,
				Parity:      0x1F,
				SpeedMS:     0xFFFF,
				HeadingCdeg: 0xFFFF,
			},
		},
		{
			name: "alternating bit patterns",
			report: AirTrack{
				Track:       0xAAAA,
				Latitude:    0x2AAAA,
				Longitude:   0x55555,
				TrackNumber: 0xAAA,
				Altitude:    0x1555,
				Parity:      0x0A,
				SpeedMS:     0x5555,
				HeadingCdeg: 0xAAAA,
			},
		},
		{
			name: "inconsistent track_number is preserved as data",
			report: AirTrack{
				Track:       0x0001,
				TrackNumber: 0xFFF, // disagrees with Track's low bits on purpose
				Latitude:    1,
				Longitude:   1,
				Altitude:    1,
				SpeedMS:     1,
				HeadingCdeg: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := airTrackCodec{}.EncodeBody(tt.report)
			if err != nil {
				t.Fatalf("EncodeBody() failed: %v", err)
			}

			decoded, err := airTrackCodec{}.DecodeBody(body)
			if err != nil {
				t.Fatalf("DecodeBody() failed: %v", err)
			}
			if decoded.(AirTrack) != tt.report {
				t.Errorf("round trip mismatch: got %+v, want %+v", decoded, tt.report)
			}
		})
	}
}

func TestDecodeBody_ShortBuffer(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty body", body: nil},
		{name: "one byte", body: []byte{0xAB}},
		{name: "fourteen bytes", body: make([]byte, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := airTrackCodec{}.DecodeBody(tt.body)

			var shortErr *bits.ShortBufferError
			if !errors.As(err, &shortErr) {
				t.Fatalf("expected ShortBufferError, got %v", err)
			}
			if shortErr.NeededBits != 117 {
				t.Errorf("NeededBits = %d, want 117", shortErr.NeededBits)
			}
			if shortErr.AvailableBits != len(tt.body)*8 {
				t.Errorf("AvailableBits = %d, want %d", shortErr.AvailableBits, len(tt.body)*8)
			}
		})
	}
}

func TestDecodeBody_IgnoresTrailingBytes(t *testing.T) {
	report, err := FromGeo(7, 1.5, -2.5, 300, 10, 9000)
	if err != nil {
		t.Fatalf("FromGeo() failed: %v", err)
	}

	body, err := airTrackCodec{}.EncodeBody(report)
	if err != nil {
		t.Fatalf("EncodeBody() failed: %v", err)
	}

	decoded, err := airTrackCodec{}.DecodeBody(append(body, 0xDE, 0xAD))
	if err != nil {
		t.Fatalf("DecodeBody() with trailing bytes failed: %v", err)
	}
	if decoded.(AirTrack) != report {
		t.Errorf("DecodeBody() with trailing bytes = %+v, want %+v", decoded, report)
	}
}

func TestFromGeo_MaskingLaw(t *testing.T) {
	tracks := []uint16{0, 1, 42, 0x0FFF, 0x1000, 0x1FFF, 0x8001, 0xFFFF}
	for _, track := range tracks {
		report, err := FromGeo(track, 0, 0, 0, 0, 0)
		if err != nil {
			t.Fatalf("FromGeo(track=%d) failed: %v", track, err)
		}
		if report.TrackNumber != track&0x0FFF {
			t.Errorf("TrackNumber for track %#04x = %#03x, want %#03x", track, report.TrackNumber, track&0x0FFF)
		}
		if report.Track != track {
			t.Errorf("Track = %#04x, want %#04x", report.Track, track)
		}
	}
}

func TestFromGeo_TrackAliasing(t *testing.T) {
	// Two tracks differing only above bit 11 collapse to the same 12-bit
	// code. That is the bandwidth trade-off of the format, not a defect.
	a, err := FromGeo(0x0042, 0, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("FromGeo() failed: %v", err)
	}
	b, err := FromGeo(0x9042, 0, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("FromGeo() failed: %v", err)
	}

	if a.TrackNumber != b.TrackNumber {
		t.Errorf("aliased tracks produced different TrackNumbers: %#03x vs %#03x", a.TrackNumber, b.TrackNumber)
	}
	if a.Track == b.Track {
		t.Error("distinct tracks should keep distinct full Track fields")
	}
}

func TestFromGeo_PropagatesOverflow(t *testing.T) {
	tests := []struct {
		name      string
		lat, lon  float64
		altM      float64
		wantField string
	}{
		{name: "latitude overflow", lat: 91, wantField: "latitude"},
		{name: "longitude overflow", lon: -181, wantField: "longitude"},
		{name: "altitude overflow", altM: MaxAltitudeM * 2, wantField: "altitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromGeo(1, tt.lat, tt.lon, tt.altM, 0, 0)

			var overflow *OverflowError
			if !errors.As(err, &overflow) {
				t.Fatalf("expected OverflowError, got %v", err)
			}
			if overflow.Field != tt.wantField {
				t.Errorf("OverflowError.Field = %q, want %q", overflow.Field, tt.wantField)
			}
		})
	}
}
