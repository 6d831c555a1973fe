package jseries

import (
	"github.com/NsdHSO/ads/internal/bits"
)

// AirTrack is the packed form of an air-track report. All geodetic fields
// hold quantized integer codes, not physical units; the packed struct is
// the round-trip target of the codec, the original floating-point inputs
// are not recoverable.
type AirTrack struct {
	Track       uint16 // full 16-bit track identifier
	Latitude    uint32 // 19-bit code, degrees in [-90, 90]
	Longitude   uint32 // 19-bit code, degrees in [-180, 180]
	TrackNumber uint16 // low 12 bits of Track
	Altitude    uint16 // 14-bit code, 25-foot steps
	Parity      uint8  // 5 bits, reserved, always 0
	SpeedMS     uint16 // whole m/s, unscaled
	HeadingCdeg uint16 // centidegrees, 0..35999 expected but not enforced
}

// Kind returns the wire tag for air-track reports.
func (a AirTrack) Kind() byte { return KindAirTrack }

// LatitudeDeg returns the approximate latitude in degrees represented by
// the packed code.
func (a AirTrack) LatitudeDeg() float64 { return latitudeDeg(a.Latitude) }

// LongitudeDeg returns the approximate longitude in degrees.
func (a AirTrack) LongitudeDeg() float64 { return longitudeDeg(a.Longitude) }

// AltitudeM returns the approximate altitude in meters.
func (a AirTrack) AltitudeM() float64 { return altitudeM(a.Altitude) }

// HeadingDeg returns the heading in degrees.
func (a AirTrack) HeadingDeg() float64 { return float64(a.HeadingCdeg) / 100.0 }

// FromGeo quantizes geodetic telemetry into a packed report. Latitude,
// longitude and altitude outside their documented ranges return an
// OverflowError; heading is stored verbatim in centidegrees and speed in
// whole m/s, neither is range checked beyond its field width. TrackNumber
// keeps only the low 12 bits of track, losing the upper bits by design.
func FromGeo(track uint16, latDeg, lonDeg, altM float64, speedMS, headingCdeg uint16) (AirTrack, error) {
	lat, err := packLatitude(latDeg)
	if err != nil {
		return AirTrack{}, err
	}
	lon, err := packLongitude(lonDeg)
	if err != nil {
		return AirTrack{}, err
	}
	alt, err := packAltitude(altM)
	if err != nil {
		return AirTrack{}, err
	}

	return AirTrack{
		Track:       track,
		Latitude:    lat,
		Longitude:   lon,
		TrackNumber: track & 0x0FFF,
		Altitude:    alt,
		Parity:      0,
		SpeedMS:     speedMS,
		HeadingCdeg: headingCdeg,
	}, nil
}

// field declares one entry of a body layout: a name for diagnostics and a
// width in bits. A body codec is an ordered list of fields driven through
// the generic bit packer, so new message kinds need a table, not new
// packing code.
type field struct {
	name  string
	width int
}

// airTrackLayout is the canonical bit-packed body layout: 117 bits,
// padded to 15 bytes with 3 zero bits.
var airTrackLayout = []field{
	{"track", 16},
	{"latitude", 19},
	{"longitude", 19},
	{"track_number", 12},
	{"altitude", 14},
	{"parity", 5},
	{"speed_ms", 16},
	{"heading_cdeg", 16},
}

// AirTrackBodyLen is the packed body size in bytes.
const AirTrackBodyLen = 15

func layoutBits(layout []field) int {
	total := 0
	for _, f := range layout {
		total += f.width
	}
	return total
}

// airTrackCodec packs and unpacks AirTrack bodies. It is registered for
// KindAirTrack in envelope.go.
type airTrackCodec struct{}

func (airTrackCodec) EncodeBody(msg Message) ([]byte, error) {
	report, ok := msg.(AirTrack)
	if !ok {
		return nil, &UnsupportedKindError{Kind: msg.Kind()}
	}

	values := []uint32{
		uint32(report.Track),
		report.Latitude,
		report.Longitude,
		uint32(report.TrackNumber),
		uint32(report.Altitude),
		uint32(report.Parity),
		uint32(report.SpeedMS),
		uint32(report.HeadingCdeg),
	}

	var w bits.Writer
	for i, f := range airTrackLayout {
		w.WriteBits(values[i], f.width)
	}
	return w.Bytes(), nil
}

func (airTrackCodec) DecodeBody(body []byte) (Message, error) {
	if need := layoutBits(airTrackLayout); len(body)*8 < need {
		return nil, &bits.ShortBufferError{NeededBits: need, AvailableBits: len(body) * 8}
	}

	r := bits.NewReader(body)
	values := make([]uint32, len(airTrackLayout))
	for i, f := range airTrackLayout {
		v, err := r.ReadBits(f.width)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	// Decoded fields are taken as-is: a track_number that disagrees with
	// track's low bits is transport corruption, and detecting that belongs
	// to an integrity layer, not the codec.
	return AirTrack{
		Track:       uint16(values[0]),
		Latitude:    values[1],
		Longitude:   values[2],
		TrackNumber: uint16(values[3]),
		Altitude:    uint16(values[4]),
		Parity:      uint8(values[5]),
		SpeedMS:     uint16(values[6]),
		HeadingCdeg: uint16(values[7]),
	}, nil
}
