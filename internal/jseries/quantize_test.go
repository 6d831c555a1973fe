package jseries

import (
	"errors"
	"testing"
)

func TestPackLatitude(t *testing.T) {
	tests := []struct {
		name      string
		deg       float64
		want      uint32
		wantErr   bool
		wantField string
	}{
		{name: "south pole", deg: -90, want: 0},
		{name: "equator", deg: 0, want: 262144},
		{name: "north pole", deg: 90, want: 524287},
		{name: "scenario latitude", deg: 45.1234567, want: 393575},
		{name: "just above range", deg: 90.1, wantErr: true, wantField: "latitude"},
		{name: "just below range", deg: -90.1, wantErr: true, wantField: "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := packLatitude(tt.deg)

			if tt.wantErr {
				var overflow *OverflowError
				if !errors.As(err, &overflow) {
					t.Fatalf("packLatitude(%v) expected OverflowError, got %v", tt.deg, err)
				}
				if overflow.Field != tt.wantField {
					t.Errorf("OverflowError.Field = %q, want %q", overflow.Field, tt.wantField)
				}
				return
			}

			if err != nil {
				t.Fatalf("packLatitude(%v) unexpected error: %v", tt.deg, err)
			}
			if got != tt.want {
				t.Errorf("packLatitude(%v) = %d, want %d", tt.deg, got, tt.want)
			}
		})
	}
}

func TestPackLongitude(t *testing.T) {
	tests := []struct {
		name    string
		deg     float64
		want    uint32
		wantErr bool
	}{
		{name: "antimeridian west", deg: -180, want: 0},
		{name: "prime meridian", deg: 0, want: 262144},
		{name: "antimeridian east", deg: 180, want: 524287},
		{name: "scenario longitude", deg: -122.9876543, want: 83030},
		{name: "out of range", deg: 180.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := packLongitude(tt.deg)

			if tt.wantErr {
				var overflow *OverflowError
				if !errors.As(err, &overflow) {
					t.Fatalf("packLongitude(%v) expected OverflowError, got %v", tt.deg, err)
				}
				if overflow.Field != "longitude" {
					t.Errorf("OverflowError.Field = %q, want longitude", overflow.Field)
				}
				return
			}

			if err != nil {
				t.Fatalf("packLongitude(%v) unexpected error: %v", tt.deg, err)
			}
			if got != tt.want {
				t.Errorf("packLongitude(%v) = %d, want %d", tt.deg, got, tt.want)
			}
		})
	}
}

func TestPackAltitude(t *testing.T) {
	tests := []struct {
		name    string
		m       float64
		want    uint16
		wantErr bool
	}{
		{name: "sea level", m: 0, want: 0},
		{name: "scenario altitude", m: 1500.9, want: 197},
		{name: "ceiling", m: MaxAltitudeM, want: 16383},
		{name: "negative altitude", m: -50, wantErr: true},
		{name: "above ceiling", m: MaxAltitudeM + 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := packAltitude(tt.m)

			if tt.wantErr {
				var overflow *OverflowError
				if !errors.As(err, &overflow) {
					t.Fatalf("packAltitude(%v) expected OverflowError, got %v", tt.m, err)
				}
				if overflow.Field != "altitude" {
					t.Errorf("OverflowError.Field = %q, want altitude", overflow.Field)
				}
				return
			}

			if err != nil {
				t.Fatalf("packAltitude(%v) unexpected error: %v", tt.m, err)
			}
			if got != tt.want {
				t.Errorf("packAltitude(%v) = %d, want %d", tt.m, got, tt.want)
			}
		})
	}
}

func TestRangeSoundness(t *testing.T) {
	// Every in-domain input must land inside the declared field width.
	latitudes := []float64{-90, -89.999, -45.5, 0, 0.0001, 33.3333, 89.999, 90}
	for _, deg := range latitudes {
		code, err := packLatitude(deg)
		if err != nil {
			t.Fatalf("packLatitude(%v) failed: %v", deg, err)
		}
		if code > latLonCodeMax {
			t.Errorf("packLatitude(%v) = %d, exceeds %d", deg, code, latLonCodeMax)
		}
	}

	longitudes := []float64{-180, -179.999, -122.9876543, 0, 90.5, 179.999, 180}
	for _, deg := range longitudes {
		code, err := packLongitude(deg)
		if err != nil {
			t.Fatalf("packLongitude(%v) failed: %v", deg, err)
		}
		if code > latLonCodeMax {
			t.Errorf("packLongitude(%v) = %d, exceeds %d", deg, code, latLonCodeMax)
		}
	}

	altitudes := []float64{0, 0.1, 1500.9, 11000, 50000, MaxAltitudeM}
	for _, m := range altitudes {
		code, err := packAltitude(m)
		if err != nil {
			t.Fatalf("packAltitude(%v) failed: %v", m, err)
		}
		if code > altCodeMax {
			t.Errorf("packAltitude(%v) = %d, exceeds %d", m, code, altCodeMax)
		}
	}
}

func TestHeadingCdeg(t *testing.T) {
	tests := []struct {
		deg  float64
		want uint16
	}{
		{0, 0},
		{271, 27100},
		{271.5, 27150},
		{359.99, 35999},
		{360, 0},
		{-90, 27000},
		{720.25, 25},
	}

	for _, tt := range tests {
		if got := HeadingCdeg(tt.deg); got != tt.want {
			t.Errorf("HeadingCdeg(%v) = %d, want %d", tt.deg, got, tt.want)
		}
	}
}

func TestDequantizeApproximation(t *testing.T) {
	// One quantization step of latitude covers 180/524287 of a degree, so
	// the dequantized value must sit within half a step of the input.
	const latStep = 180.0 / latLonCodeMax
	const lonStep = 360.0 / latLonCodeMax

	code, err := packLatitude(45.1234567)
	if err != nil {
		t.Fatalf("packLatitude failed: %v", err)
	}
	if diff := latitudeDeg(code) - 45.1234567; diff > latStep/2 || diff < -latStep/2 {
		t.Errorf("latitudeDeg(%d) off by %v, more than half a step", code, diff)
	}

	code, err = packLongitude(-122.9876543)
	if err != nil {
		t.Fatalf("packLongitude failed: %v", err)
	}
	if diff := longitudeDeg(code) - (-122.9876543); diff > lonStep/2 || diff < -lonStep/2 {
		t.Errorf("longitudeDeg(%d) off by %v, more than half a step", code, diff)
	}

	alt, err := packAltitude(1500.9)
	if err != nil {
		t.Fatalf("packAltitude failed: %v", err)
	}
	// 25 ft is about 7.62 m per step.
	if diff := altitudeM(alt) - 1500.9; diff > 3.82 || diff < -3.82 {
		t.Errorf("altitudeM(%d) off by %v m", alt, diff)
	}
}
