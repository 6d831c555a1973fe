package db

import (
	"database/sql"

	"github.com/NsdHSO/ads/internal/types"
	_ "github.com/lib/pq"
)

type Client struct {
	db *sql.DB
}

// New creates a new database client
func New(connStr string) (*Client, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	return &Client{db: db}, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// StoreTrackReport stores a decoded track report
func (c *Client) StoreTrackReport(report *types.TrackReport) error {
	query := `
		INSERT INTO track_reports (
			time, session_id, track, track_number,
			latitude, longitude, altitude_m, speed_ms, heading_deg, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := c.db.Exec(query,
		report.ReceivedAt, report.SessionID, int(report.Track), int(report.TrackNumber),
		report.Latitude, report.Longitude, report.AltitudeM,
		int(report.SpeedMS), report.HeadingDeg, report.Source,
	)
	return err
}

// GetRecentReports retrieves the most recent reports for a track number
func (c *Client) GetRecentReports(trackNumber uint16, limit int) ([]*types.TrackReport, error) {
	query := `
		SELECT time, session_id, track, track_number,
			latitude, longitude, altitude_m, speed_ms, heading_deg, source
		FROM track_reports
		WHERE track_number = $1
		ORDER BY time DESC
		LIMIT $2
	`
	rows, err := c.db.Query(query, int(trackNumber), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*types.TrackReport
	for rows.Next() {
		var r types.TrackReport
		var track, number, speed int
		if err := rows.Scan(
			&r.ReceivedAt, &r.SessionID, &track, &number,
			&r.Latitude, &r.Longitude, &r.AltitudeM, &speed, &r.HeadingDeg, &r.Source,
		); err != nil {
			return nil, err
		}
		r.Track = uint16(track)
		r.TrackNumber = uint16(number)
		r.SpeedMS = uint16(speed)
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}

// StoreLinkStats stores bridge link statistics
func (c *Client) StoreLinkStats(stats map[string]interface{}) error {
	query := `
		INSERT INTO link_stats (
			time, telemetry_received, reports_encoded, encode_failures,
			frames_sealed, frames_sent, send_failures
		) VALUES (NOW(), $1, $2, $3, $4, $5, $6)
	`
	_, err := c.db.Exec(query,
		stats["telemetry_received"],
		stats["reports_encoded"],
		stats["encode_failures"],
		stats["frames_sealed"],
		stats["frames_sent"],
		stats["send_failures"],
	)
	return err
}
