package migrations

// InitialSchema creates the initial database schema
var InitialSchema = &Migration{
	Name: "001_initial_schema",
	UpSQL: `
		-- Enable TimescaleDB extension
		CREATE EXTENSION IF NOT EXISTS timescaledb;

		-- Create track_reports hypertable
		CREATE TABLE IF NOT EXISTS track_reports (
			time TIMESTAMPTZ NOT NULL,
			session_id TEXT NOT NULL,
			track INTEGER NOT NULL,
			track_number INTEGER NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			altitude_m DOUBLE PRECISION,
			speed_ms INTEGER,
			heading_deg DOUBLE PRECISION,
			source TEXT
		);

		-- Create hypertable
		SELECT create_hypertable('track_reports', 'time');

		-- Create indexes
		CREATE INDEX IF NOT EXISTS idx_track_reports_track_number ON track_reports (track_number);
		CREATE INDEX IF NOT EXISTS idx_track_reports_session_id ON track_reports (session_id);

		-- Create link statistics table
		CREATE TABLE IF NOT EXISTS link_stats (
			time TIMESTAMPTZ NOT NULL,
			telemetry_received BIGINT NOT NULL,
			reports_encoded BIGINT NOT NULL,
			encode_failures BIGINT NOT NULL,
			frames_sealed BIGINT NOT NULL,
			frames_sent BIGINT NOT NULL,
			send_failures BIGINT NOT NULL
		);

		-- Create hypertable for statistics
		SELECT create_hypertable('link_stats', 'time');

		-- Create index for statistics
		CREATE INDEX IF NOT EXISTS idx_link_stats_time ON link_stats (time DESC);
	`,
	DownSQL: `
		DROP TABLE IF EXISTS link_stats;
		DROP TABLE IF EXISTS track_reports;
	`,
}
