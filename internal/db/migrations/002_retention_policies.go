package migrations

// RetentionPolicies adds retention and continuous aggregates on top of the
// initial schema.
var RetentionPolicies = &Migration{
	Name: "002_retention_policies",
	UpSQL: `
	-- Set retention policy for track_reports (30 days)
	SELECT add_retention_policy('track_reports', INTERVAL '30 days');

	-- Set retention policy for link_stats (90 days)
	SELECT add_retention_policy('link_stats', INTERVAL '90 days');

	-- Create continuous aggregate for daily link stats
	CREATE MATERIALIZED VIEW IF NOT EXISTS link_stats_daily
	WITH (timescaledb.continuous) AS
	SELECT
		time_bucket('1 day', time) AS day,
		SUM(telemetry_received) AS telemetry_received,
		SUM(reports_encoded) AS reports_encoded,
		SUM(encode_failures) AS encode_failures,
		SUM(frames_sealed) AS frames_sealed,
		SUM(frames_sent) AS frames_sent,
		SUM(send_failures) AS send_failures
	FROM link_stats
	GROUP BY day
	WITH NO DATA;

	-- Create continuous aggregate for hourly report counts
	CREATE MATERIALIZED VIEW IF NOT EXISTS track_reports_hourly
	WITH (timescaledb.continuous) AS
	SELECT
		time_bucket('1 hour', time) AS hour,
		COUNT(*) AS report_count
	FROM track_reports
	GROUP BY hour
	WITH NO DATA;
	`,
	DownSQL: `
	DROP MATERIALIZED VIEW IF EXISTS link_stats_daily;
	DROP MATERIALIZED VIEW IF EXISTS track_reports_hourly;
	-- Remove retention policies
	SELECT remove_retention_policy('track_reports');
	SELECT remove_retention_policy('link_stats');
	`,
}
