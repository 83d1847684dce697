// Package store persists decoded Remote ID frames in SQLite
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"odidscan/internal/odid"
)

// Message is one stored Remote ID message
type Message struct {
	ID          int64
	FrameID     int64
	CapturedAt  time.Time
	Transmitter string
	RSSI        int
	Type        string
	IDValue     string
	Latitude    sql.NullFloat64
	Longitude   sql.NullFloat64
	Altitude    sql.NullFloat64
	JSON        string
}

// DB wraps a SQLite database connection for message storage
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Workers share the handle; a single connection serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS frames (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		captured_at TEXT NOT NULL,
		transmitter TEXT,
		rssi INTEGER,
		frequency INTEGER,
		pack_counter INTEGER,
		declared INTEGER,
		skipped INTEGER,
		truncated INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		frame_id INTEGER NOT NULL REFERENCES frames(id),
		slot INTEGER NOT NULL,
		type TEXT NOT NULL,
		id_value TEXT,
		latitude REAL,
		longitude REAL,
		altitude REAL,
		json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_frames_transmitter ON frames(transmitter);
	CREATE INDEX IF NOT EXISTS idx_frames_captured_at ON frames(captured_at);
	CREATE INDEX IF NOT EXISTS idx_messages_type ON messages(type);
	CREATE INDEX IF NOT EXISTS idx_messages_id_value ON messages(id_value);
	`

	_, err := db.Exec(schema)
	return err
}

// Save stores a frame and all of its messages in one transaction.
// Frames without a Remote ID element are not stored.
func (d *DB) Save(ctx context.Context, frame odid.DecodedFrame) (int64, error) {
	if !frame.Found() {
		return 0, nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	capturedAt := frame.Frame.Timestamp
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO frames (captured_at, transmitter, rssi, frequency, pack_counter, declared, skipped, truncated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		capturedAt.UTC().Format(time.RFC3339Nano),
		frame.Frame.Transmitter.String(),
		frame.Frame.RSSI,
		frame.Frame.Frequency,
		frame.Pack.Counter,
		frame.Pack.Count,
		frame.Skipped,
		frame.Truncated(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert frame: %w", err)
	}

	frameID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("frame id: %w", err)
	}

	for i, msg := range frame.Messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return 0, fmt.Errorf("marshal %s: %w", msg.Type(), err)
		}

		idValue, lat, lon, alt := summarize(msg)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (frame_id, slot, type, id_value, latitude, longitude, altitude, json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			frameID, i, msg.Type().String(), idValue, lat, lon, alt, string(data),
		); err != nil {
			return 0, fmt.Errorf("insert message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return frameID, nil
}

// summarize pulls the indexed columns out of a message
func summarize(msg odid.Message) (idValue sql.NullString, lat, lon, alt sql.NullFloat64) {
	switch m := msg.(type) {
	case odid.BasicID:
		idValue = sql.NullString{String: m.IDValue, Valid: true}
	case odid.OperatorID:
		idValue = sql.NullString{String: m.OperatorID, Valid: true}
	case odid.LocationVector:
		lat = sql.NullFloat64{Float64: m.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: m.Longitude, Valid: true}
		alt = sql.NullFloat64{Float64: m.AltitudeGeodetic, Valid: true}
	case odid.System:
		lat = sql.NullFloat64{Float64: m.OperatorLatitude, Valid: true}
		lon = sql.NullFloat64{Float64: m.OperatorLongitude, Valid: true}
		alt = sql.NullFloat64{Float64: m.OperatorAltitude, Valid: true}
	}
	return idValue, lat, lon, alt
}

// Recent returns the newest stored messages, optionally limited to one type
func (d *DB) Recent(ctx context.Context, messageType string, limit int) ([]Message, error) {
	query := `
		SELECT m.id, m.frame_id, f.captured_at, f.transmitter, f.rssi, m.type,
		       COALESCE(m.id_value, ''), m.latitude, m.longitude, m.altitude, m.json
		FROM messages m JOIN frames f ON f.id = m.frame_id`
	var args []any
	if messageType != "" {
		query += ` WHERE m.type = ?`
		args = append(args, messageType)
	}
	query += ` ORDER BY m.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var capturedAt string
		if err := rows.Scan(&m.ID, &m.FrameID, &capturedAt, &m.Transmitter, &m.RSSI, &m.Type,
			&m.IDValue, &m.Latitude, &m.Longitude, &m.Altitude, &m.JSON); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CapturedAt, err = time.Parse(time.RFC3339Nano, capturedAt)
		if err != nil {
			return nil, fmt.Errorf("parse captured_at of message %d: %w", m.ID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountByType returns the number of stored messages per type name
func (d *DB) CountByType(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM messages GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// Transmitters returns every transmitter address seen, most recent first
func (d *DB) Transmitters(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT transmitter FROM frames
		GROUP BY transmitter
		ORDER BY MAX(captured_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transmitters: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var mac string
		if err := rows.Scan(&mac); err != nil {
			return nil, fmt.Errorf("scan transmitter: %w", err)
		}
		out = append(out, mac)
	}
	return out, rows.Err()
}
