// Package journal keeps a local sqlite log of sync traffic, keyed by
// event id, for debugging and log correlation. It plugs into the client
// as an Observer and never makes the dispatch path wait on disk.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"main/internal/realtime"
	"main/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	_ "modernc.org/sqlite"
)

const defaultQueueSize = 256

const createTableStmt = `
CREATE TABLE IF NOT EXISTS sync_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	direction   TEXT NOT NULL,
	event_type  TEXT NOT NULL,
	event_id    TEXT,
	platform    TEXT,
	user_id     TEXT,
	payload     TEXT,
	timestamp   TEXT,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sync_events_type ON sync_events(event_type);
CREATE INDEX IF NOT EXISTS idx_sync_events_event_id ON sync_events(event_id);
`

// Record is one journaled envelope.
type Record struct {
	ID         int64
	Direction  string
	EventType  string
	EventID    string
	Platform   string
	UserID     string
	Payload    string
	Timestamp  string
	RecordedAt time.Time
}

type entry struct {
	direction  string
	env        realtime.Envelope
	recordedAt string
}

// Journal writes envelopes to sqlite from a buffered queue.
type Journal struct {
	db *sql.DB

	mu     sync.RWMutex
	ch     chan entry
	done   chan struct{}
	closed bool
}

// Open creates or opens the journal database and starts the writer loop.
func Open(ctx context.Context, path string) (*Journal, error) {
	if path == "" {
		return nil, exception.ErrInvalidArgument
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create journal dir")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	if _, err := db.ExecContext(ctx, createTableStmt); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create journal table")
	}

	j := &Journal{
		db:   db,
		ch:   make(chan entry, defaultQueueSize),
		done: make(chan struct{}),
	}
	go j.loop()
	return j, nil
}

// ObserveInbound implements realtime.Observer.
func (j *Journal) ObserveInbound(env realtime.Envelope) {
	j.enqueue("in", env)
}

// ObserveOutbound implements realtime.Observer.
func (j *Journal) ObserveOutbound(env realtime.Envelope) {
	j.enqueue("out", env)
}

func (j *Journal) enqueue(direction string, env realtime.Envelope) {
	if j == nil {
		return
	}
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return
	}
	select {
	case j.ch <- entry{direction: direction, env: env, recordedAt: time.Now().UTC().Format(time.RFC3339Nano)}:
	default:
		logs.Warnf("journal: queue full, drop %q %s event", direction, env.EventType)
	}
}

func (j *Journal) loop() {
	defer close(j.done)
	for e := range j.ch {
		if err := j.insert(e); err != nil {
			logs.Errorf("journal: insert %s event, err: %+v", e.env.EventType, err)
		}
	}
}

func (j *Journal) insert(e entry) error {
	_, err := j.db.Exec(`
INSERT INTO sync_events(direction, event_type, event_id, platform, user_id, payload, timestamp, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, e.direction, e.env.EventType, e.env.EventID, e.env.Platform, e.env.UserID, string(e.env.Data), e.env.Timestamp, e.recordedAt)
	return err
}

// Recent returns the newest records, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, exception.ErrInvalidArgument
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, direction, event_type, event_id, platform, user_id, payload, timestamp, recorded_at
FROM sync_events ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent events")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var recordedAt string
		if err := rows.Scan(&r.ID, &r.Direction, &r.EventType, &r.EventID, &r.Platform, &r.UserID, &r.Payload, &r.Timestamp, &recordedAt); err != nil {
			return nil, errors.Wrap(err, "scan event record")
		}
		if ts, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			r.RecordedAt = ts
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountByType returns how many records exist per event type.
func (j *Journal) CountByType(ctx context.Context) (map[string]int64, error) {
	rows, err := j.db.QueryContext(ctx, `
SELECT event_type, COUNT(*) FROM sync_events GROUP BY event_type
`)
	if err != nil {
		return nil, errors.Wrap(err, "count events")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, errors.Wrap(err, "scan event count")
		}
		counts[eventType] = count
	}
	return counts, rows.Err()
}

// Close drains the queue and closes the database.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return exception.ErrJournalClosed
	}
	j.closed = true
	close(j.ch)
	j.mu.Unlock()

	<-j.done
	return j.db.Close()
}
