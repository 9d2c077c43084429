// Package audit persists a best-effort append-only trail of check and
// verify outcomes to SQLite.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(timestampLayout, value)
}

// Sink appends one audit row per check/verify outcome.
type Sink interface {
	Append(ctx context.Context, log models.FraudCheckLog) error
}

// SQLiteSink is the concrete Sink backed by a single fraud_check_logs
// table. A nil *SQLiteSink's Append is a no-op, which lets the service
// keep running without persistence when the database cannot be opened.
type SQLiteSink struct {
	db *sql.DB
}

// Open creates (or opens) the SQLite database at path and ensures the
// fraud_check_logs table exists.
func Open(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: ping sqlite: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS fraud_check_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		request_ip TEXT,
		ip_country_iso TEXT,
		fingerprint_id TEXT NOT NULL,
		origin TEXT,
		request_payload TEXT,
		decision TEXT NOT NULL,
		risk_score INTEGER NOT NULL,
		signals TEXT,
		captcha_required INTEGER NOT NULL DEFAULT 0,
		captcha_verified INTEGER NOT NULL DEFAULT 0,
		challenge_id TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: create table: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append inserts log as a new row. Signals are serialized to JSON since
// SQLite has no native array type.
func (s *SQLiteSink) Append(ctx context.Context, log models.FraudCheckLog) error {
	if s == nil || s.db == nil {
		return nil
	}

	signalsJSON, err := json.Marshal(log.Signals)
	if err != nil {
		return fmt.Errorf("audit: marshal signals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO fraud_check_logs
		(created_at, request_ip, ip_country_iso, fingerprint_id, origin, request_payload, decision, risk_score, signals, captcha_required, captcha_verified, challenge_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.CreatedAt.UTC().Format(timestampLayout),
		log.RequestIP,
		log.IPCountryISO,
		log.FingerprintID,
		log.Origin,
		log.RequestPayload,
		log.Decision,
		log.RiskScore,
		string(signalsJSON),
		boolToInt(log.CaptchaRequired),
		boolToInt(log.CaptchaVerified),
		log.ChallengeID,
	)
	if err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}

// List returns a page of audit rows ordered newest first, for GET
// /fraud/logs. page is 1-indexed.
func (s *SQLiteSink) List(ctx context.Context, page, pageSize int) ([]models.FraudCheckLog, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("audit: sink not configured")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, created_at, request_ip, ip_country_iso, fingerprint_id, origin,
		request_payload, decision, risk_score, signals, captcha_required, captcha_verified, challenge_id
		FROM fraud_check_logs ORDER BY id DESC LIMIT ? OFFSET ?`, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	out := []models.FraudCheckLog{}
	for rows.Next() {
		var (
			log           models.FraudCheckLog
			createdAt     string
			signalsJSON   string
			captchaReqInt int
			captchaVerInt int
		)
		if err := rows.Scan(
			&log.ID, &createdAt, &log.RequestIP, &log.IPCountryISO, &log.FingerprintID, &log.Origin,
			&log.RequestPayload, &log.Decision, &log.RiskScore, &signalsJSON, &captchaReqInt, &captchaVerInt, &log.ChallengeID,
		); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}

		if parsed, err := parseTimestamp(createdAt); err == nil {
			log.CreatedAt = parsed
		}
		if signalsJSON != "" {
			_ = json.Unmarshal([]byte(signalsJSON), &log.Signals)
		}
		log.CaptchaRequired = captchaReqInt != 0
		log.CaptchaVerified = captchaVerInt != 0

		out = append(out, log)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
