package interview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS interview_sessions (
    id TEXT PRIMARY KEY,
    role TEXT NOT NULL,
    level TEXT NOT NULL,
    mode TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS interview_exchanges (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (session_id, position),
    FOREIGN KEY (session_id) REFERENCES interview_sessions(id)
);
`

// SQLiteStore implements Store on top of an SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens dsn and ensures the schema exists.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	// 内存库只在连接存活期间存在，固定为单连接。
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create provisions a new session and its opening exchange.
func (s *SQLiteStore) Create(ctx context.Context, role, level, mode string) (Session, error) {
	session := NewSession(role, level, mode)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO interview_sessions (id, role, level, mode, created_at) VALUES (?, ?, ?, ?, ?)",
		session.ID, session.Role, session.Level, session.Mode, session.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}

	for i, exchange := range session.Exchanges {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO interview_exchanges (session_id, position, question, answer) VALUES (?, ?, ?, ?)",
			session.ID, i, exchange.Question, exchange.Answer,
		); err != nil {
			return Session{}, fmt.Errorf("insert exchange: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Get loads a session with its exchanges in chronological order.
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (Session, error) {
	var (
		session   Session
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, role, level, mode, created_at FROM interview_sessions WHERE id = ?", sessionID,
	).Scan(&session.ID, &session.Role, &session.Level, &session.Mode, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		session.CreatedAt = parsed
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT question, answer FROM interview_exchanges WHERE session_id = ? ORDER BY position", sessionID,
	)
	if err != nil {
		return Session{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var exchange Exchange
		if err := rows.Scan(&exchange.Question, &exchange.Answer); err != nil {
			return Session{}, err
		}
		session.Exchanges = append(session.Exchanges, exchange)
	}
	return session, rows.Err()
}

// RecordAnswerAndAdvance fills the pending answer and appends nextQuestion in one transaction.
func (s *SQLiteStore) RecordAnswerAndAdvance(ctx context.Context, sessionID, answer, nextQuestion string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var last sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT MAX(position) FROM interview_exchanges WHERE session_id = s.id)
		 FROM interview_sessions s WHERE s.id = ?`, sessionID,
	).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	next := int64(0)
	if last.Valid {
		if _, err := tx.ExecContext(ctx,
			"UPDATE interview_exchanges SET answer = ? WHERE session_id = ? AND position = ?",
			answer, sessionID, last.Int64,
		); err != nil {
			return fmt.Errorf("record answer: %w", err)
		}
		next = last.Int64 + 1
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO interview_exchanges (session_id, position, question, answer) VALUES (?, ?, ?, '')",
		sessionID, next, nextQuestion,
	); err != nil {
		return fmt.Errorf("append question: %w", err)
	}

	return tx.Commit()
}
