package storage

import (
	"database/sql"
	"errors"
	"time"

	"car-expense-tracker/internal/models"
)

// Session timestamps are stored in UTC so that they compare correctly as
// text inside SQLite.

// CreateSession creates a new session for a user.
func (db *DB) CreateSession(token string, userID int64, expiresAt time.Time) error {
	now := time.Now().UTC()
	_, err := db.conn.Exec(
		"INSERT INTO sessions (token, user_id, expires_at, last_activity) VALUES (?, ?, ?, ?)",
		token, userID, expiresAt.UTC(), now,
	)
	return err
}

// SessionInfo holds session validation data.
type SessionInfo struct {
	User         *models.User
	LastActivity time.Time
	ExpiresAt    time.Time
}

// ValidateSession checks if a session token is valid and returns the associated user.
func (db *DB) ValidateSession(token string) (*models.User, error) {
	info, err := db.ValidateSessionWithInfo(token)
	if err != nil {
		return nil, err
	}
	return info.User, nil
}

// ValidateSessionWithInfo checks if a session token is valid and returns session details.
func (db *DB) ValidateSessionWithInfo(token string) (*SessionInfo, error) {
	row := db.conn.QueryRow(`
		SELECT u.id, u.username, u.password_hash, u.created_at, s.last_activity, s.expires_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, time.Now().UTC())

	var u models.User
	var lastActivity, expiresAt time.Time
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &lastActivity, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &SessionInfo{
		User:         &u,
		LastActivity: lastActivity,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenewSession updates the last_activity and expires_at for a session.
func (db *DB) RenewSession(token string, newExpiresAt time.Time) error {
	now := time.Now().UTC()
	_, err := db.conn.Exec(
		"UPDATE sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		now, newExpiresAt.UTC(), token,
	)
	return err
}

// DeleteSession removes a session by token.
func (db *DB) DeleteSession(token string) error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// CleanExpiredSessions removes all expired sessions and reports how many
// were removed.
func (db *DB) CleanExpiredSessions() (int64, error) {
	result, err := db.conn.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SetFlash stores a message to show on the session's next page view,
// replacing any message not yet shown.
func (db *DB) SetFlash(token string, flash models.Flash) error {
	_, err := db.conn.Exec(
		"UPDATE sessions SET flash_kind = ?, flash_message = ? WHERE token = ?",
		flash.Kind, flash.Message, token,
	)
	return err
}

// PopFlash returns and clears the session's pending message. It returns nil
// when there is none.
func (db *DB) PopFlash(token string) (*models.Flash, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var f models.Flash
	err = tx.QueryRow(
		"SELECT flash_kind, flash_message FROM sessions WHERE token = ?",
		token,
	).Scan(&f.Kind, &f.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if f.Message == "" {
		return nil, nil
	}

	if _, err := tx.Exec(
		"UPDATE sessions SET flash_kind = '', flash_message = '' WHERE token = ?",
		token,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &f, nil
}
