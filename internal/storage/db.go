package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"car-expense-tracker/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when inserting a duplicate username.
	ErrUsernameTaken = errors.New("username already exists")
)

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and creates the schema.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// An in-memory database lives and dies with its connection.
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			cost TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_id ON expenses(user_id)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at DATETIME NOT NULL,
			last_activity DATETIME DEFAULT CURRENT_TIMESTAMP,
			flash_kind TEXT NOT NULL DEFAULT '',
			flash_message TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}

	for _, s := range statements {
		if _, err := db.conn.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateExpense inserts a new expense owned by userID.
func (db *DB) CreateExpense(userID int64, date, cost string) (*models.Expense, error) {
	result, err := db.conn.Exec(
		"INSERT INTO expenses (date, cost, user_id) VALUES (?, ?, ?)",
		date, cost, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetExpense(id)
}

// GetExpense retrieves a single expense by ID.
func (db *DB) GetExpense(id int64) (*models.Expense, error) {
	row := db.conn.QueryRow(
		"SELECT id, date, cost, user_id, created_at FROM expenses WHERE id = ?",
		id,
	)

	var e models.Expense
	if err := row.Scan(&e.ID, &e.Date, &e.Cost, &e.UserID, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListExpensesByUser returns every expense owned by userID in the order they
// were added.
func (db *DB) ListExpensesByUser(userID int64) ([]models.Expense, error) {
	rows, err := db.conn.Query(
		"SELECT id, date, cost, user_id, created_at FROM expenses WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Cost, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// DeleteExpense removes the expense with the given ID if userID owns it.
// An expense owned by someone else is reported as ErrNotFound.
func (db *DB) DeleteExpense(id, userID int64) error {
	result, err := db.conn.Exec("DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpenseCount returns the number of stored expenses across all users.
func (db *DB) ExpenseCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM expenses").Scan(&count)
	return count, err
}

// CreateUser creates a new user with the given username and password hash.
func (db *DB) CreateUser(username, passwordHash string) (*models.User, error) {
	result, err := db.conn.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	return scanUser(db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	))
}

// GetUserByUsername retrieves a user by exact, case-sensitive username.
func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	return scanUser(db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
