package models

import "time"

// Expense is a dated car cost entry. Date and Cost are stored exactly as
// the user typed them.
type Expense struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Cost      string    `json:"cost"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next dashboard render.
type Flash struct {
	Kind    string
	Message string
}
