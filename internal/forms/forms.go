// Package forms validates submitted form values. Validators return a Result
// listing every field error instead of stopping at the first one.
package forms

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Length limits for account fields.
const (
	UsernameMin = 4
	UsernameMax = 15
	PasswordMin = 5
	PasswordMax = 30

	// ExpenseFieldMax bounds the free-text date and cost columns.
	ExpenseFieldMax = 50
)

// Messages shared by the web forms and the adduser command.
const (
	MsgUsernameTaken  = "This username already exists. Please choose a different username or log in."
	MsgUsernameSpaces = "Username cannot start or end with a space."
)

// FieldError describes a problem with a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Result collects field errors. The zero value is a passing result.
type Result struct {
	Errors []FieldError
}

// OK reports whether no field errors were recorded.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Add records an error against field.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// For returns the messages recorded against field.
func (r Result) For(field string) []string {
	var msgs []string
	for _, e := range r.Errors {
		if e.Field == field {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// ValidateRegistration checks the registration form. Usernames are stored
// and matched exactly, so surrounding spaces are rejected rather than
// trimmed. Username uniqueness needs the store and is checked by the caller.
func ValidateRegistration(username, password string) Result {
	r := validateCredentials(username, password)
	if username != "" && username != strings.TrimSpace(username) {
		r.Add("username", MsgUsernameSpaces)
	}
	return r
}

// ValidateLogin checks the login form using the registration length rules.
func ValidateLogin(username, password string) Result {
	return validateCredentials(username, password)
}

func validateCredentials(username, password string) Result {
	var r Result
	checkLength(&r, "username", username, UsernameMin, UsernameMax)
	checkLength(&r, "password", password, PasswordMin, PasswordMax)
	return r
}

// ValidateExpense only checks that date and cost are present and fit the
// columns. Their format is not validated.
func ValidateExpense(date, cost string) Result {
	var r Result
	checkLength(&r, "date", date, 1, ExpenseFieldMax)
	checkLength(&r, "cost", cost, 1, ExpenseFieldMax)
	return r
}

func checkLength(r *Result, field, value string, lo, hi int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		r.Add(field, "This field is required.")
	case n < lo || n > hi:
		if lo == hi {
			r.Add(field, fmt.Sprintf("Field must be exactly %d characters long.", lo))
		} else {
			r.Add(field, fmt.Sprintf("Field must be between %d and %d characters long.", lo, hi))
		}
	}
}
