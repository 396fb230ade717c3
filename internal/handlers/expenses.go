package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"car-expense-tracker/internal/forms"
	applog "car-expense-tracker/internal/log"
	"car-expense-tracker/internal/models"
	"car-expense-tracker/internal/storage"

	"github.com/gorilla/mux"
)

// Flash messages shown on the dashboard.
const (
	MsgExpenseDeleted  = "Expense deleted successfully."
	MsgExpenseNotFound = "Expense not found."
	msgExpenseRejected = "Expense not saved: "
)

// ExpenseRow is one line of the dashboard table.
type ExpenseRow struct {
	models.Expense
	Invalid bool
}

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	User         *models.User
	Expenses     []ExpenseRow
	Total        string
	InvalidCount int
	Flash        *models.Flash
}

// Dashboard lists the current user's expenses and their total.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	expenses, err := h.db.ListExpensesByUser(user.ID)
	if err != nil {
		serverError(w, r, "Failed to list expenses", err, applog.FieldOperation, applog.OpList)
		return
	}

	total, invalid := models.TotalCost(expenses)
	invalidIDs := make(map[int64]bool, len(invalid))
	for _, id := range invalid {
		invalidIDs[id] = true
	}

	rows := make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, ExpenseRow{Expense: e, Invalid: invalidIDs[e.ID]})
	}

	flash, err := h.db.PopFlash(sessionTokenFromContext(r))
	if err != nil {
		// Losing a flash message is not worth failing the page.
		componentLogger(r, applog.ComponentExpense).Warn("Failed to read flash", applog.FieldError, err)
	}

	h.render(w, r, http.StatusOK, "dashboard.html", DashboardViewModel{
		User:         user,
		Expenses:     rows,
		Total:        total.StringFixed(2),
		InvalidCount: len(invalid),
		Flash:        flash,
	})
}

// CreateExpense stores a new expense for the current user. Date and cost are
// kept verbatim; only presence and length are checked.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	logger := componentLogger(r, applog.ComponentExpense)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	date := r.FormValue("date")
	cost := r.FormValue("cost")

	if result := forms.ValidateExpense(date, cost); !result.OK() {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Error())
		}
		h.flash(r, models.Flash{Kind: models.FlashError, Message: msgExpenseRejected + strings.Join(msgs, " ")})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	expense, err := h.db.CreateExpense(user.ID, date, cost)
	if err != nil {
		serverError(w, r, "Failed to create expense", err, applog.FieldOperation, applog.OpCreate)
		return
	}

	logger.Info("Expense created", applog.FieldOperation, applog.OpCreate, applog.FieldExpenseID, expense.ID)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// DeleteExpense removes one of the current user's expenses. Expenses that do
// not exist or belong to someone else are reported as not found.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	logger := componentLogger(r, applog.ComponentExpense)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.flash(r, models.Flash{Kind: models.FlashError, Message: MsgExpenseNotFound})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	err = h.db.DeleteExpense(id, user.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Info("Expense not found", applog.FieldOperation, applog.OpDelete, applog.FieldExpenseID, id)
		h.flash(r, models.Flash{Kind: models.FlashError, Message: MsgExpenseNotFound})
	case err != nil:
		serverError(w, r, "Failed to delete expense", err, applog.FieldOperation, applog.OpDelete, applog.FieldExpenseID, id)
		return
	default:
		logger.Info("Expense deleted", applog.FieldOperation, applog.OpDelete, applog.FieldExpenseID, id)
		h.flash(r, models.Flash{Kind: models.FlashSuccess, Message: MsgExpenseDeleted})
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handlers) flash(r *http.Request, f models.Flash) {
	token := sessionTokenFromContext(r)
	if token == "" {
		return
	}
	if err := h.db.SetFlash(token, f); err != nil {
		componentLogger(r, applog.ComponentExpense).Warn("Failed to store flash", applog.FieldError, err)
	}
}
