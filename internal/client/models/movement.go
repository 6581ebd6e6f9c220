package models

import "time"

// MovementKind classifies a movement.
type MovementKind string

const (
	MovementIncome  MovementKind = "income"
	MovementExpense MovementKind = "expense"
)

// DateLayout is the calendar-date format used by movements and filters.
const DateLayout = "2006-01-02"

type Movement struct {
	ID          string       `json:"id"`
	WalletID    string       `json:"walletId"`
	CategoryID  string       `json:"categoryId,omitempty"`
	Kind        MovementKind `json:"kind"`
	Amount      float64      `json:"amount"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Signed returns the amount as it affects the wallet balance.
func (m Movement) Signed() float64 {
	if m.Kind == MovementExpense {
		return -m.Amount
	}
	return m.Amount
}

// MovementInput is the payload for recording a movement. An empty Date means
// today.
type MovementInput struct {
	WalletID    string `validate:"required"`
	CategoryID  string
	Kind        MovementKind `validate:"oneof=income expense"`
	Amount      float64      `validate:"gt=0"`
	Description string
	Date        string `validate:"omitempty,isodate"`
}

// MovementFilter narrows List and Summary. Zero fields match everything;
// From and To are inclusive dates and Text is a case-insensitive substring
// of the description.
type MovementFilter struct {
	From       string
	To         string
	Kind       MovementKind
	WalletID   string
	CategoryID string
	Text       string
}

// Summary totals the movements matching a filter.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}
