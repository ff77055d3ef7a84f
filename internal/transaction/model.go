package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Type tells whether a transaction adds to or draws from the balance
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

type Transaction struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Type        Type      `json:"type"`
	Date        time.Time `json:"date"`
}

// Fields are the client-editable parts of a transaction. A nil Date keeps the
// current value on update and means "now" on create.
type Fields struct {
	Description string
	Amount      float64
	Category    string
	Type        Type
	Date        *time.Time
}

// CategoryTotal is the summed expense amount for one category
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Summary aggregates a user's transactions for the stats cards and the pie chart
type Summary struct {
	Income     float64         `json:"income"`
	Expense    float64         `json:"expense"`
	Balance    float64         `json:"balance"`
	Categories []CategoryTotal `json:"categories"`
}
