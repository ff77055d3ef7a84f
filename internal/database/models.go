package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun model for the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Verified     bool      `bun:"verified,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Transaction is the bun model for the transactions table
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	UserID      uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Description string    `bun:"description,notnull"`
	Amount      float64   `bun:"amount,notnull"`
	Category    string    `bun:"category,notnull"`
	Type        string    `bun:"type,notnull"`
	Date        time.Time `bun:"date,notnull"`
}
