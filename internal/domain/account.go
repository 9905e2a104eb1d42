package domain

import "time"

// Account is a user's ledger of transactions with a cached balance. Balances
// are kept as signed integer counts of minor currency units (cents) so they
// never accumulate floating-point drift. The cached balance always equals the
// initial balance plus the sum of the account's transaction amounts.
type Account struct {
	ID        string
	UserID    string
	Name      string
	Balance   int64 // minor units
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID returns the id of the owning user.
func (a *Account) OwnerID() string {
	return a.UserID
}

// ApplyAmount returns the balance after recording a transaction amount.
func (a *Account) ApplyAmount(amount int64) int64 {
	return a.Balance + amount
}

// ReverseAmount returns the balance after removing a transaction amount.
func (a *Account) ReverseAmount(amount int64) int64 {
	return a.Balance - amount
}
