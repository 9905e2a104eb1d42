package domain

import "time"

// Transaction is a single signed movement on an account: positive amounts
// credit the account, negative amounts debit it. Amounts are minor units.
type Transaction struct {
	ID           string
	AccountID    string
	Name         string
	Counterparty string
	Amount       int64 // minor units, signed
	CreatedAt    time.Time

	// account is attached after loading so authorization can derive the
	// effective owner. It is never persisted with the transaction.
	account *Account
}

// AttachAccount links the owning account for authorization. An account with a
// different id is ignored, leaving the transaction unowned.
func (t *Transaction) AttachAccount(a *Account) {
	if a != nil && a.ID == t.AccountID {
		t.account = a
	}
}

// Account returns the attached owning account, or nil.
func (t *Transaction) Account() *Account {
	return t.account
}

// OwnerID returns the id of the account's owner, derived transitively. A
// transaction without an attached account reports no owner, which the guard
// treats as unauthorized.
func (t *Transaction) OwnerID() string {
	if t.account == nil {
		return ""
	}

	return t.account.OwnerID()
}
