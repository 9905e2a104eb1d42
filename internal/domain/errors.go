package domain

import "errors"

var (
	// ErrNotFound covers both genuine absence and access by a non-owner.
	// The two causes are deliberately indistinguishable so callers cannot
	// probe for other users' records.
	ErrNotFound = errors.New("not found")

	// ErrStoreInconsistent signals that a unique-key lookup returned more
	// than one record. The enclosing operation must abort without applying
	// partial updates.
	ErrStoreInconsistent = errors.New("store returned conflicting records for unique key")

	// Account errors
	ErrDuplicateAccountName = errors.New("account name already in use")

	// Transfer errors
	ErrSameAccount   = errors.New("cannot transfer to same account")
	ErrInvalidAmount = errors.New("amount must be positive")
)
