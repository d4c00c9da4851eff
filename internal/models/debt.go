// Package models defines the core domain models for debit-bot.
//
// A DebtRecord exists only while its debtor owes a positive amount:
// records are created on the first debt addition, mutated by every
// addition or payment, and deleted outright once the balance reaches
// zero. Presence in the store therefore always implies a positive
// balance.
package models

import "time"

// DebtEntry is one logged debt addition. Payments are not logged as
// entries; only the record total reflects them.
type DebtEntry struct {
	// Amount is the canonical numeric value of the token, in base
	// currency units (VND).
	Amount float64 `json:"amount"`

	// AmountText is the raw token text as it appeared in the message
	// (e.g. "50k", "1.000.000"). Kept for display, never re-parsed.
	AmountText string `json:"amountFormatted"`

	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp"`

	// CreditorID is the user who added this entry. It may differ from
	// the record-level creditor, which is sticky to the first creditor.
	CreditorID string `json:"creditorId"`
}

// DebtRecord is the persistent ledger entry for one debtor.
type DebtRecord struct {
	// DebtorID identifies the person who owes.
	DebtorID string `json:"userId"`

	// CreditorID identifies the creditor of record: the only user
	// authorized to force-clear this balance. First write wins; later
	// additions from other creditors never overwrite it. Empty means
	// unknown.
	CreditorID string `json:"creditorId"`

	// Total is the outstanding amount in base currency units.
	// Always positive; a record that would reach zero is deleted.
	Total float64 `json:"totalDebt"`

	// LastUpdated is the time of the most recent mutation.
	LastUpdated time.Time `json:"lastUpdated"`

	// History holds every debt addition in insertion order.
	History []DebtEntry `json:"history"`
}
