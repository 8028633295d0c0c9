package core

import "time"

const (
	EventTransactionCreated LedgerEventKind = "transaction.created"
	EventTransactionUpdated LedgerEventKind = "transaction.updated"
	EventTransactionDeleted LedgerEventKind = "transaction.deleted"
)

type LedgerEventKind string

func (k LedgerEventKind) Valid() bool {
	switch k {
	case EventTransactionCreated, EventTransactionUpdated, EventTransactionDeleted:
		return true
	}
	return false
}

// LedgerEvent is emitted after a transaction mutation has been committed.
type LedgerEvent struct {
	Kind        LedgerEventKind
	UserID      string
	Transaction Transaction
	Timestamp   time.Time
}

func NewLedgerEvent(kind LedgerEventKind, userID string, tx Transaction) LedgerEvent {
	return LedgerEvent{Kind: kind, UserID: userID, Transaction: tx, Timestamp: time.Now().UTC()}
}
