package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// TransactionPayload is the wire form of a ledger transaction.
type TransactionPayload struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       float64   `json:"amount"`
	FromWalletID string    `json:"fromWalletId"`
	ToWalletID   string    `json:"toWalletId,omitempty"`
	CategoryID   string    `json:"categoryId,omitempty"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LedgerEventMessage carries the full transaction, deleted ones included.
type LedgerEventMessage struct {
	Kind        string             `json:"kind"`
	UserID      string             `json:"userId"`
	Transaction TransactionPayload `json:"transaction"`
	Timestamp   time.Time          `json:"timestamp"`
}

func NewLedgerEventMessage(ev core.LedgerEvent) *LedgerEventMessage {
	tx := ev.Transaction
	return &LedgerEventMessage{
		Kind:   string(ev.Kind),
		UserID: ev.UserID,
		Transaction: TransactionPayload{
			ID:           tx.ID,
			Type:         string(tx.Type),
			Amount:       tx.Amount,
			FromWalletID: tx.FromWalletID,
			ToWalletID:   tx.ToWalletID,
			CategoryID:   tx.CategoryID,
			Date:         tx.Date,
			Notes:        tx.Notes,
			CreatedAt:    tx.CreatedAt,
			UpdatedAt:    tx.UpdatedAt,
		},
		Timestamp: ev.Timestamp,
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON decodes a message and rejects unknown kinds or
// messages without a transaction ID.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !core.LedgerEventKind(msg.Kind).Valid() {
		return nil, fmt.Errorf("unknown ledger event kind %q", msg.Kind)
	}
	if msg.Transaction.ID == "" {
		return nil, fmt.Errorf("ledger event without transaction id")
	}
	return &msg, nil
}

// Event converts the message back to the domain event.
func (m *LedgerEventMessage) Event() core.LedgerEvent {
	p := m.Transaction
	return core.LedgerEvent{
		Kind:   core.LedgerEventKind(m.Kind),
		UserID: m.UserID,
		Transaction: core.Transaction{
			ID:           p.ID,
			Type:         core.TransactionType(p.Type),
			Amount:       p.Amount,
			FromWalletID: p.FromWalletID,
			ToWalletID:   p.ToWalletID,
			CategoryID:   p.CategoryID,
			Date:         p.Date,
			Notes:        p.Notes,
			OwnerUserID:  m.UserID,
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		},
		Timestamp: m.Timestamp,
	}
}
