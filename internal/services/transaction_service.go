package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type (
	TransactionInput struct {
		Type         core.TransactionType
		Amount       float64
		FromWalletID string
		ToWalletID   string
		CategoryID   string
		Date         time.Time
		Notes        string
	}

	// TransactionPatch carries only the fields the caller supplied.
	TransactionPatch struct {
		Type         *core.TransactionType
		Amount       *float64
		FromWalletID *string
		ToWalletID   *string
		CategoryID   *string
		Date         *time.Time
		Notes        *string
	}

	// TransactionView is a transaction with its wallets and category resolved
	// for display. Refs are nil when the referenced entity no longer exists.
	TransactionView struct {
		core.Transaction
		FromWallet *WalletRef
		ToWallet   *WalletRef
		Category   *CategoryRef
	}

	MonthlyTransactions struct {
		Transactions []TransactionView
		Totals       core.MonthlyTotals
		Period       core.Period
	}
)

// TransactionService is the only writer of wallet balances. Each mutation
// stores the transaction and its wallet effects in one repository transaction.
type TransactionService struct {
	repo      store.Repository
	publisher store.EventPublisher
	now       Clock
}

// NewTransactionService wires the engine. publisher may be nil.
func NewTransactionService(repo store.Repository, publisher store.EventPublisher) *TransactionService {
	return &TransactionService{repo: repo, publisher: publisher, now: systemClock}
}

// Create records a transaction and applies its effect. A missing date
// defaults to now; a transfer may carry a category, which must then exist.
func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (TransactionView, error) {
	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	tx := core.Transaction{
		ID:           newID(),
		Type:         in.Type,
		Amount:       in.Amount,
		FromWalletID: strings.TrimSpace(in.FromWalletID),
		ToWalletID:   strings.TrimSpace(in.ToWalletID),
		CategoryID:   strings.TrimSpace(in.CategoryID),
		Date:         date.UTC(),
		Notes:        strings.TrimSpace(in.Notes),
		OwnerUserID:  userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	normalizeCounterparty(&tx)
	if err := tx.Validate(); err != nil {
		return TransactionView{}, err
	}

	err := s.repo.InTx(ctx, func(r store.Repository) error {
		from, err := r.GetWallet(ctx, userID, tx.FromWalletID)
		if err != nil {
			return lookupErr("wallet", err)
		}
		if err := checkDateInPeriod(tx.Date, from, "fromWalletId"); err != nil {
			return err
		}

		if tx.Type == core.Transfer {
			to, err := r.GetWallet(ctx, userID, tx.ToWalletID)
			if err != nil {
				return lookupErr("wallet", err)
			}
			if err := checkDateInPeriod(tx.Date, to, "toWalletId"); err != nil {
				return err
			}
		}
		if tx.CategoryID != "" {
			if _, err := r.GetCategory(ctx, userID, tx.CategoryID); err != nil {
				return lookupErr("category", err)
			}
		}

		if err := r.CreateTransaction(ctx, tx); err != nil {
			return saveErr("transaction", err)
		}
		return applyLegs(ctx, r, userID, tx.Legs(), 1, true, s.now)
	})
	if err != nil {
		return TransactionView{}, err
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", tx.ID, "type", tx.Type, "amount", tx.Amount, "from_wallet", tx.FromWalletID, "to_wallet", tx.ToWalletID)
	s.publish(ctx, core.EventTransactionCreated, userID, tx)
	return s.view(ctx, userID, tx, newRefCache()), nil
}

// Update reverses the stored effect on the stored wallets, merges the patch
// and applies the new effect. The date is not re-checked against the wallet
// period; a mismatch is only logged.
func (s *TransactionService) Update(ctx context.Context, userID, id string, p TransactionPatch) (TransactionView, error) {
	var updated core.Transaction
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		old, err := r.GetTransaction(ctx, userID, id)
		if err != nil {
			return lookupErr("transaction", err)
		}
		if err := applyLegs(ctx, r, userID, old.Legs(), -1, false, s.now); err != nil {
			return err
		}

		tx := mergeTransaction(old, p)
		normalizeCounterparty(&tx)
		tx.UpdatedAt = s.now()
		if err := tx.Validate(); err != nil {
			return err
		}

		if p.FromWalletID != nil {
			if _, err := r.GetWallet(ctx, userID, tx.FromWalletID); err != nil {
				return lookupErr("wallet", err)
			}
		}
		if p.ToWalletID != nil && tx.Type == core.Transfer {
			if _, err := r.GetWallet(ctx, userID, tx.ToWalletID); err != nil {
				return lookupErr("wallet", err)
			}
		}
		if p.CategoryID != nil && tx.CategoryID != "" {
			if _, err := r.GetCategory(ctx, userID, tx.CategoryID); err != nil {
				return lookupErr("category", err)
			}
		}
		if from, err := r.GetWallet(ctx, userID, tx.FromWalletID); err == nil && !from.Period().Contains(tx.Date) {
			slog.WarnContext(ctx, "Updated transaction date falls outside wallet period",
				"id", tx.ID, "date", tx.Date, "wallet_period", from.Period().String())
		}

		if err := r.UpdateTransaction(ctx, tx); err != nil {
			return saveErr("transaction", err)
		}
		if err := applyLegs(ctx, r, userID, tx.Legs(), 1, false, s.now); err != nil {
			return err
		}
		updated = tx
		return nil
	})
	if err != nil {
		return TransactionView{}, err
	}

	slog.InfoContext(ctx, "Transaction updated", "id", updated.ID, "type", updated.Type, "amount", updated.Amount)
	s.publish(ctx, core.EventTransactionUpdated, userID, updated)
	return s.view(ctx, userID, updated, newRefCache()), nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	var deleted core.Transaction
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		tx, err := r.GetTransaction(ctx, userID, id)
		if err != nil {
			return lookupErr("transaction", err)
		}
		if err := applyLegs(ctx, r, userID, tx.Legs(), -1, false, s.now); err != nil {
			return err
		}
		if err := r.DeleteTransaction(ctx, userID, id); err != nil {
			return lookupErr("transaction", err)
		}
		deleted = tx
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	s.publish(ctx, core.EventTransactionDeleted, userID, deleted)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (TransactionView, error) {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return TransactionView{}, lookupErr("transaction", err)
	}
	return s.view(ctx, userID, tx, newRefCache()), nil
}

// ListMonthly returns the period's transactions, optionally narrowed by type
// and wallet, with income/expense/transfer totals.
func (s *TransactionService) ListMonthly(ctx context.Context, userID string, p core.Period, typ core.TransactionType, walletID string) (MonthlyTransactions, error) {
	if err := p.Validate(); err != nil {
		return MonthlyTransactions{}, err
	}
	if typ != "" && !typ.Valid() {
		return MonthlyTransactions{}, core.Validationf("type", "invalid transaction type %q", typ)
	}

	txs, err := s.repo.ListTransactions(ctx, userID, store.TransactionFilter{Period: &p, Type: typ, WalletID: walletID})
	if err != nil {
		return MonthlyTransactions{}, fmt.Errorf("list transactions: %w", err)
	}

	totals := core.Totals(txs)
	totals.Income = core.RoundAmount(totals.Income)
	totals.Expense = core.RoundAmount(totals.Expense)
	totals.Transfer = core.RoundAmount(totals.Transfer)
	totals.NetBalance = core.RoundAmount(totals.NetBalance)

	return MonthlyTransactions{Transactions: s.views(ctx, userID, txs), Totals: totals, Period: p}, nil
}

func (s *TransactionService) ListByType(ctx context.Context, userID string, typ core.TransactionType) ([]TransactionView, error) {
	if !typ.Valid() {
		return nil, core.Validationf("type", "invalid transaction type %q", typ)
	}
	return s.list(ctx, userID, store.TransactionFilter{Type: typ})
}

func (s *TransactionService) ListByWallet(ctx context.Context, userID, walletID string) ([]TransactionView, error) {
	return s.list(ctx, userID, store.TransactionFilter{WalletID: walletID})
}

func (s *TransactionService) ListByCategory(ctx context.Context, userID, categoryID string) ([]TransactionView, error) {
	return s.list(ctx, userID, store.TransactionFilter{CategoryID: categoryID})
}

func (s *TransactionService) list(ctx context.Context, userID string, f store.TransactionFilter) ([]TransactionView, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.views(ctx, userID, txs), nil
}

func (s *TransactionService) publish(ctx context.Context, kind core.LedgerEventKind, userID string, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, core.NewLedgerEvent(kind, userID, tx)); err != nil {
		// The ledger write is committed; downstream consumers can reconcile.
		slog.ErrorContext(ctx, "Failed to publish ledger event", "kind", kind, "id", tx.ID, "error", err)
	}
}

// refCache memoizes wallet and category lookups while assembling views.
type refCache struct {
	wallets    map[string]*WalletRef
	categories map[string]*CategoryRef
}

func newRefCache() *refCache {
	return &refCache{wallets: map[string]*WalletRef{}, categories: map[string]*CategoryRef{}}
}

func (s *TransactionService) views(ctx context.Context, userID string, txs []core.Transaction) []TransactionView {
	refs := newRefCache()
	out := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, s.view(ctx, userID, tx, refs))
	}
	return out
}

func (s *TransactionService) view(ctx context.Context, userID string, tx core.Transaction, refs *refCache) TransactionView {
	v := TransactionView{Transaction: tx}
	v.FromWallet = s.walletRef(ctx, userID, tx.FromWalletID, refs)
	if tx.Type == core.Transfer {
		v.ToWallet = s.walletRef(ctx, userID, tx.ToWalletID, refs)
	}
	if tx.CategoryID != "" {
		ref, ok := refs.categories[tx.CategoryID]
		if !ok {
			if c, err := s.repo.GetCategory(ctx, userID, tx.CategoryID); err == nil {
				ref = categoryRef(c)
			}
			refs.categories[tx.CategoryID] = ref
		}
		v.Category = ref
	}
	return v
}

func (s *TransactionService) walletRef(ctx context.Context, userID, id string, refs *refCache) *WalletRef {
	if id == "" {
		return nil
	}
	ref, ok := refs.wallets[id]
	if !ok {
		if w, err := s.repo.GetWallet(ctx, userID, id); err == nil {
			ref = walletRef(w)
		}
		refs.wallets[id] = ref
	}
	return ref
}

// normalizeCounterparty makes income self-referential and clears the
// destination of expenses.
func normalizeCounterparty(tx *core.Transaction) {
	switch tx.Type {
	case core.Income:
		tx.ToWalletID = tx.FromWalletID
	case core.Expense:
		tx.ToWalletID = ""
	}
}

func checkDateInPeriod(date time.Time, w core.Wallet, field string) error {
	if !w.Period().Contains(date) {
		return core.Validationf(field,
			"transaction date %s is outside the wallet period %s", date.Format("2006-01-02"), w.Period())
	}
	return nil
}

func mergeTransaction(tx core.Transaction, p TransactionPatch) core.Transaction {
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.FromWalletID != nil {
		tx.FromWalletID = strings.TrimSpace(*p.FromWalletID)
	}
	if p.ToWalletID != nil {
		tx.ToWalletID = strings.TrimSpace(*p.ToWalletID)
	}
	if p.CategoryID != nil {
		tx.CategoryID = strings.TrimSpace(*p.CategoryID)
	}
	if p.Date != nil {
		tx.Date = p.Date.UTC()
	}
	if p.Notes != nil {
		tx.Notes = strings.TrimSpace(*p.Notes)
	}
	return tx
}
