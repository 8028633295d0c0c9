package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type (
	WalletInput struct {
		Name           string
		Type           core.WalletType
		Icon           string
		Color          string
		Month          int
		Year           int
		OpeningBalance float64
	}

	// WalletPatch updates display fields only; the opening balance and period
	// are fixed once a wallet exists.
	WalletPatch struct {
		Name  *string
		Type  *core.WalletType
		Icon  *string
		Color *string
	}

	WalletList struct {
		Wallets      []core.Wallet
		Period       core.Period
		TotalOpening float64
		TotalClosing float64
	}

	// Reconciliation compares the cached running balance with the balance
	// derived from every transaction touching the wallet.
	Reconciliation struct {
		WalletID string
		Cached   float64
		Derived  float64
		Drift    float64
		Repaired bool
	}
)

// WalletService owns wallet lifecycle. Balance mutation happens only through
// the ledger helpers used by TransactionService.
type WalletService struct {
	repo store.Repository
	now  Clock
}

func NewWalletService(repo store.Repository) *WalletService {
	return &WalletService{repo: repo, now: systemClock}
}

func (s *WalletService) Create(ctx context.Context, userID string, in WalletInput) (core.Wallet, error) {
	now := s.now()
	opening := in.OpeningBalance
	w := core.Wallet{
		ID:             newID(),
		Name:           strings.TrimSpace(in.Name),
		Type:           in.Type,
		Icon:           in.Icon,
		Color:          in.Color,
		Month:          in.Month,
		Year:           in.Year,
		OwnerUserID:    userID,
		OpeningBalance: opening,
		ClosingBalance: &opening,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	if err := s.checkNameFree(ctx, s.repo, w); err != nil {
		return core.Wallet{}, err
	}
	if err := s.repo.CreateWallet(ctx, w); err != nil {
		return core.Wallet{}, saveErr("wallet", err)
	}

	slog.InfoContext(ctx, "Wallet created", "id", w.ID, "name", w.Name, "period", w.Period().String())
	return w, nil
}

func (s *WalletService) Get(ctx context.Context, userID, id string) (core.Wallet, error) {
	w, err := s.repo.GetWallet(ctx, userID, id)
	if err != nil {
		return core.Wallet{}, lookupErr("wallet", err)
	}
	return w, nil
}

func (s *WalletService) ListMonthly(ctx context.Context, userID string, p core.Period) (WalletList, error) {
	if err := p.Validate(); err != nil {
		return WalletList{}, err
	}
	wallets, err := s.repo.ListWallets(ctx, userID, p)
	if err != nil {
		return WalletList{}, fmt.Errorf("list wallets: %w", err)
	}

	out := WalletList{Wallets: wallets, Period: p}
	for _, w := range wallets {
		out.TotalOpening += w.OpeningBalance
		out.TotalClosing += w.Balance()
	}
	out.TotalOpening = core.RoundAmount(out.TotalOpening)
	out.TotalClosing = core.RoundAmount(out.TotalClosing)
	return out, nil
}

func (s *WalletService) Update(ctx context.Context, userID, id string, p WalletPatch) (core.Wallet, error) {
	var out core.Wallet
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		w, err := r.GetWallet(ctx, userID, id)
		if err != nil {
			return lookupErr("wallet", err)
		}
		if p.Name != nil {
			w.Name = strings.TrimSpace(*p.Name)
		}
		if p.Type != nil {
			w.Type = *p.Type
		}
		if p.Icon != nil {
			w.Icon = *p.Icon
		}
		if p.Color != nil {
			w.Color = *p.Color
		}
		w.UpdatedAt = s.now()

		if err := w.Validate(); err != nil {
			return err
		}
		if err := s.checkNameFree(ctx, r, w); err != nil {
			return err
		}
		if err := r.UpdateWallet(ctx, w); err != nil {
			return saveErr("wallet", err)
		}
		out = w
		return nil
	})
	return out, err
}

// Delete removes a wallet that no transaction references.
func (s *WalletService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.InTx(ctx, func(r store.Repository) error {
		if _, err := r.GetWallet(ctx, userID, id); err != nil {
			return lookupErr("wallet", err)
		}
		refs, err := r.ListTransactions(ctx, userID, store.TransactionFilter{WalletID: id})
		if err != nil {
			return fmt.Errorf("list wallet transactions: %w", err)
		}
		if len(refs) > 0 {
			return core.Conflict(fmt.Sprintf("wallet has %d transactions; delete them first", len(refs)), nil)
		}
		if err := r.DeleteWallet(ctx, userID, id); err != nil {
			return lookupErr("wallet", err)
		}
		slog.InfoContext(ctx, "Wallet deleted", "id", id)
		return nil
	})
}

// Reconcile recomputes the wallet balance from its transactions and rewrites
// the cached value when the two disagree.
func (s *WalletService) Reconcile(ctx context.Context, userID, id string) (Reconciliation, error) {
	var rec Reconciliation
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		w, err := r.GetWallet(ctx, userID, id)
		if err != nil {
			return lookupErr("wallet", err)
		}
		txs, err := r.ListTransactions(ctx, userID, store.TransactionFilter{WalletID: id})
		if err != nil {
			return fmt.Errorf("list wallet transactions: %w", err)
		}

		derived := core.DerivedBalance(w, txs)
		rec = Reconciliation{
			WalletID: id,
			Cached:   w.Balance(),
			Derived:  derived,
			Drift:    core.RoundAmount(w.Balance() - derived),
		}
		if math.Abs(w.Balance()-derived) < 1e-9 {
			return nil
		}

		w.ClosingBalance = &derived
		w.UpdatedAt = s.now()
		if err := r.UpdateWallet(ctx, w); err != nil {
			return saveErr("wallet", err)
		}
		rec.Repaired = true
		slog.WarnContext(ctx, "Wallet balance drift repaired",
			"id", id, "cached", rec.Cached, "derived", derived, "drift", rec.Drift)
		return nil
	})
	return rec, err
}

func (s *WalletService) checkNameFree(ctx context.Context, r store.WalletRepository, w core.Wallet) error {
	existing, err := r.ListWallets(ctx, w.OwnerUserID, w.Period())
	if err != nil {
		return fmt.Errorf("list wallets: %w", err)
	}
	for _, other := range existing {
		if other.ID != w.ID && strings.EqualFold(other.Name, w.Name) {
			return core.Conflict(fmt.Sprintf("wallet %q already exists for %s", w.Name, w.Period()), core.ErrDuplicate)
		}
	}
	return nil
}

// applyLegs adds each leg's delta (scaled by sign) to its wallet. With strict
// set a missing wallet fails the operation; otherwise it is logged and skipped.
func applyLegs(ctx context.Context, r store.WalletRepository, userID string, legs []core.Leg, sign float64, strict bool, now Clock) error {
	for _, leg := range legs {
		w, err := r.GetWallet(ctx, userID, leg.WalletID)
		if err != nil {
			if !strict && errors.Is(err, core.ErrNotFound) {
				slog.WarnContext(ctx, "Wallet missing, balance effect skipped",
					"wallet_id", leg.WalletID, "delta", leg.Delta*sign)
				continue
			}
			return lookupErr("wallet", err)
		}

		if sign < 0 {
			core.ReverseEffect(&w, leg.Delta)
		} else {
			core.ApplyEffect(&w, leg.Delta)
		}
		w.UpdatedAt = now()
		if err := r.UpdateWallet(ctx, w); err != nil {
			return saveErr("wallet", err)
		}
	}
	return nil
}
