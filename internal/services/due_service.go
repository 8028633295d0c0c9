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
	DueInput struct {
		Name        string
		Amount      float64
		Date        time.Time
		Status      core.DueStatus // optional; Received also seeds a matching payment
		Description string
	}

	DuePatch struct {
		Name        *string
		Amount      *float64
		Date        *time.Time
		Description *string
		Status      *core.DueStatus
	}

	DueTransactionInput struct {
		Type        core.DueTransactionType
		Amount      float64
		Description string
		Date        *time.Time // defaults to now
	}

	// DueView carries the derived amounts; Status is always the derived one.
	DueView struct {
		core.DueReceivable
		CurrentAmount   float64
		RemainingAmount float64
	}

	DueList struct {
		Items              []DueView
		TotalAmount        float64
		TotalRemaining     float64
		DueCount           int
		PartiallyPaidCount int
		ReceivedCount      int
	}
)

// DueService tracks money owed to the user through an embedded due/payment list.
type DueService struct {
	repo store.Repository
	now  Clock
}

func NewDueService(repo store.Repository) *DueService {
	return &DueService{repo: repo, now: systemClock}
}

func dueView(d core.DueReceivable) DueView {
	d.Status = d.DerivedStatus()
	return DueView{DueReceivable: d, CurrentAmount: d.CurrentAmount(), RemainingAmount: d.RemainingAmount()}
}

func (s *DueService) List(ctx context.Context, userID string) (DueList, error) {
	items, err := s.repo.ListDues(ctx, userID)
	if err != nil {
		return DueList{}, fmt.Errorf("list dues: %w", err)
	}

	out := DueList{Items: make([]DueView, 0, len(items))}
	for _, d := range items {
		v := dueView(d)
		out.Items = append(out.Items, v)
		out.TotalAmount += d.Amount
		out.TotalRemaining += v.RemainingAmount
		switch v.Status {
		case core.StatusDue:
			out.DueCount++
		case core.StatusPartiallyPaid:
			out.PartiallyPaidCount++
		case core.StatusReceived:
			out.ReceivedCount++
		}
	}
	out.TotalAmount = core.RoundAmount(out.TotalAmount)
	out.TotalRemaining = core.RoundAmount(out.TotalRemaining)
	return out, nil
}

func (s *DueService) Get(ctx context.Context, userID, id string) (DueView, error) {
	d, err := s.repo.GetDue(ctx, userID, id)
	if err != nil {
		return DueView{}, lookupErr("due", err)
	}
	return dueView(d), nil
}

func (s *DueService) Create(ctx context.Context, userID string, in DueInput) (DueView, error) {
	if in.Status != "" && !in.Status.Valid() {
		return DueView{}, core.Validationf("status", "invalid status %q", in.Status)
	}

	now := s.now()
	d := core.DueReceivable{
		ID:          newID(),
		Name:        strings.TrimSpace(in.Name),
		Amount:      in.Amount,
		Date:        in.Date.UTC(),
		Description: strings.TrimSpace(in.Description),
		OwnerUserID: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := d.Validate(); err != nil {
		return DueView{}, err
	}

	d.Transactions = []core.DueTransaction{{
		ID:          newID(),
		Type:        core.DueEntry,
		Amount:      d.Amount,
		Date:        d.Date,
		Description: core.InitialDueDescription,
		IsInitial:   true,
	}}
	if in.Status == core.StatusReceived {
		d.Transactions = append(d.Transactions, core.DueTransaction{
			ID:          newID(),
			Type:        core.Payment,
			Amount:      d.Amount,
			Date:        d.Date,
			Description: "Received in full",
		})
	}
	d.Status = d.DerivedStatus()

	if err := s.repo.CreateDue(ctx, d); err != nil {
		return DueView{}, saveErr("due", err)
	}

	slog.InfoContext(ctx, "Due created", "id", d.ID, "name", d.Name, "amount", d.Amount, "status", d.Status)
	return dueView(d), nil
}

// Update edits the item. An amount change rewrites the initial seed entry in
// place, or appends a new seed when the item has none. A supplied status is
// stored but every read derives the status from the ledger.
func (s *DueService) Update(ctx context.Context, userID, id string, p DuePatch) (DueView, error) {
	if p.Status != nil && !p.Status.Valid() {
		return DueView{}, core.Validationf("status", "invalid status %q", *p.Status)
	}

	var d core.DueReceivable
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		var err error
		d, err = r.GetDue(ctx, userID, id)
		if err != nil {
			return lookupErr("due", err)
		}
		if p.Name != nil {
			d.Name = strings.TrimSpace(*p.Name)
		}
		if p.Date != nil {
			d.Date = p.Date.UTC()
		}
		if p.Description != nil {
			d.Description = strings.TrimSpace(*p.Description)
		}
		if p.Amount != nil && *p.Amount != d.Amount {
			d.Amount = *p.Amount
			if d.Amount > 0 {
				s.reseed(&d)
			}
		}
		if err := d.Validate(); err != nil {
			return err
		}

		d.Status = d.DerivedStatus()
		if p.Status != nil {
			d.Status = *p.Status
		}
		d.UpdatedAt = s.now()

		if err := r.UpdateDue(ctx, d); err != nil {
			return saveErr("due", err)
		}
		return nil
	})
	if err != nil {
		return DueView{}, err
	}
	return dueView(d), nil
}

func (s *DueService) reseed(d *core.DueReceivable) {
	if i := d.InitialIndex(); i >= 0 {
		d.Transactions[i].Amount = d.Amount
		return
	}
	d.Transactions = append(d.Transactions, core.DueTransaction{
		ID:          newID(),
		Type:        core.DueEntry,
		Amount:      d.Amount,
		Date:        s.now(),
		Description: core.InitialDueDescription + " (updated)",
		IsInitial:   true,
	})
}

func (s *DueService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteDue(ctx, userID, id); err != nil {
		return lookupErr("due", err)
	}
	slog.InfoContext(ctx, "Due deleted", "id", id)
	return nil
}

// AddTransaction appends a due or payment entry. Payments larger than the
// amount currently due are rejected.
func (s *DueService) AddTransaction(ctx context.Context, userID, id string, in DueTransactionInput) (DueView, error) {
	if !in.Type.Valid() {
		return DueView{}, core.Validationf("type", "invalid transaction type %q: must be due or payment", in.Type)
	}
	if in.Amount <= 0 {
		return DueView{}, core.Validation("amount", "amount must be greater than 0")
	}

	var d core.DueReceivable
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		var err error
		d, err = r.GetDue(ctx, userID, id)
		if err != nil {
			return lookupErr("due", err)
		}

		current := d.CurrentAmount()
		if in.Type == core.Payment && in.Amount > current {
			return core.Conflict(
				fmt.Sprintf("payment exceeds the current due amount of %.2f", current), core.ErrInsufficientFunds)
		}

		date := s.now()
		if in.Date != nil {
			date = in.Date.UTC()
		}
		d.Transactions = append(d.Transactions, core.DueTransaction{
			ID:          newID(),
			Type:        in.Type,
			Amount:      in.Amount,
			Date:        date,
			Description: strings.TrimSpace(in.Description),
		})
		d.Status = d.DerivedStatus()
		d.UpdatedAt = s.now()

		if err := r.UpdateDue(ctx, d); err != nil {
			return saveErr("due", err)
		}
		return nil
	})
	if err != nil {
		return DueView{}, err
	}

	slog.InfoContext(ctx, "Due transaction added", "id", id, "type", in.Type, "amount", in.Amount, "status", d.Status)
	return dueView(d), nil
}
