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
	SavingsInput struct {
		Name          string
		TargetAmount  float64
		MonthlyTarget *float64
		Description   string
		Icon          string
		Color         string
		Status        core.SavingsStatus // defaults to active
	}

	SavingsPatch struct {
		Name          *string
		TargetAmount  *float64
		MonthlyTarget *float64
		Description   *string
		Icon          *string
		Color         *string
		Status        *core.SavingsStatus
	}

	SavingsTransactionInput struct {
		Type   core.SavingsTransactionType
		Amount float64
		Notes  string
		Date   *time.Time // defaults to now
	}

	SavingsView struct {
		core.Savings
		Summary core.SavingsSummary
	}

	SavingsList struct {
		Goals        []SavingsView
		TotalBalance float64
		TotalTarget  float64
		ActiveGoals  int
	}
)

// SavingsService keeps goal balances purely derived from the embedded
// deposit/withdrawal list.
type SavingsService struct {
	repo store.Repository
	now  Clock
}

func NewSavingsService(repo store.Repository) *SavingsService {
	return &SavingsService{repo: repo, now: systemClock}
}

func savingsView(sv core.Savings) SavingsView {
	return SavingsView{Savings: sv, Summary: sv.Summary()}
}

func (s *SavingsService) List(ctx context.Context, userID string) (SavingsList, error) {
	goals, err := s.repo.ListSavings(ctx, userID)
	if err != nil {
		return SavingsList{}, fmt.Errorf("list savings: %w", err)
	}

	out := SavingsList{Goals: make([]SavingsView, 0, len(goals))}
	for _, g := range goals {
		v := savingsView(g)
		out.Goals = append(out.Goals, v)
		out.TotalBalance += v.Summary.CurrentBalance
		out.TotalTarget += g.TargetAmount
		if g.Status == core.SavingsActive {
			out.ActiveGoals++
		}
	}
	out.TotalBalance = core.RoundAmount(out.TotalBalance)
	out.TotalTarget = core.RoundAmount(out.TotalTarget)
	return out, nil
}

func (s *SavingsService) Get(ctx context.Context, userID, id string) (SavingsView, error) {
	sv, err := s.repo.GetSavings(ctx, userID, id)
	if err != nil {
		return SavingsView{}, lookupErr("savings goal", err)
	}
	return savingsView(sv), nil
}

func (s *SavingsService) Create(ctx context.Context, userID string, in SavingsInput) (SavingsView, error) {
	now := s.now()
	status := in.Status
	if status == "" {
		status = core.SavingsActive
	}
	sv := core.Savings{
		ID:            newID(),
		Name:          strings.TrimSpace(in.Name),
		TargetAmount:  in.TargetAmount,
		MonthlyTarget: in.MonthlyTarget,
		Description:   strings.TrimSpace(in.Description),
		Icon:          in.Icon,
		Color:         in.Color,
		Status:        status,
		OwnerUserID:   userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := sv.Validate(); err != nil {
		return SavingsView{}, err
	}
	if err := s.repo.CreateSavings(ctx, sv); err != nil {
		return SavingsView{}, saveErr("savings goal", err)
	}

	slog.InfoContext(ctx, "Savings goal created", "id", sv.ID, "name", sv.Name, "target", sv.TargetAmount)
	return savingsView(sv), nil
}

func (s *SavingsService) Update(ctx context.Context, userID, id string, p SavingsPatch) (SavingsView, error) {
	var sv core.Savings
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		var err error
		sv, err = r.GetSavings(ctx, userID, id)
		if err != nil {
			return lookupErr("savings goal", err)
		}
		if p.Name != nil {
			sv.Name = strings.TrimSpace(*p.Name)
		}
		if p.TargetAmount != nil {
			sv.TargetAmount = *p.TargetAmount
		}
		if p.MonthlyTarget != nil {
			sv.MonthlyTarget = p.MonthlyTarget
		}
		if p.Description != nil {
			sv.Description = strings.TrimSpace(*p.Description)
		}
		if p.Icon != nil {
			sv.Icon = *p.Icon
		}
		if p.Color != nil {
			sv.Color = *p.Color
		}
		if p.Status != nil {
			sv.Status = *p.Status
		}
		sv.UpdatedAt = s.now()

		if err := sv.Validate(); err != nil {
			return err
		}
		if err := r.UpdateSavings(ctx, sv); err != nil {
			return saveErr("savings goal", err)
		}
		return nil
	})
	if err != nil {
		return SavingsView{}, err
	}
	return savingsView(sv), nil
}

func (s *SavingsService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteSavings(ctx, userID, id); err != nil {
		return lookupErr("savings goal", err)
	}
	slog.InfoContext(ctx, "Savings goal deleted", "id", id)
	return nil
}

// AddTransaction appends a deposit or withdrawal. Withdrawals larger than the
// balance before the append are rejected. Reaching the target moves an active
// goal to completed in the same write.
func (s *SavingsService) AddTransaction(ctx context.Context, userID, id string, in SavingsTransactionInput) (SavingsView, error) {
	if !in.Type.Valid() {
		return SavingsView{}, core.Validationf("type", "invalid transaction type %q: must be deposit or withdrawal", in.Type)
	}
	if in.Amount <= 0 {
		return SavingsView{}, core.Validation("amount", "amount must be greater than 0")
	}

	var sv core.Savings
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		var err error
		sv, err = r.GetSavings(ctx, userID, id)
		if err != nil {
			return lookupErr("savings goal", err)
		}

		balance := sv.CurrentBalance()
		if in.Type == core.Withdrawal && in.Amount > balance {
			return core.Conflict(
				fmt.Sprintf("insufficient funds: current balance is %.2f", balance), core.ErrInsufficientFunds)
		}

		date := s.now()
		if in.Date != nil {
			date = in.Date.UTC()
		}
		sv.Transactions = append(sv.Transactions, core.SavingsTransaction{
			ID:     newID(),
			Type:   in.Type,
			Amount: in.Amount,
			Date:   date,
			Notes:  strings.TrimSpace(in.Notes),
		})
		if sv.Summary().IsCompleted && sv.Status == core.SavingsActive {
			sv.Status = core.SavingsCompleted
			slog.InfoContext(ctx, "Savings goal completed", "id", sv.ID, "target", sv.TargetAmount)
		}
		sv.UpdatedAt = s.now()

		if err := r.UpdateSavings(ctx, sv); err != nil {
			return saveErr("savings goal", err)
		}
		return nil
	})
	if err != nil {
		return SavingsView{}, err
	}
	return savingsView(sv), nil
}
