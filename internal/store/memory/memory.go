// Package memory is an in-process implementation of store.Repository.
//
// All collections live behind a single mutex. InTx works on a deep copy of
// the dataset and swaps it in only when the callback succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type dataset struct {
	categories   map[string]core.Category
	wallets      map[string]core.Wallet
	transactions map[string]core.Transaction
	budgets      map[string]core.Budget
	savings      map[string]core.Savings
	dues         map[string]core.DueReceivable
}

func newDataset() *dataset {
	return &dataset{
		categories:   map[string]core.Category{},
		wallets:      map[string]core.Wallet{},
		transactions: map[string]core.Transaction{},
		budgets:      map[string]core.Budget{},
		savings:      map[string]core.Savings{},
		dues:         map[string]core.DueReceivable{},
	}
}

func (d *dataset) clone() *dataset {
	out := newDataset()
	for k, v := range d.categories {
		out.categories[k] = v
	}
	for k, v := range d.wallets {
		out.wallets[k] = copyWallet(v)
	}
	for k, v := range d.transactions {
		out.transactions[k] = v
	}
	for k, v := range d.budgets {
		out.budgets[k] = v
	}
	for k, v := range d.savings {
		out.savings[k] = copySavings(v)
	}
	for k, v := range d.dues {
		out.dues[k] = copyDue(v)
	}
	return out
}

type Store struct {
	mu   *sync.Mutex
	data *dataset
	inTx bool
}

var _ store.Repository = (*Store)(nil)

// New returns an empty store seeded with the shared default categories.
func New() *Store {
	s := &Store{mu: &sync.Mutex{}, data: newDataset()}
	for _, c := range core.DefaultCategories() {
		s.data.categories[c.ID] = c
	}
	return s
}

// lock is a no-op inside InTx, where the outer call already holds the mutex.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) InTx(_ context.Context, fn func(store.Repository) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&Store{mu: s.mu, data: snapshot, inTx: true}); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Categories

func (s *Store) ListCategories(_ context.Context, userID string, typ core.CategoryType) ([]core.Category, error) {
	defer s.lock()()
	var out []core.Category
	for _, c := range s.data.categories {
		if c.OwnerUserID != userID && !c.IsShared() {
			continue
		}
		if typ != "" && c.Type != typ {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, userID, id string) (core.Category, error) {
	defer s.lock()()
	c, ok := s.data.categories[id]
	if !ok || (c.OwnerUserID != userID && !c.IsShared()) {
		return core.Category{}, fmt.Errorf("get category %s: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	defer s.lock()()
	if _, ok := s.data.categories[c.ID]; ok {
		return fmt.Errorf("create category %s: %w", c.ID, core.ErrDuplicate)
	}
	if s.categoryNameTaken(c) {
		return fmt.Errorf("create category %q: %w", c.Name, core.ErrDuplicate)
	}
	s.data.categories[c.ID] = c
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	defer s.lock()()
	old, ok := s.data.categories[c.ID]
	if !ok || old.OwnerUserID != c.OwnerUserID {
		return fmt.Errorf("update category %s: %w", c.ID, core.ErrNotFound)
	}
	if s.categoryNameTaken(c) {
		return fmt.Errorf("update category %q: %w", c.Name, core.ErrDuplicate)
	}
	s.data.categories[c.ID] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id string) error {
	defer s.lock()()
	c, ok := s.data.categories[id]
	if !ok || c.OwnerUserID != userID {
		return fmt.Errorf("delete category %s: %w", id, core.ErrNotFound)
	}
	delete(s.data.categories, id)
	return nil
}

func (s *Store) categoryNameTaken(c core.Category) bool {
	for _, other := range s.data.categories {
		if other.ID == c.ID {
			continue
		}
		if other.OwnerUserID != c.OwnerUserID && !other.IsShared() {
			continue
		}
		if strings.EqualFold(other.Name, c.Name) {
			return true
		}
	}
	return false
}

// Wallets

func (s *Store) ListWallets(_ context.Context, userID string, p core.Period) ([]core.Wallet, error) {
	defer s.lock()()
	var out []core.Wallet
	for _, w := range s.data.wallets {
		if w.OwnerUserID == userID && w.Period() == p {
			out = append(out, copyWallet(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetWallet(_ context.Context, userID, id string) (core.Wallet, error) {
	defer s.lock()()
	w, ok := s.data.wallets[id]
	if !ok || w.OwnerUserID != userID {
		return core.Wallet{}, fmt.Errorf("get wallet %s: %w", id, core.ErrNotFound)
	}
	return copyWallet(w), nil
}

func (s *Store) CreateWallet(_ context.Context, w core.Wallet) error {
	defer s.lock()()
	if _, ok := s.data.wallets[w.ID]; ok || s.walletNameTaken(w) {
		return fmt.Errorf("create wallet %q: %w", w.Name, core.ErrDuplicate)
	}
	s.data.wallets[w.ID] = copyWallet(w)
	return nil
}

func (s *Store) UpdateWallet(_ context.Context, w core.Wallet) error {
	defer s.lock()()
	old, ok := s.data.wallets[w.ID]
	if !ok || old.OwnerUserID != w.OwnerUserID {
		return fmt.Errorf("update wallet %s: %w", w.ID, core.ErrNotFound)
	}
	if s.walletNameTaken(w) {
		return fmt.Errorf("update wallet %q: %w", w.Name, core.ErrDuplicate)
	}
	s.data.wallets[w.ID] = copyWallet(w)
	return nil
}

func (s *Store) DeleteWallet(_ context.Context, userID, id string) error {
	defer s.lock()()
	w, ok := s.data.wallets[id]
	if !ok || w.OwnerUserID != userID {
		return fmt.Errorf("delete wallet %s: %w", id, core.ErrNotFound)
	}
	delete(s.data.wallets, id)
	return nil
}

func (s *Store) walletNameTaken(w core.Wallet) bool {
	for _, other := range s.data.wallets {
		if other.ID != w.ID && other.OwnerUserID == w.OwnerUserID &&
			other.Period() == w.Period() && strings.EqualFold(other.Name, w.Name) {
			return true
		}
	}
	return false
}

// Transactions

func (s *Store) ListTransactions(_ context.Context, userID string, f store.TransactionFilter) ([]core.Transaction, error) {
	defer s.lock()()
	var out []core.Transaction
	for _, tx := range s.data.transactions {
		if tx.OwnerUserID == userID && f.Matches(tx) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	defer s.lock()()
	tx, ok := s.data.transactions[id]
	if !ok || tx.OwnerUserID != userID {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, core.ErrNotFound)
	}
	return tx, nil
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) error {
	defer s.lock()()
	if _, ok := s.data.transactions[tx.ID]; ok {
		return fmt.Errorf("create transaction %s: %w", tx.ID, core.ErrDuplicate)
	}
	s.data.transactions[tx.ID] = tx
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	defer s.lock()()
	old, ok := s.data.transactions[tx.ID]
	if !ok || old.OwnerUserID != tx.OwnerUserID {
		return fmt.Errorf("update transaction %s: %w", tx.ID, core.ErrNotFound)
	}
	s.data.transactions[tx.ID] = tx
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	defer s.lock()()
	tx, ok := s.data.transactions[id]
	if !ok || tx.OwnerUserID != userID {
		return fmt.Errorf("delete transaction %s: %w", id, core.ErrNotFound)
	}
	delete(s.data.transactions, id)
	return nil
}

func (s *Store) SumExpensesByCategory(_ context.Context, userID string, p core.Period, categoryIDs []string) (map[string]float64, error) {
	defer s.lock()()
	wanted := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	sums := map[string]float64{}
	for _, tx := range s.data.transactions {
		if tx.OwnerUserID != userID || tx.Type != core.Expense || !wanted[tx.CategoryID] || !p.Contains(tx.Date) {
			continue
		}
		sums[tx.CategoryID] += tx.Amount
	}
	return sums, nil
}

// Budgets

func (s *Store) ListBudgets(_ context.Context, userID string, p core.Period) ([]core.Budget, error) {
	defer s.lock()()
	var out []core.Budget
	for _, b := range s.data.budgets {
		if b.OwnerUserID == userID && b.Period() == p {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetBudget(_ context.Context, userID, id string) (core.Budget, error) {
	defer s.lock()()
	b, ok := s.data.budgets[id]
	if !ok || b.OwnerUserID != userID {
		return core.Budget{}, fmt.Errorf("get budget %s: %w", id, core.ErrNotFound)
	}
	return b, nil
}

func (s *Store) FindBudget(_ context.Context, userID, categoryID string, p core.Period) (core.Budget, error) {
	defer s.lock()()
	for _, b := range s.data.budgets {
		if b.OwnerUserID == userID && b.CategoryID == categoryID && b.Period() == p {
			return b, nil
		}
	}
	return core.Budget{}, fmt.Errorf("find budget %s %s: %w", categoryID, p, core.ErrNotFound)
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) error {
	defer s.lock()()
	if _, ok := s.data.budgets[b.ID]; ok || s.budgetKeyTaken(b) {
		return fmt.Errorf("create budget %s %s: %w", b.CategoryID, b.Period(), core.ErrDuplicate)
	}
	s.data.budgets[b.ID] = b
	return nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) error {
	defer s.lock()()
	old, ok := s.data.budgets[b.ID]
	if !ok || old.OwnerUserID != b.OwnerUserID {
		return fmt.Errorf("update budget %s: %w", b.ID, core.ErrNotFound)
	}
	if s.budgetKeyTaken(b) {
		return fmt.Errorf("update budget %s %s: %w", b.CategoryID, b.Period(), core.ErrDuplicate)
	}
	s.data.budgets[b.ID] = b
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id string) error {
	defer s.lock()()
	b, ok := s.data.budgets[id]
	if !ok || b.OwnerUserID != userID {
		return fmt.Errorf("delete budget %s: %w", id, core.ErrNotFound)
	}
	delete(s.data.budgets, id)
	return nil
}

func (s *Store) budgetKeyTaken(b core.Budget) bool {
	for _, other := range s.data.budgets {
		if other.ID != b.ID && other.OwnerUserID == b.OwnerUserID &&
			other.CategoryID == b.CategoryID && other.Period() == b.Period() {
			return true
		}
	}
	return false
}

// Savings

func (s *Store) ListSavings(_ context.Context, userID string) ([]core.Savings, error) {
	defer s.lock()()
	var out []core.Savings
	for _, sv := range s.data.savings {
		if sv.OwnerUserID == userID {
			out = append(out, copySavings(sv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetSavings(_ context.Context, userID, id string) (core.Savings, error) {
	defer s.lock()()
	sv, ok := s.data.savings[id]
	if !ok || sv.OwnerUserID != userID {
		return core.Savings{}, fmt.Errorf("get savings %s: %w", id, core.ErrNotFound)
	}
	return copySavings(sv), nil
}

func (s *Store) CreateSavings(_ context.Context, sv core.Savings) error {
	defer s.lock()()
	if _, ok := s.data.savings[sv.ID]; ok {
		return fmt.Errorf("create savings %s: %w", sv.ID, core.ErrDuplicate)
	}
	s.data.savings[sv.ID] = copySavings(sv)
	return nil
}

func (s *Store) UpdateSavings(_ context.Context, sv core.Savings) error {
	defer s.lock()()
	old, ok := s.data.savings[sv.ID]
	if !ok || old.OwnerUserID != sv.OwnerUserID {
		return fmt.Errorf("update savings %s: %w", sv.ID, core.ErrNotFound)
	}
	s.data.savings[sv.ID] = copySavings(sv)
	return nil
}

func (s *Store) DeleteSavings(_ context.Context, userID, id string) error {
	defer s.lock()()
	sv, ok := s.data.savings[id]
	if !ok || sv.OwnerUserID != userID {
		return fmt.Errorf("delete savings %s: %w", id, core.ErrNotFound)
	}
	delete(s.data.savings, id)
	return nil
}

// Dues

func (s *Store) ListDues(_ context.Context, userID string) ([]core.DueReceivable, error) {
	defer s.lock()()
	var out []core.DueReceivable
	for _, d := range s.data.dues {
		if d.OwnerUserID == userID {
			out = append(out, copyDue(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) GetDue(_ context.Context, userID, id string) (core.DueReceivable, error) {
	defer s.lock()()
	d, ok := s.data.dues[id]
	if !ok || d.OwnerUserID != userID {
		return core.DueReceivable{}, fmt.Errorf("get due %s: %w", id, core.ErrNotFound)
	}
	return copyDue(d), nil
}

func (s *Store) CreateDue(_ context.Context, d core.DueReceivable) error {
	defer s.lock()()
	if _, ok := s.data.dues[d.ID]; ok {
		return fmt.Errorf("create due %s: %w", d.ID, core.ErrDuplicate)
	}
	s.data.dues[d.ID] = copyDue(d)
	return nil
}

func (s *Store) UpdateDue(_ context.Context, d core.DueReceivable) error {
	defer s.lock()()
	old, ok := s.data.dues[d.ID]
	if !ok || old.OwnerUserID != d.OwnerUserID {
		return fmt.Errorf("update due %s: %w", d.ID, core.ErrNotFound)
	}
	s.data.dues[d.ID] = copyDue(d)
	return nil
}

func (s *Store) DeleteDue(_ context.Context, userID, id string) error {
	defer s.lock()()
	d, ok := s.data.dues[id]
	if !ok || d.OwnerUserID != userID {
		return fmt.Errorf("delete due %s: %w", id, core.ErrNotFound)
	}
	delete(s.data.dues, id)
	return nil
}

func copyWallet(w core.Wallet) core.Wallet {
	if w.ClosingBalance != nil {
		v := *w.ClosingBalance
		w.ClosingBalance = &v
	}
	return w
}

func copySavings(s core.Savings) core.Savings {
	s.Transactions = append([]core.SavingsTransaction(nil), s.Transactions...)
	if s.MonthlyTarget != nil {
		v := *s.MonthlyTarget
		s.MonthlyTarget = &v
	}
	return s
}

func copyDue(d core.DueReceivable) core.DueReceivable {
	d.Transactions = append([]core.DueTransaction(nil), d.Transactions...)
	return d
}
