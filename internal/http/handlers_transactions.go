package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
)

// handleListTransactions returns one month of transactions with totals,
// optionally narrowed by ?type and ?walletId.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	p, err := s.period(r)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	q := r.URL.Query()
	typ := core.TransactionType(strings.TrimSpace(q.Get("type")))
	if typ != "" && !typ.Valid() {
		BadRequestError("type: must be income, expense or transfer").Write(w)
		return
	}

	monthly, err := s.svc.Transactions.ListMonthly(r.Context(), UserID(r.Context()), p, typ, strings.TrimSpace(q.Get("walletId")))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toMonthlyTransactions(monthly)).Write(w)
}

func (s *Server) handleTransactionsByType(w http.ResponseWriter, r *http.Request) {
	typ := core.TransactionType(r.PathValue("type"))
	if !typ.Valid() {
		BadRequestError("type: must be income, expense or transfer").Write(w)
		return
	}
	views, err := s.svc.Transactions.ListByType(r.Context(), UserID(r.Context()), typ)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toTransactions(views)).Write(w)
}

func (s *Server) handleTransactionsByWallet(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Transactions.ListByWallet(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toTransactions(views)).Write(w)
}

func (s *Server) handleTransactionsByCategory(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Transactions.ListByCategory(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toTransactions(views)).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Transactions.Get(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toTransaction(view)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Transactions.Create(r.Context(), UserID(r.Context()), req.input())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	Created(toTransaction(view), "transaction created").Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Transactions.Update(r.Context(), UserID(r.Context()), r.PathValue("id"), req.patch())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toTransaction(view)).Message("transaction updated").Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Delete(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	NewResponse().Message("transaction deleted").Write(w)
}
