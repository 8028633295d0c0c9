package http

import (
	"net/http"
)

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	p, err := s.period(r)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	list, err := s.svc.Wallets.ListMonthly(r.Context(), UserID(r.Context()), p)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toWalletList(list)).Write(w)
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.svc.Wallets.Get(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toWallet(wallet)).Write(w)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	wallet, err := s.svc.Wallets.Create(r.Context(), UserID(r.Context()), req.input())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	Created(toWallet(wallet), "wallet created").Write(w)
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	wallet, err := s.svc.Wallets.Update(r.Context(), UserID(r.Context()), r.PathValue("id"), req.patch())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toWallet(wallet)).Message("wallet updated").Write(w)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Wallets.Delete(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	NewResponse().Message("wallet deleted").Write(w)
}

// handleReconcileWallet recomputes the balance from the wallet's transactions
// and repairs the cached value when they differ.
func (s *Server) handleReconcileWallet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Wallets.Reconcile(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	msg := "wallet balance is consistent"
	if rec.Repaired {
		msg = "wallet balance repaired"
	}
	OK(toReconciliation(rec)).Message(msg).Write(w)
}
