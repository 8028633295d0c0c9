package http

import "net/http"

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	p, err := s.period(r)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	summary, err := s.svc.Budgets.GetMonthly(r.Context(), UserID(r.Context()), p)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toBudgetSummary(summary)).Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Budgets.Get(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toBudget(view)).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Budgets.Create(r.Context(), UserID(r.Context()), req.input())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	Created(toBudget(view), "budget created").Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Budgets.Update(r.Context(), UserID(r.Context()), r.PathValue("id"), req.patch())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toBudget(view)).Message("budget updated").Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Budgets.Delete(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	NewResponse().Message("budget deleted").Write(w)
}
