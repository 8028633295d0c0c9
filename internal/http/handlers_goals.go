package http

import "net/http"

// Savings goals and dues share the same shape: a header record plus an
// append-only list of movements.

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Savings.List(r.Context(), UserID(r.Context()))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toSavingsList(list)).Write(w)
}

func (s *Server) handleGetSavings(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Savings.Get(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toSavings(view)).Write(w)
}

func (s *Server) handleCreateSavings(w http.ResponseWriter, r *http.Request) {
	var req savingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Savings.Create(r.Context(), UserID(r.Context()), req.input())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	Created(toSavings(view), "savings goal created").Write(w)
}

func (s *Server) handleUpdateSavings(w http.ResponseWriter, r *http.Request) {
	var req savingsPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Savings.Update(r.Context(), UserID(r.Context()), r.PathValue("id"), req.patch())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toSavings(view)).Message("savings goal updated").Write(w)
}

func (s *Server) handleDeleteSavings(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Savings.Delete(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	NewResponse().Message("savings goal deleted").Write(w)
}

func (s *Server) handleAddSavingsTransaction(w http.ResponseWriter, r *http.Request) {
	var req savingsTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Savings.AddTransaction(r.Context(), UserID(r.Context()), r.PathValue("id"), req.input())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	Created(toSavings(view), "savings transaction added").Write(w)
}

func (s *Server) handleListDues(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Dues.List(r.Context(), UserID(r.Context()))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toDueList(list)).Write(w)
}

func (s *Server) handleGetDue(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Dues.Get(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toDue(view)).Write(w)
}

func (s *Server) handleCreateDue(w http.ResponseWriter, r *http.Request) {
	var req dueRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Dues.Create(r.Context(), UserID(r.Context()), req.input())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	Created(toDue(view), "due created").Write(w)
}

func (s *Server) handleUpdateDue(w http.ResponseWriter, r *http.Request) {
	var req duePatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Dues.Update(r.Context(), UserID(r.Context()), r.PathValue("id"), req.patch())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toDue(view)).Message("due updated").Write(w)
}

func (s *Server) handleDeleteDue(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Dues.Delete(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	NewResponse().Message("due deleted").Write(w)
}

func (s *Server) handleAddDueTransaction(w http.ResponseWriter, r *http.Request) {
	var req dueTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	view, err := s.svc.Dues.AddTransaction(r.Context(), UserID(r.Context()), r.PathValue("id"), req.input())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	Created(toDue(view), "due transaction added").Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p, err := s.period(r)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	overview, err := s.svc.Dashboard.MonthlyOverview(r.Context(), UserID(r.Context()), p)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toOverview(overview)).Write(w)
}
