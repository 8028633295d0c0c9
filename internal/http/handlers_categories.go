package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	typ := core.CategoryType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ != "" && !typ.Valid() {
		BadRequestError("type: must be income or expense").Write(w)
		return
	}
	cats, err := s.svc.Categories.List(r.Context(), UserID(r.Context()), typ)
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toCategories(cats)).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Categories.Get(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toCategory(c)).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	c, err := s.svc.Categories.Create(r.Context(), UserID(r.Context()), req.input())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	Created(toCategory(c), "category created").Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	c, err := s.svc.Categories.Update(r.Context(), UserID(r.Context()), r.PathValue("id"), req.patch())
	if err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	OK(toCategory(c)).Message("category updated").Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Categories.Delete(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		ServiceError(r, err).Write(w)
		return
	}
	NewResponse().Message("category deleted").Write(w)
}
