package web

import (
	"net/http"

	"github.com/vbonduro/guides/internal/domain"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.templates.List(r.Context()))
}

func (s *Server) handleDraftTemplate(w http.ResponseWriter, r *http.Request, _ int64) {
	var req domain.DraftTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tpl, err := s.templates.Draft(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tpl)
}
