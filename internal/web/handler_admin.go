package web

import (
	"net/http"

	"github.com/vbonduro/guides/internal/domain"
)

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request, _ int64) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request, adminID int64) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req domain.AdminUpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.users.UpdateUser(r.Context(), id, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("admin updated user", "admin_id", adminID, "user_id", id, "role", req.Role)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminSetStatus(w http.ResponseWriter, r *http.Request, adminID int64) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req domain.StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.users.SetStatus(r.Context(), id, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("admin set user status", "admin_id", adminID, "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminResetPassword(w http.ResponseWriter, r *http.Request, adminID int64) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req domain.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.users.ResetPassword(r.Context(), id, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("admin reset password", "admin_id", adminID, "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request, adminID int64) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.users.DeactivateUser(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("admin deactivated user", "admin_id", adminID, "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}
