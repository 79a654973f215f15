package web

import (
	"net/http"

	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/service"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, userID int64) {
	u, err := s.users.Me(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, u.Info())
}

func (s *Server) handleUpdateUsername(w http.ResponseWriter, r *http.Request, userID int64) {
	var req domain.UpdateUsernameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.users.UpdateUsername(r.Context(), userID, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request, userID int64) {
	var req domain.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.users.UpdatePassword(r.Context(), userID, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMyGuides(w http.ResponseWriter, r *http.Request, userID int64) {
	guides, err := s.guides.MyGuides(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, guides)
}

func (s *Server) handleMyFavorites(w http.ResponseWriter, r *http.Request, userID int64) {
	guides, err := s.guides.MyFavorites(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, guides)
}

func (s *Server) handleMyCheckIns(w http.ResponseWriter, r *http.Request, userID int64) {
	records, err := s.guides.MyCheckIns(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleMyFollowing(w http.ResponseWriter, r *http.Request, userID int64) {
	users, err := s.follows.Following(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request, userID int64) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	size, err := queryInt(r, "size", service.DefaultFeedSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cards, err := s.guides.Feed(r.Context(), userID, page, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cards)
}
