package web

import (
	"net/http"

	"github.com/vbonduro/guides/internal/auth"
)

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request, userID int64) {
	targetID, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.follows.Follow(r.Context(), userID, targetID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request, userID int64) {
	targetID, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.follows.Unfollow(r.Context(), userID, targetID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIsFollowing(w http.ResponseWriter, r *http.Request) {
	targetID, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	following, err := s.follows.IsFollowing(r.Context(), auth.UserID(r.Context()), targetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, following)
}
