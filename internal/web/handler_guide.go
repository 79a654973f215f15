package web

import (
	"context"
	"net/http"

	"github.com/vbonduro/guides/internal/auth"
	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/service"
)

func (s *Server) handleListGuides(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	size, err := queryInt(r, "size", service.DefaultPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	sort := q.Get("sort")
	if sort == "" {
		sort = "latest"
	}

	result, err := s.guides.ListGuides(r.Context(), service.ListParams{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Page:     page,
		Size:     size,
		Sort:     sort,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.guides.GetGuide(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCreateGuide(w http.ResponseWriter, r *http.Request, userID int64) {
	var req domain.UpsertGuideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.guides.CreateGuide(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, detail)
}

func (s *Server) handleUpdateGuide(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req domain.UpsertGuideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.guides.UpdateGuide(r.Context(), id, userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteGuide(w http.ResponseWriter, r *http.Request, userID int64) {
	s.guideAction(w, r, userID, s.guides.DeleteGuide)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request, userID int64) {
	s.guideAction(w, r, userID, s.guides.Like)
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request, userID int64) {
	s.guideAction(w, r, userID, s.guides.Unlike)
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request, userID int64) {
	s.guideAction(w, r, userID, s.guides.Favorite)
}

func (s *Server) handleUnfavorite(w http.ResponseWriter, r *http.Request, userID int64) {
	s.guideAction(w, r, userID, s.guides.Unfavorite)
}

// guideAction runs a bodiless guide mutation and answers 204.
func (s *Server) guideAction(w http.ResponseWriter, r *http.Request, userID int64, action func(ctx context.Context, guideID, userID int64) error) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := action(r.Context(), id, userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	comments, err := s.guides.ListComments(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req domain.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	comment, err := s.guides.CreateComment(r.Context(), id, userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListCheckIns(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	checkIns, err := s.guides.ListCheckIns(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, checkIns)
}

func (s *Server) handleUpsertCheckIn(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req domain.UpsertCheckInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	checkIn, err := s.guides.UpsertCheckIn(r.Context(), id, userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, checkIn)
}
