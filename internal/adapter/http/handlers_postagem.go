package adapthttp

import (
	"encoding/json"
	"net/http"

	"blogpessoal/internal/domain"
)

// postRequest is the body accepted for creates and updates. The date is
// always stamped by the server, so any client value is read and dropped.
type postRequest struct {
	ID    int64           `json:"id"`
	Title string          `json:"titulo"`
	Body  string          `json:"texto"`
	Date  json.RawMessage `json:"data,omitempty"`
}

func (p postRequest) post() domain.Post {
	return domain.Post{ID: p.ID, Title: p.Title, Body: p.Body}
}

func writePosts(w http.ResponseWriter, posts []domain.Post) {
	if posts == nil {
		posts = []domain.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handlePostList(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writePosts(w, posts)
}

func (s *Server) handlePostGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handlePostSearch(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.SearchByTitle(r.Context(), r.PathValue("titulo"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writePosts(w, posts)
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	post, err := s.posts.Create(r.Context(), req.post())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	post, err := s.posts.Update(r.Context(), req.post())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.posts.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
