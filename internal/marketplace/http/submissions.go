package http

import (
	"errors"
	"io"
	"net/http"

	"collabBack/internal/identity"
	"collabBack/internal/marketplace/repo"
)

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListSubmissions(w, r)
	case http.MethodPost:
		s.handleSubmitContent(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer, identity.RoleAdmin)
	if !ok {
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	var (
		subs []repo.Submission
		err  error
	)
	if actor.Is(identity.RoleAdmin) {
		limit, offset, perr := s.parsePaging(r)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		subs, err = s.svc.ListSubmissions(ctx, r.URL.Query().Get("status"), limit, offset)
	} else {
		subs, err = s.svc.ListSubmissionsByInfluencer(ctx, actor.ID)
	}
	if err != nil {
		s.fail(w, "list submissions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": makeSubmissionList(subs)})
}

func (s *Server) handleSubmitContent(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer)
	if !ok {
		return
	}
	var req struct {
		ApplicationID string   `json:"application_id" validate:"required"`
		ContentLinks  []string `json:"content_links" validate:"required,min=1,dive,required"`
		VideoURL      string   `json:"video_url" validate:"omitempty,url"`
	}
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "submit content", err)
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	sub, err := s.svc.SubmitContent(ctx, req.ApplicationID, actor.ID, req.ContentLinks, req.VideoURL)
	if err != nil {
		s.fail(w, "submit content", err)
		return
	}
	writeJSON(w, http.StatusCreated, makeSubmissionResponse(sub))
}

func (s *Server) handleSubmissionSubroutes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitPath(r, "/api/v1/submissions/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch {
	case id == "media" && action == "":
		s.handleUploadMedia(w, r)
	case action == "review":
		s.handleReviewSubmission(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) handleReviewSubmission(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.actorWithRole(w, r, identity.RoleAdmin); !ok {
		return
	}
	var req struct {
		Decision string `json:"decision" validate:"required"`
		Notes    string `json:"notes"`
	}
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "review submission", err)
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	sub, err := s.svc.ReviewSubmission(ctx, id, req.Decision, req.Notes)
	if err != nil {
		s.fail(w, "review submission", err)
		return
	}
	writeJSON(w, http.StatusOK, makeSubmissionResponse(sub))
}

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer)
	if !ok {
		return
	}
	if s.media == nil {
		writeError(w, http.StatusServiceUnavailable, "media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	url, err := s.media.Upload(ctx, actor.ID, header.Filename, data)
	if err != nil {
		s.fail(w, "upload media", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
