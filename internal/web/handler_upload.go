package web

import (
	"bufio"
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/uploadstore"
)

const (
	maxUploadSize = 10 << 20 // 10 MB
	// Multipart framing on top of the file itself.
	maxUploadOverhead = 1 << 20
	sniffLen          = 512
)

var errFileTooLarge = &httpError{status: http.StatusRequestEntityTooLarge, message: "file too large, max 10 MB"}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, userID int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+maxUploadOverhead)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.writeError(w, r, errFileTooLarge)
			return
		}
		s.writeError(w, r, badRequest("please choose a file"))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Error("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, badRequest("please choose a file"))
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	if header.Size == 0 {
		s.writeError(w, r, badRequest("please choose a file"))
		return
	}
	if header.Size > maxUploadSize {
		s.writeError(w, r, errFileTooLarge)
		return
	}

	var body io.Reader = file
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		br := bufio.NewReaderSize(file, sniffLen)
		head, err := br.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			s.writeError(w, r, err)
			return
		}
		contentType = uploadstore.Sniff(head)
		body = br
	}

	ext, err := uploadstore.Extension(contentType)
	switch {
	case errors.Is(err, uploadstore.ErrNotImage):
		s.writeError(w, r, badRequest("only images are supported"))
		return
	case errors.Is(err, uploadstore.ErrUnsupported):
		s.writeError(w, r, badRequest("unsupported image type"))
		return
	}

	name, err := s.uploads.Save(r.Context(), ext, body)
	if err != nil {
		s.logger.Error("upload failed", "user_id", userID, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody("upload failed"))
		return
	}
	s.logger.Info("stored upload", "user_id", userID, "name", name, "size", header.Size)
	s.writeJSON(w, http.StatusOK, domain.UploadResponse{URL: "/uploads/" + name})
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	rc, mimeType, err := s.uploads.Open(r.Context(), r.PathValue("name"))
	if err != nil {
		if !errors.Is(err, uploadstore.ErrNotFound) {
			s.logger.Warn("rejected upload lookup", "name", r.PathValue("name"), "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(rc, "upload", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream upload", "name", r.PathValue("name"), "error", err)
	}
}
