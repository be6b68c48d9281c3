package server

import (
	"io"
	"net/http"
	"strings"

	"studykart/internal/token"
)

const defaultMaxUploadBytes = 64 << 20

// handlePresignUpload hands out a short-lived PUT URL so admin clients
// can push large files straight to object storage.
func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
		Folder   string `json:"folder"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	upload, err := s.app.PresignUpload(r.Context(), req.Folder, req.FileName, req.FileType)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upload)
}

// uploadHandler builds the multipart handler for one upload folder.
func (s *Server) uploadHandler(folder string) authHandler {
	return func(w http.ResponseWriter, r *http.Request, _ token.Claims) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "read upload failed")
			return
		}
		out, err := s.app.UploadFile(r.Context(), folder, header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// handleDeleteUpload removes a stored object. Clients may send either
// the object key or the public URL; the key wins when both are set.
func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	target := req.Key
	if target == "" {
		target = req.URL
	}
	if err := s.app.DeleteUpload(r.Context(), target); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	url, err := s.app.PresignDownload(r.Context(), key)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
