package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"blogd/internal/blobstore"
)

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("image key is required"), ErrCodeMissingRequired))
		return
	}

	blob, err := s.blobs.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("image not found"), ErrCodeImageNotFound))
			return
		}
		s.writeServiceError(w, r, blobFailure(err))
		return
	}
	defer blob.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, blob); err != nil {
		s.log().Debug("stream image", "key", key, "error", err)
	}
}
