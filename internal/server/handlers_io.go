package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

// parseUploadForm bounds and parses a multipart request according to the
// configured upload limits. A false return means the error response has
// already been written.
func (s *Server) parseUploadForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.uploads.MultipartMaxMemory); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
		return false
	}
	return true
}

// formFileOrNil returns the named file part, or nils when the part is
// absent. Other errors are reported as invalid multipart payloads.
func formFileOrNil(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, badRequestCode(fmt.Errorf("invalid %s upload", field), ErrCodeInvalidMultipart)
	}
	return file, header, nil
}

func classifyMultipartError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "request body too large") {
		return badRequestCode(fmt.Errorf("request body too large"), ErrCodeRequestTooLarge)
	}
	return badRequestCode(err, ErrCodeInvalidMultipart)
}
