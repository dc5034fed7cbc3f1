package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
)

// FileLister enumerates the study material files available to the tools
type FileLister interface {
	ListFiles() []string
}

// FilesHandler reports which study materials the server can see
type FilesHandler struct {
	lister FileLister
	logger arbor.ILogger
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(lister FileLister, logger arbor.ILogger) *FilesHandler {
	return &FilesHandler{
		lister: lister,
		logger: logger,
	}
}

// ListHandler handles GET /api/files requests
func (h *FilesHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	files := h.lister.ListFiles()
	if files == nil {
		files = []string{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}
