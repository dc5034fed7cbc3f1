package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/web"
)

// PageHandler serves the browser UI
type PageHandler struct {
	logger arbor.ILogger
}

// NewPageHandler creates a new page handler
func NewPageHandler(logger arbor.ILogger) *PageHandler {
	return &PageHandler{logger: logger}
}

// ServePage creates a handler function for serving a specific page
func (h *PageHandler) ServePage(pageName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The root route matches every unhandled path; only serve the page itself
		if pageName == "index.html" && r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data, err := web.GetPage(pageName)
		if err != nil {
			h.logger.Error().Err(err).Str("page", pageName).Msg("Failed to load page")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}
}
