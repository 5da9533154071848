package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/paraulins/internal/interfaces"
)

// SearchHandler exposes the external image search provider.
type SearchHandler struct {
	searcher interfaces.ImageSearcher
	logger   arbor.ILogger
}

func NewSearchHandler(searcher interfaces.ImageSearcher, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		logger:   logger,
	}
}

// SearchImages proxies an image search. Provider problems come back as a
// 200 with an error message in the body, so the UI can show them verbatim.
func (h *SearchHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}

	WriteJSON(w, http.StatusOK, h.searcher.Search(r.Context(), query, page))
}
