package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/paraulins/internal/interfaces"
	"github.com/ternarybob/paraulins/internal/models"
)

// ChildHandler serves the child collection: listing, creation and lookup.
type ChildHandler struct {
	store    interfaces.ChildStore
	logger   arbor.ILogger
	validate *validator.Validate
}

func NewChildHandler(store interfaces.ChildStore, logger arbor.ILogger) *ChildHandler {
	return &ChildHandler{
		store:    store,
		logger:   logger,
		validate: validator.New(),
	}
}

type createChildRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListChildren returns every tracked child with their full word lists.
func (h *ChildHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.store.Children()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to load children")
		return
	}

	out := make([]map[string]interface{}, 0, len(children))
	for i := range children {
		out = append(out, children[i].ToMap())
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"children": out})
}

// CreateChild adds a new child. Names are case-sensitive and must be unique.
func (h *ChildHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req createChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Child name is required")
		return
	}

	child, err := models.NewChild(req.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	existing, err := h.store.Child(child.Name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to load children")
		return
	}
	if existing != nil {
		WriteError(w, http.StatusConflict, "Child already exists")
		return
	}

	if err := h.store.SaveChild(child); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save child")
		return
	}

	h.logger.Info().Str("child", child.Name).Msg("Child created")
	WriteJSON(w, http.StatusCreated, child.ToMap())
}

// GetChild returns a single child by exact name.
func (h *ChildHandler) GetChild(w http.ResponseWriter, r *http.Request, name string) {
	child, err := h.store.Child(name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to load children")
		return
	}
	if child == nil {
		WriteError(w, http.StatusNotFound, "Child not found")
		return
	}
	WriteJSON(w, http.StatusOK, child.ToMap())
}
