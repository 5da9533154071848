package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/paraulins/internal/interfaces"
)

// MediaHandler serves stored audio and image files back to the browser.
type MediaHandler struct {
	audio  interfaces.AudioStore
	images interfaces.ImageStore
	logger arbor.ILogger
}

func NewMediaHandler(audio interfaces.AudioStore, images interfaces.ImageStore, logger arbor.ILogger) *MediaHandler {
	return &MediaHandler{
		audio:  audio,
		images: images,
		logger: logger,
	}
}

// ServeAudio streams a stored recording.
func (h *MediaHandler) ServeAudio(w http.ResponseWriter, r *http.Request, childName, wordText, filename string) {
	path, ok := h.audio.Path(childName, wordText, filename)
	if !ok {
		WriteError(w, http.StatusNotFound, "Audio file not found")
		return
	}
	http.ServeFile(w, r, path)
}

// ServeImage streams a stored word image.
func (h *MediaHandler) ServeImage(w http.ResponseWriter, r *http.Request, filename string) {
	path, ok := h.images.Path(filename)
	if !ok {
		WriteError(w, http.StatusNotFound, "Image file not found")
		return
	}
	http.ServeFile(w, r, path)
}
