package handlers

import (
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/paraulins/internal/interfaces"
	"github.com/ternarybob/paraulins/internal/models"
)

// multipartMemoryLimit is the in-memory buffer for multipart parsing;
// larger uploads spill to temp files.
const multipartMemoryLimit = 32 << 20

// WordHandler serves a child's words and their attached media: recordings
// (with optional trimming) and a single image per word.
type WordHandler struct {
	store    interfaces.ChildStore
	audio    interfaces.AudioStore
	images   interfaces.ImageStore
	searcher interfaces.ImageSearcher
	logger   arbor.ILogger
	validate *validator.Validate
}

func NewWordHandler(store interfaces.ChildStore, audio interfaces.AudioStore, images interfaces.ImageStore, searcher interfaces.ImageSearcher, logger arbor.ILogger) *WordHandler {
	return &WordHandler{
		store:    store,
		audio:    audio,
		images:   images,
		searcher: searcher,
		logger:   logger,
		validate: validator.New(),
	}
}

type createWordRequest struct {
	Text string `json:"text" validate:"required"`
}

type downloadImageRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

// childOrNotFound loads the named child, writing a 404 when absent.
func (h *WordHandler) childOrNotFound(w http.ResponseWriter, name string) *models.Child {
	child, err := h.store.Child(name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to load children")
		return nil
	}
	if child == nil {
		WriteError(w, http.StatusNotFound, "Child not found")
		return nil
	}
	return child
}

// CreateWord adds a word to a child's vocabulary. Word text is
// case-sensitive and must be unique within the child.
func (h *WordHandler) CreateWord(w http.ResponseWriter, r *http.Request, childName string) {
	var req createWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Word text is required")
		return
	}

	child := h.childOrNotFound(w, childName)
	if child == nil {
		return
	}

	word, err := models.NewWord(req.Text)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if child.GetWord(word.Text) != nil {
		WriteError(w, http.StatusConflict, "Word already exists")
		return
	}

	child.AddWord(word)
	if err := h.store.SaveChild(*child); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save child")
		return
	}

	h.logger.Info().Str("child", child.Name).Str("word", word.Text).Msg("Word added")
	WriteJSON(w, http.StatusCreated, word.ToMap())
}

// DeleteWord removes a word along with all of its recordings and its image.
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request, childName, wordText string) {
	child := h.childOrNotFound(w, childName)
	if child == nil {
		return
	}
	word := child.GetWord(wordText)
	if word == nil {
		WriteError(w, http.StatusNotFound, "Word not found")
		return
	}

	for _, filename := range h.audio.List(child.Name, word.Text) {
		h.audio.Delete(child.Name, word.Text, filename)
	}
	h.images.Delete(word.Text)

	child.RemoveWord(word.Text)
	if err := h.store.SaveChild(*child); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save child")
		return
	}

	h.logger.Info().Str("child", child.Name).Str("word", wordText).Msg("Word deleted")
	WriteSuccess(w, "Word deleted")
}

// UploadRecording stores an audio recording for a word on a given date,
// optionally trimmed to a [trimStart, trimEnd] window in seconds. A
// recording already on that date is replaced.
func (h *WordHandler) UploadRecording(w http.ResponseWriter, r *http.Request, childName, wordText string) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	date, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if err := models.ValidateDate(date.Year(), int(date.Month()), date.Day()); err != nil {
		WriteServiceError(w, err)
		return
	}

	trimStart, trimEnd, trimming, err := trimWindow(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid trim values, expected seconds")
		return
	}

	child := h.childOrNotFound(w, childName)
	if child == nil {
		return
	}
	word := child.GetWord(wordText)
	if word == nil {
		WriteError(w, http.StatusNotFound, "Word not found")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded audio")
		return
	}

	var key string
	if trimming {
		key, err = h.audio.SaveWithTrim(r.Context(), data, header.Filename, child.Name, word.Text, date, trimStart, trimEnd)
	} else {
		key, err = h.audio.Save(data, header.Filename, child.Name, word.Text, date)
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	// A same-date recording uploaded with a different container leaves the
	// old file behind; drop it before the model forgets its name.
	if previous, ok := word.GetRecording(date.Year(), int(date.Month()), date.Day()); ok && previous.Filename != key {
		h.audio.Delete(child.Name, word.Text, previous.Filename)
	}

	if err := word.AddRecording(date.Year(), int(date.Month()), date.Day(), key); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := h.store.SaveChild(*child); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save child")
		return
	}

	recording, _ := word.GetRecording(date.Year(), int(date.Month()), date.Day())
	h.logger.Info().
		Str("child", child.Name).
		Str("word", word.Text).
		Str("file", key).
		Bool("trimmed", trimming).
		Msg("Recording stored")
	WriteJSON(w, http.StatusCreated, recording.ToMap())
}

// DeleteRecording removes the recording on an exact date.
func (h *WordHandler) DeleteRecording(w http.ResponseWriter, r *http.Request, childName, wordText string, year, month, day int) {
	child := h.childOrNotFound(w, childName)
	if child == nil {
		return
	}
	word := child.GetWord(wordText)
	if word == nil {
		WriteError(w, http.StatusNotFound, "Word not found")
		return
	}

	recording, ok := word.GetRecording(year, month, day)
	if !ok {
		WriteError(w, http.StatusNotFound, "Recording not found")
		return
	}

	h.audio.Delete(child.Name, word.Text, recording.Filename)
	word.RemoveRecording(year, month, day)
	if err := h.store.SaveChild(*child); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save child")
		return
	}

	WriteSuccess(w, "Recording deleted")
}

// UploadImage stores an optimized image for a word, replacing any previous
// one.
func (h *WordHandler) UploadImage(w http.ResponseWriter, r *http.Request, childName, wordText string) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	child := h.childOrNotFound(w, childName)
	if child == nil {
		return
	}
	word := child.GetWord(wordText)
	if word == nil {
		WriteError(w, http.StatusNotFound, "Word not found")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded image")
		return
	}

	key, err := h.images.Save(data, header.Filename, word.Text)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	word.SetImage(key)
	if err := h.store.SaveChild(*child); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save child")
		return
	}

	h.logger.Info().Str("child", child.Name).Str("word", word.Text).Str("file", key).Msg("Image stored")
	WriteJSON(w, http.StatusOK, map[string]string{"image_filename": key})
}

// DownloadImage fetches an image from a URL (typically a search hit) and
// stores it for the word exactly as an upload would be.
func (h *WordHandler) DownloadImage(w http.ResponseWriter, r *http.Request, childName, wordText string) {
	var req downloadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "A valid imageUrl is required")
		return
	}

	child := h.childOrNotFound(w, childName)
	if child == nil {
		return
	}
	word := child.GetWord(wordText)
	if word == nil {
		WriteError(w, http.StatusNotFound, "Word not found")
		return
	}

	key, err := h.searcher.Download(r.Context(), req.ImageURL, word.Text)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	word.SetImage(key)
	if err := h.store.SaveChild(*child); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save child")
		return
	}

	h.logger.Info().Str("child", child.Name).Str("word", word.Text).Str("file", key).Msg("Image downloaded")
	WriteJSON(w, http.StatusOK, map[string]string{"image_filename": key})
}

// trimWindow reads optional trimStart/trimEnd form fields. A window with
// only trimStart runs to the end of the audio; only trimEnd starts at zero.
func trimWindow(r *http.Request) (start, end float64, trimming bool, err error) {
	startRaw := r.FormValue("trimStart")
	endRaw := r.FormValue("trimEnd")
	if startRaw == "" && endRaw == "" {
		return 0, 0, false, nil
	}

	start = 0
	end = math.MaxFloat64
	if startRaw != "" {
		if start, err = strconv.ParseFloat(startRaw, 64); err != nil {
			return 0, 0, false, err
		}
	}
	if endRaw != "" {
		if end, err = strconv.ParseFloat(endRaw, 64); err != nil {
			return 0, 0, false, err
		}
	}
	return start, end, true, nil
}
