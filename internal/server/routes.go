package server

import (
	"net/http"
	"strconv"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Children and their words
	mux.HandleFunc("/api/children", s.handleChildrenCollection)
	mux.HandleFunc("/api/children/", s.handleChildRoutes)

	// API routes - Stored media
	mux.HandleFunc("/api/audio/", s.handleAudioRoute)
	mux.HandleFunc("/api/images/", s.handleImageRoute)

	// API routes - Image search
	mux.HandleFunc("/api/search/images", s.app.SearchHandler.SearchImages)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleChildrenCollection serves GET (list) and POST (create) on the
// children collection.
func (s *Server) handleChildrenCollection(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.ChildHandler.ListChildren, s.app.ChildHandler.CreateChild)
}

// handleChildRoutes dispatches everything under /api/children/{name}:
//
//	GET    /api/children/{name}
//	POST   /api/children/{name}/words
//	DELETE /api/children/{name}/words/{word}
//	POST   /api/children/{name}/words/{word}/image
//	POST   /api/children/{name}/words/{word}/image/download
//	POST   /api/children/{name}/words/{word}/recordings
//	DELETE /api/children/{name}/words/{word}/recordings/{y}/{m}/{d}
func (s *Server) handleChildRoutes(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/api/children/"))

	switch {
	case len(parts) == 1:
		RouteByMethod(w, r, MethodRouter{"GET": func(w http.ResponseWriter, r *http.Request) {
			s.app.ChildHandler.GetChild(w, r, parts[0])
		}})

	case len(parts) == 2 && parts[1] == "words":
		RouteByMethod(w, r, MethodRouter{"POST": func(w http.ResponseWriter, r *http.Request) {
			s.app.WordHandler.CreateWord(w, r, parts[0])
		}})

	case len(parts) == 3 && parts[1] == "words":
		RouteByMethod(w, r, MethodRouter{"DELETE": func(w http.ResponseWriter, r *http.Request) {
			s.app.WordHandler.DeleteWord(w, r, parts[0], parts[2])
		}})

	case len(parts) == 4 && parts[1] == "words" && parts[3] == "image":
		RouteByMethod(w, r, MethodRouter{"POST": func(w http.ResponseWriter, r *http.Request) {
			s.app.WordHandler.UploadImage(w, r, parts[0], parts[2])
		}})

	case len(parts) == 5 && parts[1] == "words" && parts[3] == "image" && parts[4] == "download":
		RouteByMethod(w, r, MethodRouter{"POST": func(w http.ResponseWriter, r *http.Request) {
			s.app.WordHandler.DownloadImage(w, r, parts[0], parts[2])
		}})

	case len(parts) == 4 && parts[1] == "words" && parts[3] == "recordings":
		RouteByMethod(w, r, MethodRouter{"POST": func(w http.ResponseWriter, r *http.Request) {
			s.app.WordHandler.UploadRecording(w, r, parts[0], parts[2])
		}})

	case len(parts) == 7 && parts[1] == "words" && parts[3] == "recordings":
		RouteByMethod(w, r, MethodRouter{"DELETE": func(w http.ResponseWriter, r *http.Request) {
			year, errY := strconv.Atoi(parts[4])
			month, errM := strconv.Atoi(parts[5])
			day, errD := strconv.Atoi(parts[6])
			if errY != nil || errM != nil || errD != nil {
				http.Error(w, "Invalid recording date", http.StatusBadRequest)
				return
			}
			s.app.WordHandler.DeleteRecording(w, r, parts[0], parts[2], year, month, day)
		}})

	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

// handleAudioRoute serves GET /api/audio/{child}/{word}/{filename}.
func (s *Server) handleAudioRoute(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/api/audio/"))
	if len(parts) != 3 {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}
	RouteByMethod(w, r, MethodRouter{"GET": func(w http.ResponseWriter, r *http.Request) {
		s.app.MediaHandler.ServeAudio(w, r, parts[0], parts[1], parts[2])
	}})
}

// handleImageRoute serves GET /api/images/{filename}.
func (s *Server) handleImageRoute(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/api/images/"))
	if len(parts) != 1 {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}
	RouteByMethod(w, r, MethodRouter{"GET": func(w http.ResponseWriter, r *http.Request) {
		s.app.MediaHandler.ServeImage(w, r, parts[0])
	}})
}
