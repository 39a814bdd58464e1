package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"noteboard/chat"
	"noteboard/notes"
	"noteboard/recommend"
	"noteboard/repository"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps the error taxonomy to status codes. Upstream provider
// failures are logged with detail but surfaced generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *notes.ValidationError

	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
	case errors.Is(err, chat.ErrEmptyHistory):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "messages are required"})
	case errors.Is(err, ErrUnauthenticated):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, notes.ErrNotOwner):
		s.writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, repository.ErrNoteNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "note not found"})
	default:
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

type updateNoteRequest struct {
	ID string `json:"id"`
	notes.NoteInput
}

type deleteNoteRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := s.auth.Authenticate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := s.notes.List(r.Context(), userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if list == nil {
			list = []*repository.Note{}
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"notes": list})

	case http.MethodPost:
		var in notes.NoteInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		note, err := s.notes.Create(r.Context(), userID, in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, map[string]any{"note": note})

	case http.MethodPut:
		var req updateNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		note, err := s.notes.Update(r.Context(), userID, req.ID, req.NoteInput)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"note": note})

	case http.MethodDelete:
		var req deleteNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if err := s.notes.Delete(r.Context(), userID, req.ID); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"message": "note deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := s.auth.Authenticate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	chunks, err := s.chat.Stream(r.Context(), userID, req.Messages)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.New("response writer does not support streaming"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for chunk := range chunks {
		if chunk.Err != nil {
			s.logger.Error("chat stream failed mid-transmission",
				zap.String("user_id", userID),
				zap.Error(chunk.Err))
			// Abort the chunked response so the client sees a failed
			// transfer instead of a clean close of truncated output.
			panic(http.ErrAbortHandler)
		}
		if _, err := w.Write([]byte(chunk.Content)); err != nil {
			return // client went away
		}
		flusher.Flush()
	}
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := s.auth.Authenticate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	profileVector, err := s.profiles.GetProfile(r.Context(), userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"courses": []recommend.CourseListing{},
			"message": "Add notes to the board to get course recommendations.",
		})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	listings, err := s.recommender.Recommend(r.Context(), userID, profileVector)
	if errors.Is(err, recommend.ErrNoNotes) {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"courses": []recommend.CourseListing{},
			"message": "Add notes to the board to get course recommendations.",
		})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if listings == nil {
		listings = []recommend.CourseListing{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"courses": listings})
}
