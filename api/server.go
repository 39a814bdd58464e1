package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"noteboard/chat"
	"noteboard/notes"
	"noteboard/recommend"
	"noteboard/repository"
)

type NoteService interface {
	Create(ctx context.Context, userID string, in notes.NoteInput) (*repository.Note, error)
	Update(ctx context.Context, userID, id string, in notes.NoteInput) (*repository.Note, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]*repository.Note, error)
}

type ChatService interface {
	Stream(ctx context.Context, userID string, history []chat.Message) (<-chan chat.Chunk, error)
}

type Recommender interface {
	Recommend(ctx context.Context, userID string, profileVector []float32) ([]recommend.CourseListing, error)
}

// Server exposes the note, chat, and course endpoints.
type Server struct {
	notes       NoteService
	chat        ChatService
	recommender Recommender
	profiles    repository.ProfileVectorRepo
	auth        Authenticator
	logger      *zap.Logger
	port        int
}

func NewServer(noteSvc NoteService, chatSvc ChatService, recommender Recommender, profiles repository.ProfileVectorRepo, auth Authenticator, logger *zap.Logger, port int) *Server {
	return &Server{
		notes:       noteSvc,
		chat:        chatSvc,
		recommender: recommender,
		profiles:    profiles,
		auth:        auth,
		logger:      logger,
		port:        port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/notes", s.handleNotes)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/courses", s.handleCourses)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting API server", zap.Int("port", s.port))
	return srv.ListenAndServe()
}
