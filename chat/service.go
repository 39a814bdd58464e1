package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"noteboard/embedding"
	"noteboard/repository"
)

// ErrEmptyHistory is returned when there is no message to answer.
var ErrEmptyHistory = errors.New("chat: empty message history")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chunk is one unit of streamed assistant output. A terminal upstream
// failure is delivered as a Chunk with Err set, then the channel closes, so
// consumers can tell a failed stream from a complete one.
type Chunk struct {
	Content string
	Err     error
}

// Options bound the retrieval and streaming behavior of the chat service.
type Options struct {
	Model          string
	HistoryWindow  int           // messages kept from the end of the history
	NoteLimit      int           // own notes retrieved per query
	CandidatePool  int           // ANN candidate pool for note search
	ProfileLimit   int           // similar profiles consulted per query
	PeerNoteLimit  int           // notes retrieved per similar profile
	StreamDeadline time.Duration // upper bound on one completion stream
}

func DefaultOptions(model string) Options {
	return Options{
		Model:          model,
		HistoryWindow:  6,
		NoteLimit:      4,
		CandidatePool:  150,
		ProfileLimit:   3,
		PeerNoteLimit:  2,
		StreamDeadline: 2 * time.Minute,
	}
}

// Service answers chat requests with retrieval-augmented streamed
// completions: the query window is embedded, the user's own relevant notes
// and notes of similar users are retrieved, and the assembled system prompt
// is prepended to the bounded message window.
type Service struct {
	embed    embedding.Client
	notes    repository.NoteVectorRepo
	profiles repository.ProfileVectorRepo
	llm      *openai.Client
	tmpl     PromptTemplate
	opts     Options
	logger   *zap.Logger
}

func NewService(embed embedding.Client, notes repository.NoteVectorRepo, profiles repository.ProfileVectorRepo, llm *openai.Client, tmpl PromptTemplate, opts Options, logger *zap.Logger) *Service {
	return &Service{
		embed:    embed,
		notes:    notes,
		profiles: profiles,
		llm:      llm,
		tmpl:     tmpl,
		opts:     opts,
		logger:   logger,
	}
}

// Stream starts a completion stream for the given history. Retrieval and
// prompt assembly happen before the channel is returned, so setup failures
// surface as a plain error; failures after streaming has begun arrive as a
// Chunk with Err set. Cancelling ctx cancels the upstream stream.
func (s *Service) Stream(ctx context.Context, userID string, history []Message) (<-chan Chunk, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	window := history
	if len(window) > s.opts.HistoryWindow {
		window = window[len(window)-s.opts.HistoryWindow:]
	}

	queryVector, err := s.embedWindow(ctx, window)
	if err != nil {
		return nil, err
	}

	ownNotes, err := s.notes.SearchNotes(ctx, queryVector, userID, s.opts.NoteLimit, s.opts.CandidatePool)
	if err != nil {
		return nil, fmt.Errorf("err retrieve notes: %w", err)
	}

	peerNotes := s.retrievePeerNotes(ctx, queryVector, userID)

	systemPrompt := BuildSystemPrompt(s.tmpl, toNoteRefs(ownNotes), peerNotes)

	messages := make([]openai.ChatCompletionMessage, 0, len(window)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range window {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	streamCtx, cancel := context.WithTimeout(ctx, s.opts.StreamDeadline)

	stream, err := s.llm.CreateChatCompletionStream(streamCtx, openai.ChatCompletionRequest{
		Model:    s.opts.Model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("err start completion stream: %w", err)
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer cancel()
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				// Forward the failure instead of closing cleanly so the
				// consumer can tell truncated output from complete output.
				select {
				case out <- Chunk{Err: fmt.Errorf("err completion stream: %w", err)}:
				case <-streamCtx.Done():
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			content := resp.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			select {
			case out <- Chunk{Content: content}:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *Service) embedWindow(ctx context.Context, window []Message) ([]float32, error) {
	contents := make([]string, len(window))
	for i, m := range window {
		contents[i] = m.Content
	}

	embeddings, err := s.embed.GetEmbeddings(ctx, []string{strings.Join(contents, "\n")})
	if err != nil {
		return nil, fmt.Errorf("err embed chat window: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("err embed chat window: empty response")
	}
	return embeddings[0], nil
}

// retrievePeerNotes finds users with similar profiles and pulls their
// query-relevant notes. Peer context is an enrichment; any failure here is
// logged and the chat proceeds with the user's own notes only.
func (s *Service) retrievePeerNotes(ctx context.Context, queryVector []float32, userID string) []NoteRef {
	peers, err := s.profiles.SearchProfiles(ctx, queryVector, userID, s.opts.ProfileLimit)
	if err != nil {
		s.logger.Warn("profile search failed, continuing without peer notes",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil
	}

	var refs []NoteRef
	for _, peer := range peers {
		notes, err := s.notes.SearchNotes(ctx, queryVector, peer.UserID, s.opts.PeerNoteLimit, s.opts.CandidatePool)
		if err != nil {
			s.logger.Warn("peer note search failed",
				zap.String("peer_user_id", peer.UserID),
				zap.Error(err))
			continue
		}
		refs = append(refs, toNoteRefs(notes)...)
	}
	return refs
}

func toNoteRefs(matches []repository.RetrievalMatch) []NoteRef {
	refs := make([]NoteRef, len(matches))
	for i, m := range matches {
		refs[i] = NoteRef{Title: m.Title, Content: m.Content}
	}
	return refs
}
