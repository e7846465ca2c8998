package services

import (
	"context"
	"docuchat-ai/internal/apis/dtos"
	"docuchat-ai/internal/constants"
	"docuchat-ai/internal/models"
	"docuchat-ai/internal/repositories"
	"docuchat-ai/pkg/llm"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResponseStatus tags the outcome of a contextual response so the boundary
// layer can tell "no relevant content" from "retrieval down" from "model
// failed" instead of receiving one canned string for all three.
type ResponseStatus string

const (
	ResponseStatusOK            ResponseStatus = "ok"
	ResponseStatusNoContent     ResponseStatus = "no_content"
	ResponseStatusUpstreamError ResponseStatus = "upstream_error"
)

type UpstreamKind string

const (
	UpstreamSearch UpstreamKind = "search"
	UpstreamLLM    UpstreamKind = "llm"
)

// ResponseResult is the tagged outcome of a chat turn. It is never an error:
// the chat flow always yields a renderable result.
type ResponseResult struct {
	Status    ResponseStatus
	Kind      UpstreamKind
	Response  string
	Citations []string
	Sources   []models.DocumentSearchResult
}

type ChatService interface {
	CreateSession(ctx context.Context, req *dtos.CreateSessionRequest) (*models.ChatSession, uint32, error)
	SaveMessage(ctx context.Context, sessionID string, message models.Message) (*dtos.SaveMessageResponse, uint32, error)
	RestoreSession(ctx context.Context, sessionID string) (*dtos.RestoreSessionResponse, uint32, error)
	ListSessions(ctx context.Context, userID *string) (*dtos.SessionListResponse, uint32, error)
	DeleteSession(ctx context.Context, sessionID string) (bool, uint32, error)
	InitializeSession(ctx context.Context, sessionID, documentName string) (*models.ChatSession, uint32, error)
	GenerateContextualResponse(ctx context.Context, sessionID, userMessage string, history []models.Message) *ResponseResult
}

type chatService struct {
	sessionRepo repositories.SessionRepository
	retriever   ContentRetriever
	llmClient   llm.Client
}

func NewChatService(sessionRepo repositories.SessionRepository, retriever ContentRetriever, llmClient llm.Client) ChatService {
	return &chatService{
		sessionRepo: sessionRepo,
		retriever:   retriever,
		llmClient:   llmClient,
	}
}

func (s *chatService) CreateSession(ctx context.Context, req *dtos.CreateSessionRequest) (*models.ChatSession, uint32, error) {
	log.Printf("CreateSession -> session: %s, document: %s", req.SessionID, req.DocumentName)

	session, err := s.sessionRepo.Create(ctx, req.SessionID, req.DocumentName, req.UserID)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to create session: %v", err)
	}
	return session, http.StatusOK, nil
}

func (s *chatService) SaveMessage(ctx context.Context, sessionID string, message models.Message) (*dtos.SaveMessageResponse, uint32, error) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	saved, err := s.sessionRepo.AppendMessage(ctx, sessionID, message)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to save message: %v", err)
	}
	return &dtos.SaveMessageResponse{Saved: saved, Message: message}, http.StatusOK, nil
}

// RestoreSession returns a success:false payload for unknown ids. A missing
// session is the ordinary case for first-time visitors, not a server error.
func (s *chatService) RestoreSession(ctx context.Context, sessionID string) (*dtos.RestoreSessionResponse, uint32, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to restore session: %v", err)
	}

	if session == nil {
		errMsg := "Chat session not found"
		return &dtos.RestoreSessionResponse{Success: false, Error: &errMsg}, http.StatusOK, nil
	}
	return &dtos.RestoreSessionResponse{Success: true, Session: session}, http.StatusOK, nil
}

func (s *chatService) ListSessions(ctx context.Context, userID *string) (*dtos.SessionListResponse, uint32, error) {
	sessions, err := s.sessionRepo.List(ctx, userID)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to list sessions: %v", err)
	}
	if sessions == nil {
		sessions = []*models.ChatSession{}
	}
	return &dtos.SessionListResponse{Sessions: sessions, Total: len(sessions)}, http.StatusOK, nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionID string) (bool, uint32, error) {
	deleted, err := s.sessionRepo.Delete(ctx, sessionID)
	if err != nil {
		return false, http.StatusInternalServerError, fmt.Errorf("failed to delete session: %v", err)
	}
	return deleted, http.StatusOK, nil
}

// InitializeSession bootstraps a session with a welcome message. Idempotent:
// an existing session is returned as-is, so two calls never produce two
// welcome messages.
func (s *chatService) InitializeSession(ctx context.Context, sessionID, documentName string) (*models.ChatSession, uint32, error) {
	existing, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to initialize session: %v", err)
	}
	if existing != nil {
		return existing, http.StatusOK, nil
	}

	session, err := s.sessionRepo.Create(ctx, sessionID, documentName, nil)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to initialize session: %v", err)
	}

	welcome := models.Message{
		ID:        fmt.Sprintf("%s-%s", constants.WelcomeMessageIDPrefix, uuid.NewString()),
		Content:   constants.WelcomeMessageContent(documentName),
		IsUser:    false,
		Timestamp: time.Now(),
	}
	if _, err := s.sessionRepo.AppendMessage(ctx, sessionID, welcome); err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to initialize session: %v", err)
	}

	session.Messages = append(session.Messages, welcome)
	return session, http.StatusOK, nil
}

// GenerateContextualResponse runs one chat turn: retrieve passages scoped to
// the session, prompt the model with them plus recent history, and derive
// citations from the passages used.
func (s *chatService) GenerateContextualResponse(ctx context.Context, sessionID, userMessage string, history []models.Message) *ResponseResult {
	sources, err := s.retriever.Search(ctx, userMessage, sessionID, constants.ContextPassageCount, 0)
	if err != nil {
		log.Printf("GenerateContextualResponse -> search failed for session %s: %v", sessionID, err)
		return &ResponseResult{Status: ResponseStatusUpstreamError, Kind: UpstreamSearch}
	}

	if len(sources) == 0 {
		log.Printf("GenerateContextualResponse -> no indexed content for session %s", sessionID)
		return &ResponseResult{Status: ResponseStatusNoContent}
	}

	// The service stays up without a model client; chat turns degrade to the
	// fallback reply instead of panicking.
	if s.llmClient == nil {
		log.Printf("GenerateContextualResponse -> no model client configured, session %s", sessionID)
		return &ResponseResult{Status: ResponseStatusUpstreamError, Kind: UpstreamLLM}
	}

	contextBlocks := make([]string, 0, len(sources))
	for _, source := range sources {
		contextBlocks = append(contextBlocks, fmt.Sprintf("Source: %s\nContent: %s", source.Metadata.FileName, source.Content))
	}
	systemPrompt := constants.BuildContextualSystemPrompt(strings.Join(contextBlocks, "\n\n"))

	response, err := s.llmClient.GenerateResponse(ctx, systemPrompt, buildTranscript(history), userMessage)
	if err != nil {
		log.Printf("GenerateContextualResponse -> model call failed for session %s: %v", sessionID, err)
		return &ResponseResult{Status: ResponseStatusUpstreamError, Kind: UpstreamLLM}
	}

	return &ResponseResult{
		Status:    ResponseStatusOK,
		Response:  response,
		Citations: deriveCitations(sources),
		Sources:   sources,
	}
}

// buildTranscript converts stored messages to the role-tagged form, dropping
// empty entries and keeping only the most recent entries to bound prompt size.
func buildTranscript(history []models.Message) []llm.Message {
	transcript := make([]llm.Message, 0, len(history))
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		role := llm.RoleAssistant
		if msg.IsUser {
			role = llm.RoleUser
		}
		transcript = append(transcript, llm.Message{Role: role, Content: msg.Content})
	}

	if len(transcript) > constants.ConversationHistoryLimit {
		transcript = transcript[len(transcript)-constants.ConversationHistoryLimit:]
	}
	return transcript
}

// deriveCitations renders each passage's source as "<fileName> (Page N)" and
// de-duplicates preserving first-occurrence order.
func deriveCitations(sources []models.DocumentSearchResult) []string {
	seen := make(map[string]struct{}, len(sources))
	citations := make([]string, 0, len(sources))
	for _, source := range sources {
		citation := renderCitation(source.Metadata)
		if _, ok := seen[citation]; ok {
			continue
		}
		seen[citation] = struct{}{}
		citations = append(citations, citation)
	}
	return citations
}

func renderCitation(metadata models.DocumentMetadata) string {
	if metadata.PageNumber != nil {
		return fmt.Sprintf("%s (Page %d)", metadata.FileName, *metadata.PageNumber)
	}
	return metadata.FileName
}
