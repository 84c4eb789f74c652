package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agenthands/forkcast/internal/core"
	"github.com/agenthands/forkcast/internal/core/model"
)

// Server owns the per-session conversation records. A session's state is
// handed to the pipeline by value and replaced wholesale when the turn
// completes; the mutex only serializes turns for the same session.
type Server struct {
	Pipeline *core.Pipeline

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	state model.TurnState
}

func NewServer(pipeline *core.Pipeline) *Server {
	return &Server{
		Pipeline: pipeline,
		sessions: map[string]*session{},
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/chat", s.Chat)
	r.POST("/sessions/:id/reset", s.Reset)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type ChatResponse struct {
	SessionID      string   `json:"session_id"`
	Reply          string   `json:"reply"`
	NeedsNewSearch bool     `json:"needs_new_search"`
	Members        []string `json:"members"`
}

// Chat runs one pipeline turn for the session, creating the session when no
// ID is supplied.
func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	id, sess := s.getSession(req.SessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.state = s.Pipeline.RunTurn(c.Request.Context(), sess.state, req.Message)

	c.JSON(http.StatusOK, ChatResponse{
		SessionID:      id,
		Reply:          sess.state.FinalSuggestions,
		NeedsNewSearch: sess.state.NeedsNewSearch,
		Members:        sess.state.Members.Names(),
	})
}

// Reset discards a session's conversation record.
func (s *Server) Reset(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	s.sessions[id] = &session{state: model.NewTurnState()}

	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (s *Server) getSession(id string) (string, *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{state: model.NewTurnState()}
		s.sessions[id] = sess
	}
	return id, sess
}
