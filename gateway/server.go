package gateway

import (
	"context"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mevansam/jmux/config"
	"github.com/mevansam/jmux/logger"
	"github.com/mevansam/jmux/utils"
)

const feedTimeout = 10 * time.Second

// Server is a gateway HTTP server. Use NewServer to construct one and
// Server.Engine to obtain the *gin.Engine to run, so a caller retains
// control over how (and on what address) it is served.
type Server struct {
	engine     *gin.Engine
	sessions   *SessionStore
	auth       *Authenticator
	dispatcher *utils.TaskDispatcher
}

func NewServer(catalog *config.Catalog, signingKey []byte) *Server {

	s := &Server{
		sessions:   NewSessionStore(catalog),
		auth:       NewAuthenticator(signingKey),
		dispatcher: utils.NewTaskDispatcher(64, 5000),
	}
	s.dispatcher.Start(1)

	s.engine = gin.New()
	s.engine.Use(gin.Recovery())

	s.engine.POST("/sessions", s.startSession)

	authorized := s.engine.Group("/sessions/:id", s.auth.RequireSessionToken())
	authorized.POST("/feed", s.feedSession)
	authorized.GET("/fields/:field", s.awaitField)
	authorized.GET("/stream/:field", s.streamField)

	return s
}

// Engine returns the underlying gin.Engine so the caller can Run it,
// mount it behind a reverse proxy, or exercise it in tests via
// httptest without this package reaching for net/http itself.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

type startSessionRequest struct {
	Schema string `json:"schema" binding:"required"`
}

func (s *Server) startSession(c *gin.Context) {

	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := s.sessions.Start(req.Schema)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	token, err := s.auth.IssueToken(session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    session.ID,
		"token": token,
	})
}

func (s *Server) feedSession(c *gin.Context) {

	session, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	done := make(chan error, 1)
	dispatchErr := s.dispatcher.RunTask("feed-session", func(inData interface{}) (interface{}, error) {
		chunk := inData.(string)
		return nil, session.demux.FeedChunks(chunk)
	}).WithData(string(body)).OnSuccess(func(interface{}) {
		done <- nil
	}).OnError(func(err error, _ interface{}) {
		logger.WarnMessage("gateway.feedSession: session %s poisoned: %s", session.ID, err.Error())
		done <- err
	}).Once()

	if dispatchErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": dispatchErr.Error()})
		return
	}

	var feedErr error
	completed := utils.InvokeWithTimeout(func() {
		feedErr = <-done
	}, feedTimeout)
	if !completed {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timed out waiting for session to absorb fed characters"})
		return
	}
	if feedErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": feedErr.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}

func (s *Server) awaitField(c *gin.Context) {

	session, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	value, err := session.demux.AwaitField(ctx, c.Param("field"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}
