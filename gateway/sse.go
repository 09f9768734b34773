package gateway

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mevansam/jmux/utils"
)

// heartbeatInterval is in milliseconds, matching ExecTimer's
// callback-return-value convention.
const heartbeatInterval time.Duration = 15000

// streamField attaches a StreamIterator to the named field and writes
// one SSE "data:" event per fragment. Attaching after the field has
// already closed still replays every fragment from the start, the
// same replay guarantee FieldIterator gives an in-process caller.
func (s *Server) streamField(c *gin.Context) {

	session, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	iter, err := session.demux.FieldIterator(c.Param("field"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	fragments := make(chan string)
	streamErr := make(chan error, 1)

	go func() {
		defer close(fragments)
		for {
			fragment, ok, err := iter.Next(ctx)
			if err != nil {
				streamErr <- err
				return
			}
			if !ok {
				return
			}
			fragments <- fragment
		}
	}()

	heartbeat := utils.NewExecTimer(ctx, func() (time.Duration, error) {
		c.SSEvent("heartbeat", "")
		c.Writer.Flush()
		return 0, nil
	}, true)
	_ = heartbeat.Start(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case fragment, open := <-fragments:
			if !open {
				return false
			}
			c.SSEvent("fragment", fragment)
			return true
		case err := <-streamErr:
			c.SSEvent("error", err.Error())
			return false
		case <-ctx.Done():
			return false
		}
	})
}
