// Package gateway republishes a Demultiplexer's field sinks over
// HTTP: a client starts a session bound to a known schema, feeds it
// request bytes, and reads fields back either once (a Single sink)
// or as a server-sent-event stream (a Stream sink).
package gateway

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mevansam/jmux"
	"github.com/mevansam/jmux/config"
)

// Session binds one Demultiplexer instance to an ID a client can
// address over HTTP. The gateway's single feeding worker is the
// session's sole feeder; every HTTP handler that touches it only
// calls AwaitField or FieldIterator.
type Session struct {
	ID         string
	SchemaName string

	demux *jmux.Demultiplexer
}

// SessionStore holds every session started against a gateway's
// schema catalog, keyed by ID.
type SessionStore struct {
	catalog *config.Catalog

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore(catalog *config.Catalog) *SessionStore {
	return &SessionStore{
		catalog:  catalog,
		sessions: make(map[string]*Session),
	}
}

// Start allocates a new session against the named schema and
// registers it in the store.
func (s *SessionStore) Start(schemaName string) (*Session, error) {

	schema, ok := s.catalog.Schema(schemaName)
	if !ok {
		return nil, fmt.Errorf("gateway: no schema named %q is known to this server", schemaName)
	}

	session := &Session{
		ID:         uuid.New().String(),
		SchemaName: schemaName,
		demux:      jmux.NewDemultiplexer(schema),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

// Get looks up a session by ID.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}
