package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/models"
)

// ---- shared fakes ----

type call struct {
	Path string
	Opts client.CallOptions
}

// fakeGateway answers each path with a canned payload or error.
type fakeGateway struct {
	mu        sync.Mutex
	Responses map[string]string
	Errors    map[string]error
	Calls     []call
}

func (g *fakeGateway) Call(_ context.Context, path string, opts client.CallOptions) (json.RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, call{Path: path, Opts: opts})
	if err, ok := g.Errors[path]; ok {
		return nil, err
	}
	if p, ok := g.Responses[path]; ok {
		return json.RawMessage(p), nil
	}
	return nil, &client.Error{Kind: client.KindAPI, Status: 404, Path: path, Message: "Not Found"}
}

func (g *fakeGateway) last() call {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Calls) == 0 {
		return call{}
	}
	return g.Calls[len(g.Calls)-1]
}

type fakeSession struct {
	Token    string
	identity *models.Identity
	LoginErr error

	Began     int
	Cancelled int
	Logouts   int
}

func (s *fakeSession) Login(_ context.Context, token string, identity *models.Identity) error {
	if s.LoginErr != nil {
		return s.LoginErr
	}
	s.Token, s.identity = token, identity
	return nil
}

func (s *fakeSession) Logout(context.Context) error {
	s.Logouts++
	s.Token, s.identity = "", nil
	return nil
}

func (s *fakeSession) Identity() (*models.Identity, bool) {
	return s.identity, s.identity != nil
}

func (s *fakeSession) BeginAuthenticating() bool {
	s.Began++
	return true
}

func (s *fakeSession) CancelAuthenticating() bool {
	s.Cancelled++
	return true
}

var errBoom = errors.New("boom")
