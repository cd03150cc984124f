// Package repotest serves an in-memory Maven repository over HTTP for tests.
package repotest

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
)

// Server is a Maven-layout repository backed by a map of paths to bytes.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	files  map[string][]byte
	status map[string]int
	hits   map[string]int
	delay  time.Duration
}

// New starts a repository server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		files:  make(map[string][]byte),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	r := chi.NewRouter()
	r.Use(s.count)
	r.Get("/*", s.serve)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.hits[strings.TrimPrefix(req.URL.Path, "/")]++
		delay := s.delay
		s.mu.Unlock()
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-req.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Server) serve(w http.ResponseWriter, req *http.Request) {
	path := chi.URLParam(req, "*")
	s.mu.Lock()
	code, forced := s.status[path]
	data, ok := s.files[path]
	s.mu.Unlock()

	switch {
	case forced:
		w.WriteHeader(code)
	case !ok:
		http.NotFound(w, req)
	default:
		_, _ = w.Write(data)
	}
}

// Put stores data at path together with a matching .sha1 sidecar.
func (s *Server) Put(path string, data []byte) {
	sum := sha1.Sum(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	s.files[path+".sha1"] = []byte(hex.EncodeToString(sum[:]))
}

// PutRaw stores data at path without a sidecar.
func (s *Server) PutRaw(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
}

// Fail makes every request for path answer with code.
func (s *Server) Fail(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = code
}

// SetDelay holds every response for d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Hits returns how many requests path received.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Versions publishes maven-metadata.xml listing versions for ga.
func (s *Server) Versions(ga string, versions ...string) {
	c, err := artifact.ParseGA(ga)
	if err != nil {
		panic(err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<metadata>\n  <groupId>%s</groupId>\n  <artifactId>%s</artifactId>\n  <versioning>\n    <versions>\n",
		c.GroupID, c.ArtifactID)
	for _, v := range versions {
		fmt.Fprintf(&b, "      <version>%s</version>\n", v)
	}
	b.WriteString("    </versions>\n  </versioning>\n</metadata>\n")
	s.Put(c.MetadataPath(), []byte(b.String()))
}

// Jar publishes a jar for coord whose content is its own coordinate string.
func (s *Server) Jar(coord string) artifact.Coordinate {
	c := artifact.MustParseCoordinate(coord)
	s.Put(c.Path(), []byte(c.String()))
	return c
}

// Publish stores the POM of p and a jar for it.
func (s *Server) Publish(p POM) {
	c := artifact.MustParseCoordinate(p.Coordinate)
	s.Put(c.POM().Path(), []byte(p.XML()))
	if p.Packaging == "" || p.Packaging == "jar" {
		s.Put(c.Path(), []byte(c.String()))
	}
}
