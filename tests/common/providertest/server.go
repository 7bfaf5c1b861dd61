//go:build unit || e2e

// Package providertest runs an in-memory stand-in for the hosted row-store
// provider on httptest, close enough for repository tests: JSON rows in
// named collections, equality filters, limit/offset paging, anonymous auth,
// and scriptable failures.
package providertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type failure struct {
	method     string
	collection string
	remaining  int
	status     int
}

type Server struct {
	mu        sync.Mutex
	rows      map[string]map[string]map[string]any
	listCalls map[string]int
	failures  []failure
	sessions  int
	srv       *httptest.Server
}

func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		rows:      make(map[string]map[string]map[string]any),
		listCalls: make(map[string]int),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

// Seed stores a row, marshalling through JSON so builders' row structs and
// the wire representation stay in sync.
func (s *Server) Seed(t *testing.T, collection, id string, row any) {
	t.Helper()
	payload, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("seed %s/%s: %v", collection, id, err)
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("seed %s/%s: %v", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows[collection] == nil {
		s.rows[collection] = make(map[string]map[string]any)
	}
	s.rows[collection][id] = m
}

func (s *Server) Row(collection, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[collection][id]
	return row, ok
}

func (s *Server) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[collection])
}

// CountWhere counts rows whose field stringifies to the given value.
func (s *Server) CountWhere(collection, field, value string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows[collection] {
		if fmt.Sprint(row[field]) == value {
			n++
		}
	}
	return n
}

func (s *Server) ListCalls(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls[collection]
}

// FailNext makes the next `times` requests matching method+collection fail
// with the given status. Matching rules are consumed in registration order.
func (s *Server) FailNext(method, collection string, times, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{
		method:     method,
		collection: collection,
		remaining:  times,
		status:     status,
	})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Path == "/v1/auth/anonymous" {
		s.mu.Lock()
		s.sessions++
		n := s.sessions
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"token":   fmt.Sprintf("guest-token-%d", n),
			"user_id": fmt.Sprintf("guest-%d", n),
		})
		return
	}

	collection, id, ok := splitRowPath(r.URL.Path)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown path"})
		return
	}

	if status, failed := s.consumeFailure(r.Method, collection); failed {
		writeJSON(w, status, map[string]any{"error": "injected failure"})
		return
	}

	switch {
	case r.Method == http.MethodGet && id == "":
		s.list(w, r, collection)
	case r.Method == http.MethodGet:
		s.get(w, collection, id)
	case r.Method == http.MethodPut:
		s.put(w, r, collection, id)
	case r.Method == http.MethodPatch:
		s.patch(w, r, collection, id)
	case r.Method == http.MethodDelete:
		s.delete(w, collection, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
	}
}

func (s *Server) consumeFailure(method, collection string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.failures {
		f := &s.failures[i]
		if f.remaining > 0 && f.method == method && f.collection == collection {
			f.remaining--
			return f.status, true
		}
	}
	return 0, false
}

func (s *Server) get(w http.ResponseWriter, collection, id string) {
	s.mu.Lock()
	row, ok := s.rows[collection][id]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "row not found"})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, collection string) {
	query := r.URL.Query()
	order := query.Get("order")
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	s.mu.Lock()
	s.listCalls[collection]++
	matched := make([]map[string]any, 0)
	for _, row := range s.rows[collection] {
		if rowMatches(row, query) {
			matched = append(matched, row)
		}
	}
	s.mu.Unlock()

	// Deterministic order: requested field first, id as tie-breaker.
	sort.Slice(matched, func(i, j int) bool {
		if order != "" {
			a, b := fmt.Sprint(matched[i][order]), fmt.Sprint(matched[j][order])
			if a != b {
				return a < b
			}
		}
		return fmt.Sprint(matched[i]["id"]) < fmt.Sprint(matched[j]["id"])
	})

	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{"rows": matched})
}

func (s *Server) put(w http.ResponseWriter, r *http.Request, collection, id string) {
	var row map[string]any
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed body"})
		return
	}

	s.mu.Lock()
	if s.rows[collection] == nil {
		s.rows[collection] = make(map[string]map[string]any)
	}
	s.rows[collection][id] = row
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, row)
}

func (s *Server) patch(w http.ResponseWriter, r *http.Request, collection, id string) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed body"})
		return
	}

	s.mu.Lock()
	row, ok := s.rows[collection][id]
	if ok {
		for k, v := range fields {
			row[k] = v
		}
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "row not found"})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) delete(w http.ResponseWriter, collection, id string) {
	s.mu.Lock()
	_, ok := s.rows[collection][id]
	if ok {
		delete(s.rows[collection], id)
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "row not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func splitRowPath(path string) (collection, id string, ok bool) {
	const prefix = "/v1/collections/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 2 && parts[1] == "rows":
		return parts[0], "", true
	case len(parts) == 3 && parts[1] == "rows":
		return parts[0], parts[2], true
	default:
		return "", "", false
	}
}

func rowMatches(row map[string]any, query map[string][]string) bool {
	for field, values := range query {
		if field == "order" || field == "limit" || field == "offset" {
			continue
		}
		if len(values) == 0 {
			continue
		}
		if fmt.Sprint(row[field]) != values[0] {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
