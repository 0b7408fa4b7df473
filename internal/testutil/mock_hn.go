// Package testutil provides a configurable mock Hacker News API server
// for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior of one mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockHN is a mock Hacker News API server. By default it serves an empty
// top-stories listing and JSON null for unknown items; tests override
// paths with SetResponse/SetHandler or register items with SetItem.
type MockHN struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	top      []int
	items    map[int]any

	requestCount int
}

// NewMockHN starts a new mock server. Callers must Close it.
func NewMockHN() *MockHN {
	mock := &MockHN{
		handlers: make(map[string]http.HandlerFunc),
		items:    make(map[int]any),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server base URL.
func (m *MockHN) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockHN) Close() {
	m.server.Close()
}

// RequestCount returns the number of requests served so far.
func (m *MockHN) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// SetTopStories sets the listing returned by /v0/topstories.json.
func (m *MockHN) SetTopStories(ids []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.top = ids
}

// SetItem registers the payload served for /v0/item/<id>.json. The value
// is marshalled as JSON, so tests can pass maps or structs.
func (m *MockHN) SetItem(id int, item any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = item
}

// SetHandler overrides a specific path with a custom handler.
func (m *MockHN) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockHN) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// ItemPath returns the API path for an item id.
func ItemPath(id int) string {
	return fmt.Sprintf("/v0/item/%d.json", id)
}

// defaultHandler mimics the upstream API: the registered listing for
// topstories, the registered payload or JSON null for items, 404 for
// anything else.
func (m *MockHN) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if r.URL.Path == "/v0/topstories.json" {
		m.mu.RLock()
		ids := m.top
		m.mu.RUnlock()
		if ids == nil {
			ids = []int{}
		}
		json.NewEncoder(w).Encode(ids)
		return
	}

	var id int
	if n, err := fmt.Sscanf(r.URL.Path, "/v0/item/%d.json", &id); err == nil && n == 1 {
		m.mu.RLock()
		item, ok := m.items[id]
		m.mu.RUnlock()
		if !ok {
			w.Write([]byte("null"))
			return
		}
		json.NewEncoder(w).Encode(item)
		return
	}

	http.NotFound(w, r)
}

// Story builds a typical story item payload for tests.
func Story(id int, title, url string) map[string]any {
	return map[string]any{
		"id":          id,
		"type":        "story",
		"by":          "tester",
		"time":        time.Now().Add(-time.Hour).Unix(),
		"title":       title,
		"url":         url,
		"score":       100,
		"descendants": 42,
	}
}
