// Package search routes validated query submissions. It never performs
// network I/O itself; it only changes navigation or parameter state that
// the search view's resource observes.
package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vidora/vidora/internal/nav"
	"github.com/vidora/vidora/internal/notify"
	"github.com/vidora/vidora/internal/posts/models"
)

const (
	searchPath = "/search"
	// QueryParam is the search view's parameter the router mutates in
	// place when the user is already there.
	QueryParam = "query"
)

type Router struct {
	navigator nav.Navigator
	notifier  notify.Notifier

	mu    sync.Mutex
	query string
}

// New seeds the editable query from initialQuery, which may be empty.
func New(navigator nav.Navigator, notifier notify.Notifier, initialQuery string) *Router {
	return &Router{
		navigator: navigator,
		notifier:  notifier,
		query:     initialQuery,
	}
}

func (r *Router) SetQuery(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query = q
}

func (r *Router) Query() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query
}

// Submit dispatches the current query. Empty or whitespace-only queries
// are rejected before any navigation or parameter change. On the search
// view the query parameter is mutated in place, triggering a refetch via
// the resource's rebind path; anywhere else, Submit navigates to the
// search view.
func (r *Router) Submit() error {
	r.mu.Lock()
	q := strings.TrimSpace(r.query)
	r.mu.Unlock()

	if q == "" {
		r.notifier.Error("Missing query", "Please input something to search results across database")
		return fmt.Errorf("empty query: %w", models.ErrValidation)
	}

	path := r.navigator.CurrentPath()
	if path == searchPath || strings.HasPrefix(path, searchPath+"/") {
		r.navigator.SetParam(QueryParam, q)
		return nil
	}

	r.navigator.Push(searchPath + "/" + q)
	return nil
}
