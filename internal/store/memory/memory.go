// Package memory implements the backend contract in process, for tests
// and local development.
package memory

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidora/vidora/internal/store"
)

type account struct {
	store.Account
	password string
}

type file struct {
	ref  store.FileRef
	data []byte
}

type Store struct {
	mu      sync.RWMutex
	clock   func() time.Time
	idGen   func() uuid.UUID
	baseURL string

	accounts    map[uuid.UUID]account
	byEmail     map[string]uuid.UUID
	session     *store.Session
	collections map[string][]store.Document
	files       map[uuid.UUID]file
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		clock:       time.Now,
		idGen:       uuid.New,
		baseURL:     "memory://files",
		accounts:    make(map[uuid.UUID]account),
		byEmail:     make(map[string]uuid.UUID),
		collections: make(map[string][]store.Document),
		files:       make(map[uuid.UUID]file),
	}
}

func (s *Store) CreateAccount(ctx context.Context, email, password, name string) (store.Account, error) {
	if err := ctx.Err(); err != nil {
		return store.Account{}, err
	}
	if email == "" || password == "" || name == "" {
		return store.Account{}, store.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return store.Account{}, store.ErrConflict
	}
	acct := account{
		Account:  store.Account{ID: s.idGen(), Email: email, Name: name},
		password: password,
	}
	s.accounts[acct.ID] = acct
	s.byEmail[email] = acct.ID
	return acct.Account, nil
}

func (s *Store) CreateSession(ctx context.Context, email, password string) (store.Session, error) {
	if err := ctx.Err(); err != nil {
		return store.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok || s.accounts[id].password != password {
		return store.Session{}, store.ErrNotAuthenticated
	}
	sess := store.Session{
		ID:        s.idGen(),
		AccountID: id,
		Token:     s.idGen().String(),
		CreatedAt: s.clock(),
	}
	s.session = &sess
	return sess, nil
}

func (s *Store) DeleteSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return store.ErrNotAuthenticated
	}
	s.session = nil
	return nil
}

func (s *Store) CurrentAccount(ctx context.Context) (store.Account, error) {
	if err := ctx.Err(); err != nil {
		return store.Account{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return store.Account{}, store.ErrNotAuthenticated
	}
	return s.accounts[s.session.AccountID].Account, nil
}

// SessionFor validates a session token, for the dev backend's account
// endpoint.
func (s *Store) SessionFor(token string) (store.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil || s.session.Token != token {
		return store.Session{}, false
	}
	return *s.session, true
}

func (s *Store) CreateDocument(ctx context.Context, collection string, fields map[string]any) (store.Document, error) {
	if err := ctx.Err(); err != nil {
		return store.Document{}, err
	}
	if collection == "" {
		return store.Document{}, store.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	doc := store.Document{
		ID:         s.idGen(),
		Collection: collection,
		Fields:     cp,
		CreatedAt:  s.clock(),
	}
	s.collections[collection] = append(s.collections[collection], doc)
	return copyDocument(doc), nil
}

// copyDocument detaches the Fields map so callers cannot mutate stored
// state through a returned document.
func copyDocument(doc store.Document) store.Document {
	cp := make(map[string]any, len(doc.Fields))
	for k, v := range doc.Fields {
		cp[k] = v
	}
	doc.Fields = cp
	return doc
}

func (s *Store) ListDocuments(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if collection == "" {
		return nil, store.ErrInvalidArgument
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Document
	for _, doc := range s.collections[collection] {
		if matches(doc, q) {
			out = append(out, copyDocument(doc))
		}
	}
	if q.OrderDescBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(doc store.Document, q store.Query) bool {
	for k, want := range q.Equal {
		got, _ := doc.Fields[k].(string)
		if got != want {
			return false
		}
	}
	for k, term := range q.Search {
		got, _ := doc.Fields[k].(string)
		if !strings.Contains(strings.ToLower(got), strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func (s *Store) UploadFile(ctx context.Context, r io.Reader, size int64, contentType string) (store.FileRef, error) {
	if err := ctx.Err(); err != nil {
		return store.FileRef{}, err
	}
	if contentType == "" {
		return store.FileRef{}, store.ErrInvalidArgument
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return store.FileRef{}, fmt.Errorf("read upload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ref := store.FileRef{ID: s.idGen(), ContentType: contentType, SizeBytes: int64(len(data))}
	s.files[ref.ID] = file{ref: ref, data: data}
	return ref, nil
}

func (s *Store) FileURL(ref store.FileRef, variant store.Variant) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.files[ref.ID]; !ok {
		return "", store.ErrNotFound
	}
	switch variant {
	case store.VariantRaw:
		return fmt.Sprintf("%s/%s/view", s.baseURL, ref.ID), nil
	case store.VariantPreviewResized:
		return fmt.Sprintf("%s/%s/preview", s.baseURL, ref.ID), nil
	default:
		return "", store.ErrInvalidArgument
	}
}

// FileData returns a stored blob, for assertions in tests.
func (s *Store) FileData(id uuid.UUID) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.data...), true
}
