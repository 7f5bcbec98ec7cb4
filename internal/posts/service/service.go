// Package service exposes the catalog operations screens fetch through:
// feeds, search, profiles, and account lifecycle. Every operation
// normalizes backend failures into errors safe to show the user; raw
// detail only reaches the log.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vidora/vidora/internal/posts/models"
	"github.com/vidora/vidora/internal/store"
)

const (
	latestPostsLimit = 7
	createdAtField   = "createdAt"
)

type Service struct {
	store            store.Store
	usersCollection  string
	videosCollection string
	logger           zerolog.Logger
}

func New(st store.Store, usersCollection, videosCollection string, logger zerolog.Logger) *Service {
	return &Service{
		store:            st,
		usersCollection:  usersCollection,
		videosCollection: videosCollection,
		logger:           logger.With().Str("component", "posts").Logger(),
	}
}

// SignUp creates the account, opens a session, and writes the profile
// document the rest of the app reads.
func (s *Service) SignUp(ctx context.Context, email, password, username string) (*models.UserProfile, error) {
	if email == "" || password == "" || username == "" {
		return nil, fmt.Errorf("missing sign-up fields: %w", models.ErrValidation)
	}

	acct, err := s.store.CreateAccount(ctx, email, password, username)
	if err != nil {
		return nil, s.fail("sign_up", "Failed to sign up. Please try again later.", err)
	}

	if _, err := s.store.CreateSession(ctx, email, password); err != nil {
		return nil, s.fail("sign_up", "Failed to sign up. Please try again later.", err)
	}

	doc, err := s.store.CreateDocument(ctx, s.usersCollection, map[string]any{
		models.FieldAccountID: acct.ID.String(),
		models.FieldEmail:     email,
		models.FieldUsername:  username,
		models.FieldAvatar:    initialsAvatar(username),
	})
	if err != nil {
		return nil, s.fail("sign_up", "Failed to sign up. Please try again later.", err)
	}

	profile, err := models.ProfileFromDocument(doc)
	if err != nil {
		return nil, s.fail("sign_up", "Failed to sign up. Please try again later.", err)
	}
	return &profile, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*store.Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("missing credentials: %w", models.ErrValidation)
	}

	sess, err := s.store.CreateSession(ctx, email, password)
	if err != nil {
		return nil, s.fail("sign_in", "Failed to sign in. Please check your credentials and try again.", err)
	}
	return &sess, nil
}

func (s *Service) SignOut(ctx context.Context) error {
	if err := s.store.DeleteSession(ctx); err != nil {
		return s.fail("sign_out", "Failed to sign out. Please try again later.", err)
	}
	return nil
}

// CurrentUser resolves the authenticated account's profile document.
func (s *Service) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	acct, err := s.store.CurrentAccount(ctx)
	if err != nil {
		return nil, s.fail("current_user", "An error occurred while fetching the current user.", err)
	}

	docs, err := s.store.ListDocuments(ctx, s.usersCollection, store.Query{
		Equal: map[string]string{models.FieldAccountID: acct.ID.String()},
	})
	if err != nil {
		return nil, s.fail("current_user", "An error occurred while fetching the current user.", err)
	}
	if len(docs) == 0 {
		s.logger.Warn().Str("account_id", acct.ID.String()).Msg("no profile document for account")
		return nil, fmt.Errorf("no profile for the current account: %w", store.ErrNotFound)
	}

	profile, err := models.ProfileFromDocument(docs[0])
	if err != nil {
		return nil, s.fail("current_user", "An error occurred while fetching the current user.", err)
	}
	return &profile, nil
}

func (s *Service) AllPosts(ctx context.Context) ([]models.VideoPost, error) {
	return s.listPosts(ctx, store.Query{OrderDescBy: createdAtField})
}

func (s *Service) LatestPosts(ctx context.Context) ([]models.VideoPost, error) {
	return s.listPosts(ctx, store.Query{OrderDescBy: createdAtField, Limit: latestPostsLimit})
}

func (s *Service) SearchPosts(ctx context.Context, query string) ([]models.VideoPost, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query: %w", models.ErrValidation)
	}
	return s.listPosts(ctx, store.Query{
		Search: map[string]string{models.FieldTitle: query},
	})
}

func (s *Service) UserPosts(ctx context.Context, creatorID uuid.UUID) ([]models.VideoPost, error) {
	if creatorID == uuid.Nil {
		return nil, fmt.Errorf("missing creator id: %w", models.ErrValidation)
	}
	return s.listPosts(ctx, store.Query{
		Equal:       map[string]string{models.FieldCreator: creatorID.String()},
		OrderDescBy: createdAtField,
	})
}

func (s *Service) listPosts(ctx context.Context, q store.Query) ([]models.VideoPost, error) {
	docs, err := s.store.ListDocuments(ctx, s.videosCollection, q)
	if err != nil {
		return nil, s.fail("list_posts", "An error occurred while fetching posts.", err)
	}

	posts := make([]models.VideoPost, 0, len(docs))
	for _, doc := range docs {
		post, err := models.PostFromDocument(doc)
		if err != nil {
			// A malformed record must not take the whole feed down.
			s.logger.Warn().Err(err).Str("document_id", doc.ID.String()).Msg("skipping malformed post document")
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// fail logs the raw error and returns one carrying only a user-safe
// message, preserving the sentinel for errors.Is at the call site.
func (s *Service) fail(op, userMsg string, err error) error {
	s.logger.Error().Err(err).Str("op", op).Msg("backend call failed")
	for _, sentinel := range []error{
		store.ErrNotAuthenticated,
		store.ErrNotFound,
		store.ErrConflict,
		store.ErrInvalidArgument,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%s: %w", userMsg, sentinel)
		}
	}
	return fmt.Errorf("%s: %w", userMsg, store.ErrNetwork)
}

func initialsAvatar(username string) string {
	return "/v1/avatars/initials?name=" + url.QueryEscape(username)
}
