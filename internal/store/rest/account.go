package rest

import (
	"context"
	"net/http"

	"github.com/vidora/vidora/internal/store"
)

func (c *Client) CreateAccount(ctx context.Context, email, password, name string) (store.Account, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}{Email: email, Password: password, Name: name}

	var dto accountDTO
	if err := c.doJSON(ctx, http.MethodPost, "/account", req, &dto); err != nil {
		return store.Account{}, err
	}
	return store.Account{ID: dto.ID, Email: dto.Email, Name: dto.Name}, nil
}

func (c *Client) CreateSession(ctx context.Context, email, password string) (store.Session, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var dto sessionDTO
	if err := c.doJSON(ctx, http.MethodPost, "/account/sessions", req, &dto); err != nil {
		return store.Session{}, err
	}

	c.setSession(dto.Token)
	return store.Session{
		ID:        dto.ID,
		AccountID: dto.AccountID,
		Token:     dto.Token,
		CreatedAt: dto.CreatedAt,
	}, nil
}

func (c *Client) DeleteSession(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/account/sessions/current", nil, nil); err != nil {
		return err
	}
	c.setSession("")
	return nil
}

func (c *Client) CurrentAccount(ctx context.Context) (store.Account, error) {
	if c.sessionToken() == "" {
		return store.Account{}, store.ErrNotAuthenticated
	}

	var dto accountDTO
	if err := c.doJSON(ctx, http.MethodGet, "/account", nil, &dto); err != nil {
		return store.Account{}, err
	}
	return store.Account{ID: dto.ID, Email: dto.Email, Name: dto.Name}, nil
}
