package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kalambet/careernav/internal/api"
	"github.com/kalambet/careernav/internal/auth"
	"github.com/kalambet/careernav/internal/config"
	"github.com/kalambet/careernav/internal/storage"
)

var (
	saveToken  = config.SetAPIToken
	clearToken = config.ClearAPIToken
	now        = time.Now
)

// newAPIClient builds a client from the loaded config. Commands that act on
// the user's data pass requireToken so an absent or expired token fails
// before any request is sent.
var newAPIClient = func(requireToken bool) (*api.Client, error) {
	token := appConfig.API.Token
	if requireToken {
		if err := auth.CheckToken(token, now()); err != nil {
			if errors.Is(err, auth.ErrNoToken) || errors.Is(err, auth.ErrTokenExpired) {
				return nil, fmt.Errorf("%w; run `careernav login` first", err)
			}
			return nil, err
		}
	}

	return api.New(appConfig.API.BaseURL, token,
		api.WithHTTPClient(&http.Client{Timeout: appConfig.API.TimeoutDuration()}),
		api.WithRateLimit(appConfig.API.RateLimit),
	), nil
}

var openStore = func() (*storage.Store, error) {
	store, err := storage.Open(appConfig.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return store, nil
}

// currentUserID asks the API who owns the configured token. Local history
// and drafts are keyed by this ID.
func currentUserID(ctx context.Context, client *api.Client) (int, error) {
	u, err := client.Profile(ctx)
	if err != nil {
		return 0, fmt.Errorf("identifying current user: %w", err)
	}
	return u.ID, nil
}
