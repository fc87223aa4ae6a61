package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

type sessionKey string

const (
	SessionKeyCounter       = sessionKey("counter")
	SessionKeyUpstreamToken = sessionKey("upstreamToken")
)

func (s sessionKey) String() string {
	return string(s)
}

func (app *application) sessionID(r *http.Request) string {
	return app.sessionManager.Token(r.Context())
}

func (app *application) upstreamToken(r *http.Request) string {
	return app.sessionManager.GetString(r.Context(), SessionKeyUpstreamToken.String())
}

func (app *application) clearUpstreamToken(r *http.Request) {
	app.sessionManager.Remove(r.Context(), SessionKeyUpstreamToken.String())
}

// loadFlow fetches the session's flow state, creating an empty one when the
// session has none yet.
func (app *application) loadFlow(ctx context.Context, sessionID string) (*domain.Flow, error) {
	flow, err := app.flowStore.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrFlowNotFound) {
			return domain.NewFlow(sessionID), nil
		}
		return nil, err
	}

	return flow, nil
}

// requireFlow is loadFlow without the implicit create; used by handlers that
// are meaningless before a showing was ever selected.
func (app *application) requireFlow(ctx context.Context, sessionID string) (*domain.Flow, error) {
	return app.flowStore.Get(ctx, sessionID)
}
