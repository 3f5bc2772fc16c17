package session

import (
	"context"

	pkgredis "github.com/afigueroa/mailprov-backend/pkg/redis"
)

// Checker answers whether a session id still has a live entry in the session
// store maintained by the auth collaborator.
type Checker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

type store struct {
	client *pkgredis.Client
}

// NewChecker wraps the redis-backed session store.
func NewChecker(client *pkgredis.Client) Checker {
	return &store{client: client}
}

func (s *store) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return s.client.Exists(ctx, pkgredis.SessionKey(sessionID))
}
