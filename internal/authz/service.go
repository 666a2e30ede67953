package authz

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// GrantSource loads the authorization document for a user. Implemented by the
// agents repository; the account record is the single source of truth.
type GrantSource interface {
	GrantFor(ctx context.Context, userID int64) (*Grant, error)
}

// Service resolves grants for request handling. Concurrent lookups for the
// same user collapse into one repository call.
type Service struct {
	source GrantSource
	group  singleflight.Group
}

// NewService constructs a Service over the given source.
func NewService(source GrantSource) *Service {
	return &Service{source: source}
}

// GrantFor returns the grant for userID. Errors propagate so callers can
// distinguish "no capabilities" from "authorization data unavailable". Both
// must gate, but the latter is worth logging.
func (s *Service) GrantFor(ctx context.Context, userID int64) (*Grant, error) {
	v, err, _ := s.group.Do(strconv.FormatInt(userID, 10), func() (any, error) {
		return s.source.GrantFor(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	grant, _ := v.(*Grant)
	return grant, nil
}
