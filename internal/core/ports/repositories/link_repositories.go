package repositories

import (
	"context"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
)

// LinkRegistry resolves the ownership/assignment facts of a link target. It is
// strictly read-only: a ledger operation never mutates the linked entity.
type LinkRegistry interface {
	// ResolveLink looks up the entity behind target and returns who owns it and
	// which agent (if any) is assigned to it. Returns apperrors.ErrNotFound when
	// no entity of that kind exists with that id. Resolving LinkNone is a no-op
	// returning nil facts.
	ResolveLink(ctx context.Context, target domain.LinkTarget) (*domain.LinkFacts, error)
}
