package api

import (
	"context"

	"github.com/rpupo63/inventory-catalog/auth"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the acting identity to the context
func ctxWithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// identityFromCtx returns the identity set by the auth middleware, or the anonymous
// identity when there is none
func identityFromCtx(ctx context.Context) auth.Identity {
	identity, _ := ctx.Value(identityKey).(auth.Identity)
	return identity
}
