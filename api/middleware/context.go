package middleware

import (
	"context"

	"github.com/angelmondragon/bottle-amigo/internal/router"
)

type contextKey string

const (
	ctxNavigator contextKey = "navigator"
	ctxScope     contextKey = "page_scope"
)

// WithNavigator attaches the session's navigator.
func WithNavigator(ctx context.Context, nav *router.Navigator) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxNavigator, nav)
}

func NavigatorFromContext(ctx context.Context) *router.Navigator {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxNavigator).(*router.Navigator); ok {
		return v
	}
	return nil
}

// WithScope attaches the scope of the page mounted by this request.
func WithScope(ctx context.Context, scope *router.Scope) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxScope, scope)
}

func ScopeFromContext(ctx context.Context) *router.Scope {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxScope).(*router.Scope); ok {
		return v
	}
	return nil
}
