package auth

import "context"

type ctxKey string

const (
	userContextKey    ctxKey = "gestapp.auth.user"
	sessionContextKey ctxKey = "gestapp.auth.session"
)

func withUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func withSessionContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func UserFromContext(ctx context.Context) (User, bool) {
	v := ctx.Value(userContextKey)
	u, ok := v.(User)
	return u, ok
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	v := ctx.Value(sessionContextKey)
	s, ok := v.(Session)
	return s, ok
}

// ContextWithUser is exported for handler tests that need a signed-in
// request without running the full OTP flow.
func ContextWithUser(ctx context.Context, u User) context.Context {
	return withUserContext(ctx, u)
}
