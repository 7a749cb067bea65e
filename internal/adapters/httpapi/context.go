package httpapi

import "context"

type ctxKeySubject struct{}

// WithSubject attaches the authenticated subject to the request context.
// Only the auth middlewares call this.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySubject{}, sub)
}

// SubjectFromContext returns the subject the auth middleware stored.
// An empty subject reads as absent.
func SubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(ctxKeySubject{}).(string)
	if !ok || sub == "" {
		return "", false
	}
	return sub, true
}
