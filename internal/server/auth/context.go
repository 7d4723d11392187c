package auth

import "context"

type ctxKey string

const userIDKey ctxKey = "userID"

// WithUserID returns a context carrying the verified subject id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom returns the subject id stored by WithUserID.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(userIDKey).(string)
	return id, id != ""
}
