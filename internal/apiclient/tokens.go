package apiclient

import "context"

// Session keys shared by every TokenStore implementation.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// TokenStore persists the credentials of one signed-in operator.
type TokenStore interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

type tokensContextKey struct{}

// ContextWithTokens binds the store used to authenticate calls made with ctx.
func ContextWithTokens(ctx context.Context, store TokenStore) context.Context {
	return context.WithValue(ctx, tokensContextKey{}, store)
}

// TokensFromContext returns the store bound to ctx, or nil.
func TokensFromContext(ctx context.Context) TokenStore {
	store, _ := ctx.Value(tokensContextKey{}).(TokenStore)
	return store
}

// ClearSession removes every persisted session key.
func ClearSession(store TokenStore) {
	if store == nil {
		return
	}
	store.Delete(KeyToken)
	store.Delete(KeyRefreshToken)
	store.Delete(KeyUser)
}

// MemoryStore is an in-process TokenStore.
type MemoryStore map[string]string

// Get implements TokenStore.
func (m MemoryStore) Get(key string) string { return m[key] }

// Set implements TokenStore.
func (m MemoryStore) Set(key, value string) { m[key] = value }

// Delete implements TokenStore.
func (m MemoryStore) Delete(key string) { delete(m, key) }
