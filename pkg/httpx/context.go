package httpx

type ctxKey int

const (
	// CtxKeyEmail carries the authenticated user's email.
	CtxKeyEmail ctxKey = iota

	// CtxKeyRole carries the authenticated user's role.
	CtxKeyRole

	// CtxKeyClaims carries the full verified claim set.
	CtxKeyClaims
)
