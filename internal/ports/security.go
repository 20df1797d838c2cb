package ports

type AuthClaims struct {
	UserID string
	Email  string
	Role   string
}

type TokenVerifier interface {
	Verify(raw string) (AuthClaims, error)
}
