package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"orgdesk.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Paths that never require an access token. The refresh and revoke endpoints
// authenticate their refresh token inside the handler instead.
var publicPaths = []string{
	"/signup",
	"/signin",
	"/refresh-token",
	"/revoke-refresh-token",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

// withAuth validates the access token on protected paths and stores the
// caller identity in the request context.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		claims, err := a.issuer.Validate(token, auth.TokenKindAccess)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := auth.ContextWithIdentity(r.Context(), claims.Subject)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// refreshClaims extracts and validates the refresh token presented on the
// request, without consulting the revocation ledger.
func (a *API) refreshClaims(r *http.Request) (*auth.Claims, error) {
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return nil, err
	}
	claims, err := a.issuer.Validate(token, auth.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
