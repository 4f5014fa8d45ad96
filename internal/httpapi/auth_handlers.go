package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/obs"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "missing credentials")
		case errors.Is(err, auth.ErrConflict):
			writeError(w, r, http.StatusBadRequest, "email already exists")
		default:
			writeError(w, r, http.StatusInternalServerError, "signup failed")
		}
		return
	}
	writeMessage(w, http.StatusCreated, fmt.Sprintf("user with email %s created successfully", user.Email))
}

func (a *API) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "missing credentials")
		return
	}
	user, err := a.accounts.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			writeError(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "signin failed")
		return
	}
	a.writeTokenPair(w, r, user.Email)
}

// handleRefreshToken exchanges a valid, non-revoked refresh token for a fresh
// pair. The presented refresh token stays valid until it expires or is
// explicitly revoked; exchanging it does not retire it.
func (a *API) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	claims, err := a.refreshClaims(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	revoked, err := a.revocations.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "revocation check failed")
		return
	}
	if revoked {
		writeError(w, r, http.StatusBadRequest, "Refresh token is revoked !")
		return
	}
	a.writeTokenPair(w, r, claims.Subject)
}

func (a *API) handleRevokeRefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	claims, err := a.refreshClaims(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	if err := a.revocations.Revoke(r.Context(), claims.ID); err != nil {
		writeError(w, r, http.StatusInternalServerError, "revocation failed")
		return
	}
	obs.CountTokenRevoked()
	writeMessage(w, http.StatusOK, "refresh token is revoked successfully")
}

func (a *API) writeTokenPair(w http.ResponseWriter, r *http.Request, identity string) {
	pair, err := a.issuer.IssuePair(identity)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}
	obs.CountTokenIssued(auth.TokenKindAccess)
	obs.CountTokenIssued(auth.TokenKindRefresh)

	w.Header().Set(authHeader, bearer+pair.AccessToken)
	writeJSON(w, http.StatusOK, tokenPairResponse{
		Message:      "Login successful",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
