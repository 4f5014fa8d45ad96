package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/org"
)

type organizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type inviteRequest struct {
	UserEmail string `json:"user_email"`
}

type organizationResponse struct {
	OrganizationID string       `json:"organization_id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Members        []org.Member `json:"organization_members"`
}

func toOrganizationResponse(o org.Organization) organizationResponse {
	members := o.Members
	if members == nil {
		members = []org.Member{}
	}
	return organizationResponse{
		OrganizationID: o.ID,
		Name:           o.Name,
		Description:    o.Description,
		Members:        members,
	}
}

func (a *API) handleOrganizationCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createOrganization(w, r)
	case http.MethodGet:
		a.listOrganizations(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleOrganizationResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/organization/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		orgID := parts[0]
		switch r.Method {
		case http.MethodGet:
			a.getOrganization(w, r, orgID)
		case http.MethodPut:
			a.updateOrganization(w, r, orgID)
		case http.MethodDelete:
			a.deleteOrganization(w, r, orgID)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	case len(parts) == 2 && parts[1] == "invite":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.inviteToOrganization(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) createOrganization(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}
	var req organizationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	o, err := a.orgs.Create(r.Context(), identity, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, org.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "organization name or description is missing")
		case errors.Is(err, auth.ErrNotFound):
			writeError(w, r, http.StatusBadRequest, "user doesn't exist")
		default:
			writeError(w, r, http.StatusInternalServerError, "organization creation failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"organization_id": o.ID})
}

func (a *API) getOrganization(w http.ResponseWriter, r *http.Request, orgID string) {
	o, err := a.orgs.Get(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, org.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Organization not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "organization lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, toOrganizationResponse(o))
}

func (a *API) listOrganizations(w http.ResponseWriter, r *http.Request) {
	all, err := a.orgs.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "organization listing failed")
		return
	}
	out := make([]organizationResponse, 0, len(all))
	for _, o := range all {
		out = append(out, toOrganizationResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) updateOrganization(w http.ResponseWriter, r *http.Request, orgID string) {
	if !a.requireOwner(w, r, orgID) {
		return
	}
	var req organizationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	modified, err := a.orgs.UpdateAttributes(r.Context(), orgID, req.Name, req.Description)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "organization update failed")
		return
	}
	if !modified {
		writeMessage(w, http.StatusOK, "organization didn't change")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"organization_id": orgID,
		"name":            req.Name,
		"description":     req.Description,
	})
}

func (a *API) deleteOrganization(w http.ResponseWriter, r *http.Request, orgID string) {
	if !a.requireOwner(w, r, orgID) {
		return
	}
	if err := a.orgs.Delete(r.Context(), orgID); err != nil {
		writeError(w, r, http.StatusInternalServerError, "organization deletion failed")
		return
	}
	writeMessage(w, http.StatusOK, "organization deleted successfully")
}

func (a *API) inviteToOrganization(w http.ResponseWriter, r *http.Request, orgID string) {
	if !a.requireOwner(w, r, orgID) {
		return
	}
	var req inviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	m, err := a.orgs.Invite(r.Context(), orgID, req.UserEmail)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound), errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusNotFound, "user with this email doesn't exist")
		case errors.Is(err, org.ErrNotFound):
			writeError(w, r, http.StatusBadRequest, "Organization doesn't exist")
		default:
			writeError(w, r, http.StatusInternalServerError, "invite failed")
		}
		return
	}
	writeMessage(w, http.StatusCreated, fmt.Sprintf("%s has been invited successfully to the organization !", m.Email))
}

// requireOwner runs the owner-only mutation gate. A missing organization is
// reported as a 400 here, unlike the 404 of a direct lookup; the asymmetry is
// part of the observed API contract.
func (a *API) requireOwner(w http.ResponseWriter, r *http.Request, orgID string) bool {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return false
	}
	if err := a.orgs.Authorize(r.Context(), orgID, identity); err != nil {
		switch {
		case errors.Is(err, org.ErrNotFound):
			writeError(w, r, http.StatusBadRequest, "Organization doesn't exist")
		case errors.Is(err, org.ErrForbidden):
			writeError(w, r, http.StatusForbidden, "invited users and non-members have read-only access to this organization")
		default:
			writeError(w, r, http.StatusInternalServerError, "authorization failed")
		}
		return false
	}
	return true
}
