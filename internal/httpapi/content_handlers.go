package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"parlor.chat/internal/guard"
	"parlor.chat/internal/schema"
)

const sessionCookie = "parlor_session"

type redeemRequest struct {
	LicenseKey string `json:"licenseKey"`
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

func (a *API) handleRedeemLicense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.allowWrite(w, r) {
		return
	}
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "authentication failed", err.Error())
		return
	}
	var req redeemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	lic, err := a.admin.RedeemLicense(r.Context(), token, req.LicenseKey)
	a.observe("redeem_license", err)
	if err != nil {
		handleAdminError(w, r, err)
		return
	}

	actor := ""
	if lic.UsedBy != nil {
		actor = *lic.UsedBy
	}
	a.audit(r.Context(), actor, "license.redeem", map[string]any{
		"plan": string(lic.Plan),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "license redeemed",
		"plan":    lic.Plan,
	})
}

func (a *API) handleRenderContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "authentication failed", err.Error())
		return
	}
	if _, err := a.admin.Authenticate(r.Context(), token); err != nil {
		handleAdminError(w, r, err)
		return
	}
	var req renderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	md, err := schema.Markdown.Validate(req.Markdown)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"html":    a.renderer.Render(md),
	})
}

// handleCSRFToken mints a per-session token. The session rides a cookie;
// a new session is created when the cookie is absent.
func (a *API) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	sessionID := ""
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		sessionID = c.Value
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}

	token, err := guard.NewCSRFToken()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error", "")
		return
	}
	a.sessions.Put(sessionID, token)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"csrfToken": token,
	})
}
