package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"parlor.chat/internal/admin"
)

type verifyRequest struct {
	IDToken string `json:"idToken"`
}

type banUserRequest struct {
	IDToken  string `json:"idToken"`
	UserID   string `json:"userId"`
	Reason   string `json:"reason"`
	Duration int64  `json:"duration"`
}

type banIPRequest struct {
	IDToken  string `json:"idToken"`
	IP       string `json:"ip"`
	Reason   string `json:"reason"`
	Duration int64  `json:"duration"`
}

type createLicenseRequest struct {
	Plan         string `json:"plan"`
	ValidityDays int    `json:"validityDays"`
}

func (a *API) handleVerifyAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	uid, err := a.admin.VerifyAdmin(r.Context(), req.IDToken)
	a.observe("verify_admin", err)
	if err != nil {
		handleAdminError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"adminUid": uid,
	})
}

func (a *API) handleBanUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.allowWrite(w, r) {
		return
	}
	var req banUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	ban, err := a.admin.BanUser(r.Context(), req.IDToken, admin.BanUserInput{
		UserID:   req.UserID,
		Reason:   req.Reason,
		Duration: req.Duration,
	})
	a.observe("ban_user", err)
	if err != nil {
		handleAdminError(w, r, err)
		return
	}

	a.audit(r.Context(), ban.BannedBy, "admin.user.ban", map[string]any{
		"ban_id":   ban.ID,
		"user_id":  ban.UserID,
		"duration": strconv.FormatInt(ban.Duration, 10),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "user banned",
		"ban":     ban,
	})
}

func (a *API) handleBanIP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.allowWrite(w, r) {
		return
	}
	var req banIPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	ban, err := a.admin.BanIP(r.Context(), req.IDToken, admin.BanIPInput{
		IP:       req.IP,
		Reason:   req.Reason,
		Duration: req.Duration,
	})
	a.observe("ban_ip", err)
	if err != nil {
		handleAdminError(w, r, err)
		return
	}

	a.audit(r.Context(), ban.BannedBy, "admin.ip.ban", map[string]any{
		"ban_id":   ban.ID,
		"ip":       ban.IP,
		"duration": strconv.FormatInt(ban.Duration, 10),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "ip banned",
		"ban":     ban,
	})
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "authentication failed", err.Error())
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), 0, 1, 1000)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	users, err := a.admin.ListUsers(r.Context(), token, limit)
	a.observe("list_users", err)
	if err != nil {
		handleAdminError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
	})
}

func (a *API) handleListBans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "authentication failed", err.Error())
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), 0, 1, 1000)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	bans, err := a.admin.ListBans(r.Context(), token, limit)
	a.observe("list_bans", err)
	if err != nil {
		handleAdminError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"bans":    bans,
	})
}

func (a *API) handleCreateLicense(w http.ResponseWriter, r *http.Request) {
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
	var req createLicenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	lic, err := a.admin.CreateLicense(r.Context(), token, admin.CreateLicenseInput{
		Plan:         req.Plan,
		ValidityDays: req.ValidityDays,
	})
	a.observe("create_license", err)
	if err != nil {
		handleAdminError(w, r, err)
		return
	}

	a.audit(r.Context(), lic.CreatedBy, "admin.license.create", map[string]any{
		"plan":          string(lic.Plan),
		"validity_days": strconv.Itoa(lic.ValidityDays),
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"licenseKey": lic.Key,
		"license":    lic,
	})
}

// handleEvents streams audit entries over SSE to a verified admin.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.events == nil {
		writeError(w, r, http.StatusServiceUnavailable, "streaming disabled", "")
		return
	}
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "authentication failed", err.Error())
		return
	}
	if _, err := a.admin.VerifyAdmin(r.Context(), token); err != nil {
		handleAdminError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch := a.events.Subscribe(ctx)

	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	for entry := range ch {
		payload, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}

// allowWrite enforces the per-IP fixed-window budget on mutating admin
// endpoints. The token-bucket middleware still applies on top.
func (a *API) allowWrite(w http.ResponseWriter, r *http.Request) bool {
	if a.writeGuard == nil {
		return true
	}
	if a.writeGuard.Allow("write:" + clientIP(r)) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded", "write budget exhausted")
	return false
}
