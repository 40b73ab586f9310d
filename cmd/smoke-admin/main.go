package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"parlor.chat/internal/identity"
)

// Smoke-checks a running parlor-api started with PARLOR_AUTH_MODE=jwt and
// a seeded admin account (see migrations/seeds). Exercises verify, license
// issuance and the user listing end to end.
func main() {
	base := os.Getenv("PARLOR_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	secret := os.Getenv("PARLOR_AUTH_SECRET")
	if secret == "" {
		log.Fatal("PARLOR_AUTH_SECRET is required")
	}
	adminUID := os.Getenv("PARLOR_SMOKE_ADMIN_UID")
	if adminUID == "" {
		adminUID = "devadmin0000000000000001"
	}

	token, err := identity.SignLocalToken(secret, adminUID, "admin@parlor.local", 5*time.Minute)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}

	verify := postJSON(client, base+"/v1/admin/verify", map[string]any{"idToken": token}, "")
	if verify["adminUid"] != adminUID {
		log.Fatalf("verify returned %v, want %s", verify["adminUid"], adminUID)
	}

	lic := postJSON(client, base+"/v1/admin/licenses", map[string]any{
		"plan":         "Classic",
		"validityDays": 7,
	}, token)
	key, _ := lic["licenseKey"].(string)
	if key == "" {
		log.Fatalf("license issuance returned no key: %v", lic)
	}

	req, err := http.NewRequest(http.MethodGet, base+"/v1/admin/users", nil)
	if err != nil {
		log.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("list users: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("list users status %d", resp.StatusCode)
	}
	var listing map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		log.Fatalf("decode users: %v", err)
	}
	users, _ := listing["users"].([]any)
	if len(users) == 0 {
		log.Fatal("user listing is empty")
	}

	fmt.Printf("✅ admin smoke test passed: license=%s users=%d\n", key, len(users))
}

func postJSON(client *http.Client, url string, body map[string]any, bearer string) map[string]any {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Fatalf("post %s: status %d", url, resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode %s: %v", url, err)
	}
	return out
}
